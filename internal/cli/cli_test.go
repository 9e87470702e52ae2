package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	assert.NoError(t, err)
	assert.Contains(t, output, "cheapeats 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	_ = RunWithArgs("1.2.3", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := strings.TrimSpace(buf.String())

	assert.Equal(t, "cheapeats 1.2.3", output)
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"status", "cached", "deals", "submit", "areas", "record-view", "cleanup", "purge", "serve"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"nonexistent"})
	require.Error(t, err)
}

func TestGlobalFlagsJSON(t *testing.T) {
	parser, globals, _ := buildParser("test")
	// purge without --all fails before touching any state; only the global
	// flag parse matters here.
	_, _ = parser.ParseArgs([]string{"--json", "purge"})
	assert.True(t, globals.JSON)
}

func TestGlobalFlagsConfig(t *testing.T) {
	parser, globals, _ := buildParser("test")
	_, _ = parser.ParseArgs([]string{"--config", "/tmp/test.yaml", "purge"})
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
}

func TestPurgeRequiresAll(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")
}

func TestSubmitRequiresRestaurant(t *testing.T) {
	err := RunWithArgs("test", []string{"submit", "--title", "Cheap lunch", "--price", "9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--restaurant is required")
}

func TestSubmitRequiresTitle(t *testing.T) {
	err := RunWithArgs("test", []string{"submit", "--restaurant", "r1", "--price", "9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title is required")
}

func TestAreasRequiresBounds(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"areas", "--min-lat", "43.6"})
	require.Error(t, err)
}

func TestCachedFlagDefaults(t *testing.T) {
	_, _, c := buildParser("test")
	assert.Equal(t, 20, c.Cached.Limit)
}

func TestSubmitTypeDefault(t *testing.T) {
	_, _, c := buildParser("test")
	assert.Equal(t, "limited", c.Submit.Type)
}

func TestAreasBudgetDefault(t *testing.T) {
	_, _, c := buildParser("test")
	assert.Equal(t, 15.0, c.Areas.Budget)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	err := RunWithArgs("test", []string{"--help"})
	assert.NoError(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"24h", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"30m", 30 * time.Minute},
	}
	for _, tc := range cases {
		got, err := parseDuration(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "d", "7x", "abc"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "2.5 MB", formatBytes(2621440))
	assert.Equal(t, "1.0 GB", formatBytes(1<<30))
}
