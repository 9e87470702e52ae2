package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status     *StatusCommand
	Cached     *CachedCommand
	Deals      *DealsCommand
	Submit     *SubmitCommand
	Areas      *AreasCommand
	RecordView *RecordViewCommand
	Cleanup    *CleanupCommand
	Purge      *PurgeCommand
	Serve      *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "cheapeats"
	parser.LongDescription = "Offline-first cheap-restaurant cache, deals, and cheap-area hints."

	cmds := &commands{
		Status:     &StatusCommand{globals: &globals, version: version},
		Cached:     &CachedCommand{globals: &globals, version: version},
		Deals:      &DealsCommand{globals: &globals, version: version},
		Submit:     &SubmitCommand{globals: &globals, version: version},
		Areas:      &AreasCommand{globals: &globals, version: version},
		RecordView: &RecordViewCommand{globals: &globals, version: version},
		Cleanup:    &CleanupCommand{globals: &globals, version: version},
		Purge:      &PurgeCommand{globals: &globals, version: version},
		Serve:      &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show cache health and statistics", "Show cache health, database statistics, and configuration summary.", cmds.Status)
	parser.AddCommand("cached", "List cached restaurants", "List cached restaurants with optional filters.", cmds.Cached)
	parser.AddCommand("deals", "List stored deals", "List stored deals, optionally scoped to one restaurant.", cmds.Deals)
	parser.AddCommand("submit", "Submit a deal", "Validate and store a deal submission.", cmds.Submit)
	parser.AddCommand("areas", "Show cheap-area hints", "Compute cheap-area hints for a view rectangle from the cache.", cmds.Areas)
	parser.AddCommand("record-view", "Record a restaurant view", "Append a view-history entry feeding repeat protection.", cmds.RecordView)
	parser.AddCommand("cleanup", "Prune old local data", "Prune aged cache rows, expired deals, and old view history.", cmds.Cleanup)
	parser.AddCommand("purge", "Delete ALL local data", "Delete ALL local data. Destructive operation with safety prompt.", cmds.Purge)
	parser.AddCommand("serve", "Start the CheapEats daemon", "Start the CheapEats daemon (local HTTP service).", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the CheapEats CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("cheapeats %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
