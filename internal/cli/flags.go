package cli

import "database/sql"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand — show cache health, database stats, config summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// CachedCommand — list cached restaurants with optional filters.
type CachedCommand struct {
	Lat             string `long:"lat" description:"Latitude for location-scoped results"`
	Lng             string `long:"lng" description:"Longitude for location-scoped results"`
	MaxPrice        string `long:"max-price" description:"Only restaurants with a known average price at or under this"`
	MinRating       string `long:"min-rating" description:"Only restaurants rated at least this"`
	OpenNow         bool   `long:"open-now" description:"Only restaurants known to be open"`
	NearTransit     bool   `long:"near-transit" description:"Only restaurants near a transit station"`
	StudentDiscount bool   `long:"student-discount" description:"Only restaurants with a student discount"`
	Limit           int    `long:"limit" description:"Maximum results" default:"20"`

	globals *GlobalFlags
	version string
}

// DealsCommand — list stored deals, optionally scoped to one restaurant.
type DealsCommand struct {
	Restaurant string `long:"restaurant" description:"Only deals at this restaurant id"`
	Active     bool   `long:"active" description:"Only deals active right now"`

	globals *GlobalFlags
	version string
}

// SubmitCommand — submit a deal into the local store.
type SubmitCommand struct {
	Restaurant    string  `long:"restaurant" description:"Restaurant id (required)"`
	Title         string  `long:"title" description:"Deal title (required)"`
	Price         float64 `long:"price" description:"Deal price (required)"`
	OriginalPrice float64 `long:"original-price" description:"Regular price, when known"`
	Description   string  `long:"description" description:"Deal description"`
	Type          string  `long:"type" description:"Deal type: daily | weekly | limited | student | happy-hour | combo" default:"limited"`
	Days          string  `long:"days" description:"Valid days: weekdays, weekends, or a list like Mon,Wed,Fri"`
	Start         string  `long:"start" description:"Intraday window start (HH:MM)"`
	End           string  `long:"end" description:"Intraday window end (HH:MM)"`

	globals *GlobalFlags
	version string
}

// AreasCommand — compute cheap-area hints for a view rectangle.
type AreasCommand struct {
	MinLat float64 `long:"min-lat" description:"South edge of the view rectangle" required:"true"`
	MinLng float64 `long:"min-lng" description:"West edge of the view rectangle" required:"true"`
	MaxLat float64 `long:"max-lat" description:"North edge of the view rectangle" required:"true"`
	MaxLng float64 `long:"max-lng" description:"East edge of the view rectangle" required:"true"`
	Budget float64 `long:"budget" description:"Budget used for the cheapness test" default:"15"`

	globals *GlobalFlags
	version string
}

// RecordViewCommand — append a view-history entry.
type RecordViewCommand struct {
	Restaurant string `long:"restaurant" description:"Restaurant id (required)"`
	Source     string `long:"source" description:"View source: search | recommendation | map-tap | collection | deal" default:"recommendation"`

	globals *GlobalFlags
	version string
}

// CleanupCommand — prune aged cache rows, expired deals, and old views.
type CleanupCommand struct {
	OlderThan string `long:"older-than" description:"Override cache retention (e.g., 7d, 24h)"`

	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL local data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB // injectable for testing; nil means open default DB
}

// ServeCommand — start the local HTTP API daemon.
type ServeCommand struct {
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}
