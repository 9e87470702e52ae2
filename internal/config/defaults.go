package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:         "~/.config/cheapeats",
			SQLiteFile:   "cheapeats.db",
			ThumbnailDir: "thumbnails",
		},
		Retention: RetentionConfig{
			CacheDays:            7,
			ViewHistoryDays:      7,
			CleanupIntervalHours: 24,
		},
		Limits: LimitsConfig{
			MaxCachedRestaurants: 200,
			MaxCacheSizeMB:       50,
		},
		Thumbnails: ThumbnailsConfig{
			Enabled:             true,
			WifiOnly:            true,
			SizePx:              200,
			FetchTimeoutSeconds: 5,
		},
		Repeats: RepeatsConfig{
			CooldownHours: 24,
		},
		Server: ServerConfig{
			Host:                 "127.0.0.1",
			Port:                 8742,
			AllowedOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
			ProbeURL:             "https://clients3.google.com/generate_204",
			ProbeIntervalSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
