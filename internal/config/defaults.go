package config

const (
	defaultLogDir               = "~/.local/share/winnow/logs"
	defaultStateDir             = "~/.local/share/winnow/state"
	defaultAPIBind              = "127.0.0.1:7519"
	defaultProviderKey          = "Imdb"
	defaultDirDeleteThreshold   = 20 * 1024 * 1024
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
			APIBind:  defaultAPIBind,
		},
		Jellyfin: Jellyfin{
			Refresh: true,
		},
		Cleanup: Cleanup{
			ProviderKey:        defaultProviderKey,
			DirDeleteThreshold: defaultDirDeleteThreshold,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
