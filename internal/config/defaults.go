package config

const (
	defaultDataDir                = "~/.local/share/hunt"
	defaultLogDir                 = "~/.local/share/hunt/logs"
	defaultSeason                 = "Summer"
	defaultStalenessThresholdDays = 7
	defaultPollInterval           = 60
	defaultErrorRetryInterval     = 10
	defaultNotifyRequestTimeout   = 10
	defaultNotifyRatePerMinute    = 30
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Tracker: Tracker{
			DefaultSeason: defaultSeason,
		},
		Staleness: Staleness{
			ThresholdDays: defaultStalenessThresholdDays,
		},
		Dispatcher: Dispatcher{
			PollInterval:       defaultPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RatePerMinute:  defaultNotifyRatePerMinute,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
