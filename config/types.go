package config

import "time"

// Config is the library-wide configuration. It is read once at startup and
// passed explicitly into connections and drivers; there is no ambient mutable
// state consulted by in-flight requests.
type Config struct {
	Client ClientConfig `koanf:"client" json:"client" yaml:"client" mapstructure:"client"`
	Poll   PollConfig   `koanf:"poll" json:"poll" yaml:"poll" mapstructure:"poll"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// ClientConfig holds the defaults applied to every connection unless a
// connection or a single call overrides them.
type ClientConfig struct {
	// Timeout bounds a single transport exchange and doubles as the retry
	// wall-clock budget when no explicit retry timeout is set.
	Timeout time.Duration  `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
	Retry   RetrySettings  `koanf:"retry" json:"retry" yaml:"retry" mapstructure:"retry"`
	Path    PathSettings   `koanf:"path" json:"path" yaml:"path" mapstructure:"path"`
	Payload PayloadLogging `koanf:"payload" json:"payload" yaml:"payload" mapstructure:"payload"`
}

// RetrySettings controls whether failed requests are retried by default and
// with what policy. A per-call override always wins over these values.
type RetrySettings struct {
	Enabled bool          `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Delay   time.Duration `koanf:"delay" json:"delay" yaml:"delay" mapstructure:"delay" validate:"min=0"`
	Backoff float64       `koanf:"backoff" json:"backoff" yaml:"backoff" mapstructure:"backoff" validate:"omitempty,gte=1"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
}

// PathSettings controls action-path normalization.
type PathSettings struct {
	// Doubleslash disables slash normalization so endpoints where an empty
	// path segment is meaningful (e.g. /bucket//object) keep it verbatim.
	Doubleslash bool `koanf:"doubleslash" json:"doubleslash" yaml:"doubleslash" mapstructure:"doubleslash"`
}

// PayloadLogging controls debug-level logging of request/response bodies.
type PayloadLogging struct {
	Log      bool `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
	MaxBytes int  `koanf:"maxbytes" json:"maxbytes" yaml:"maxbytes" mapstructure:"maxbytes" validate:"min=0"`
}

// PollConfig holds the asynchronous job polling defaults.
type PollConfig struct {
	Interval time.Duration `koanf:"interval" json:"interval" yaml:"interval" mapstructure:"interval" validate:"gt=0"`
	Timeout  time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}
