package config

import "time"

// Config holds runtime settings for the VetSOAP client.
//
// DevMode relaxes the transport trust boundary (HTTP and unlisted hosts are
// allowed) so local backends can be targeted. Production builds must leave
// it false.
type Config struct {
	APIBaseURL  string
	AuthBaseURL string

	// AuthAPIKey is the identity provider's public API key, sent with
	// token requests.
	AuthAPIKey string

	// DataDir holds the encrypted keystore, the offline cache database,
	// and captured audio files.
	DataDir string

	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	PollInterval   time.Duration

	InactivityTimeout       time.Duration
	BackgroundLockThreshold time.Duration
	ClipboardClearDelay     time.Duration

	MaxUploadBytes int64

	DevMode bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.AuthBaseURL = ""
	c.AuthAPIKey = ""
	c.DataDir = ".vetsoap"
	c.RequestTimeout = 30 * time.Second
	c.UploadTimeout = 5 * time.Minute
	c.PollInterval = 5 * time.Second
	c.InactivityTimeout = 15 * time.Minute
	c.BackgroundLockThreshold = 30 * time.Second
	c.ClipboardClearDelay = 60 * time.Second
	c.MaxUploadBytes = 500 * 1024 * 1024
	// Secure by default: dev mode must be requested explicitly via -dev.
	c.DevMode = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
