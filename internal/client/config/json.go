package config

import (
	"encoding/json"
	"os"

	"github.com/vetsoap/vetsoap-go/internal/flagx"
	"github.com/vetsoap/vetsoap-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL  string `json:"api_base_url"`
	AuthBaseURL string `json:"auth_base_url"`
	AuthAPIKey  string `json:"auth_api_key"`
	DataDir     string `json:"data_dir"`

	RequestTimeout timex.Duration `json:"request_timeout"`
	UploadTimeout  timex.Duration `json:"upload_timeout"`
	PollInterval   timex.Duration `json:"poll_interval"`

	InactivityTimeout       timex.Duration `json:"inactivity_timeout"`
	BackgroundLockThreshold timex.Duration `json:"background_lock_threshold"`
	ClipboardClearDelay     timex.Duration `json:"clipboard_clear_delay"`

	MaxUploadBytes int64 `json:"max_upload_bytes"`

	DevMode *bool `json:"dev_mode"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c or -config flags. Zero values in the file leave the existing
// Config value untouched, so partial files are fine.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.AuthBaseURL != "" {
		cfg.AuthBaseURL = jc.AuthBaseURL
	}
	if jc.AuthAPIKey != "" {
		cfg.AuthAPIKey = jc.AuthAPIKey
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UploadTimeout.Duration > 0 {
		cfg.UploadTimeout = jc.UploadTimeout.Duration
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.InactivityTimeout.Duration > 0 {
		cfg.InactivityTimeout = jc.InactivityTimeout.Duration
	}
	if jc.BackgroundLockThreshold.Duration > 0 {
		cfg.BackgroundLockThreshold = jc.BackgroundLockThreshold.Duration
	}
	if jc.ClipboardClearDelay.Duration > 0 {
		cfg.ClipboardClearDelay = jc.ClipboardClearDelay.Duration
	}
	if jc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = jc.MaxUploadBytes
	}
	if jc.DevMode != nil {
		cfg.DevMode = *jc.DevMode
	}
}
