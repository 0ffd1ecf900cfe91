package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/flagx"
	"github.com/dmitrijs2005/linkfolio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration, so "10s" and integer nanoseconds are both accepted.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	SessionFile    string          `json:"session_file"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with the JSON file named by -c or -config, or
// by LINKCTL_CONFIG when neither flag is given.
// Absent keys keep their current values. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:], "LINKCTL_CONFIG")
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
