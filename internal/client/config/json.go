package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/quizdeck/internal/flagx"
	"github.com/dmitrijs2005/quizdeck/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds.
type JSONConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DataFile       string         `json:"data_file"`
}

// parseJSON overlays Config with values loaded from a JSON file whose path
// is given via -c or -config. Without those flags nothing is loaded. Only
// keys present in the file override the current values. Read or unmarshal
// errors panic; config files are deploy-time artifacts.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DataFile != "" {
		cfg.DataFile = jc.DataFile
	}
}
