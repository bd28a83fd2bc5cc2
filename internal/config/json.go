package config

import (
	"encoding/json"
	"os"

	"github.com/fieldlog/fieldlog/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Only fields
// present in the file overlay the runtime Config.
type JsonConfig struct {
	DataDir  *string `json:"data_dir"`
	LogLevel *string `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file, resolved
// from the -c/-config flags. No file, no overlay. Read or unmarshal errors
// panic (caller should recover if desired); a present but broken config file
// is a setup mistake, unlike the data stores, which tolerate corruption.
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

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
