package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkoval/companyportal/internal/flagx"
	"github.com/dkoval/companyportal/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "720h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP              string         `json:"endpoint_addr_http"`
	DatabaseDSN                   string         `json:"database_dsn"`
	SecretKey                     string         `json:"secret_key"`
	RememberTokenValidityDuration timex.Duration `json:"remember_token_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.RememberTokenValidityDuration = time.Duration(c.RememberTokenValidityDuration.Duration)
}
