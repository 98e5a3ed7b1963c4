package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmarquez/usermirror/internal/flagx"
	"github.com/dmarquez/usermirror/internal/timex"
)

// JsonConfig is the DTO for reading a JSON configuration file. It uses
// timex.Duration for interval fields, which parses both string values such as
// "10s" and integer nanoseconds. After unmarshalling, its fields are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	AWSRegion           string         `json:"aws_region"`
	AWSBaseEndpoint     string         `json:"aws_base_endpoint"`
	AWSAccessKeyID      string         `json:"aws_access_key_id"`
	AWSSecretAccessKey  string         `json:"aws_secret_access_key"`
	CognitoClientID     string         `json:"cognito_client_id"`
	CognitoClientSecret string         `json:"cognito_client_secret"`
	CognitoUserPoolID   string         `json:"cognito_user_pool_id"`
	UsersTable          string         `json:"users_table"`
	MirrorWrites        *bool          `json:"mirror_writes"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags into the provided Config. If no flag is set, nothing is
// loaded. Unreadable or invalid files panic: a config file that is present
// but broken should stop the process immediately.
//
// Only fields present in the file override the target Config.
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

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.AWSRegion != "" {
		config.AWSRegion = c.AWSRegion
	}
	if c.AWSBaseEndpoint != "" {
		config.AWSBaseEndpoint = c.AWSBaseEndpoint
	}
	if c.AWSAccessKeyID != "" {
		config.AWSAccessKeyID = c.AWSAccessKeyID
	}
	if c.AWSSecretAccessKey != "" {
		config.AWSSecretAccessKey = c.AWSSecretAccessKey
	}
	if c.CognitoClientID != "" {
		config.CognitoClientID = c.CognitoClientID
	}
	if c.CognitoClientSecret != "" {
		config.CognitoClientSecret = c.CognitoClientSecret
	}
	if c.CognitoUserPoolID != "" {
		config.CognitoUserPoolID = c.CognitoUserPoolID
	}
	if c.UsersTable != "" {
		config.UsersTable = c.UsersTable
	}
	if c.MirrorWrites != nil {
		config.MirrorWrites = *c.MirrorWrites
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}
