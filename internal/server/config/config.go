// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the user API server. It is built once at
// process start and passed by reference into constructors; nothing reads the
// environment after that.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - AWSRegion: region for both AWS clients.
//   - AWSBaseEndpoint: optional endpoint override for local stacks
//     (LocalStack, DynamoDB Local). Empty means the real AWS endpoints.
//   - AWSAccessKeyID / AWSSecretAccessKey: optional static credentials;
//     when empty the default provider chain is used.
//   - CognitoClientID / CognitoClientSecret: confidential app client. The
//     secret feeds the SECRET_HASH derivation and must not be empty.
//   - CognitoUserPoolID: pool for the provider-side user listing.
//   - UsersTable: DynamoDB table mirroring registered users.
//   - MirrorWrites: when false, registration skips the mirror write.
//   - RequestTimeout: per-request deadline for handlers and AWS calls.
type Config struct {
	EndpointAddrHTTP    string
	AWSRegion           string
	AWSBaseEndpoint     string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	CognitoClientID     string
	CognitoClientSecret string
	CognitoUserPoolID   string
	UsersTable          string
	MirrorWrites        bool
	RequestTimeout      time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: Cognito client settings have no usable default and must come from the
// environment, a JSON file, or flags.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.AWSRegion = "us-east-1"
	c.UsersTable = "users"
	c.MirrorWrites = true
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values from
// an optional JSON file, environment variables, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
