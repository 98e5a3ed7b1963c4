package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. The Cognito
// variable names match what operators already export for the AWS CLI and the
// previous deployment of this service.
//
// Recognized variables:
//
//	ADDRESS                    HTTP bind address
//	AWS_REGION                 region for both AWS clients
//	AWS_BASE_ENDPOINT          endpoint override for local stacks
//	AWS_ACCESS_KEY_ID          static credentials (optional)
//	AWS_SECRET_ACCESS_KEY      static credentials (optional)
//	AWS_COGNITO_CLIENT_ID      app client id
//	AWS_COGNITO_CLIENT_SECRET  app client secret
//	AWS_COGNITO_USER_POOL_ID   user pool id
//	USERS_TABLE                DynamoDB table name
//	MIRROR_WRITES              "true"/"false"
//	REQUEST_TIMEOUT            seconds, integer
func parseEnv(config *Config) {
	setString := func(target *string, name string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*target = v
		}
	}

	setString(&config.EndpointAddrHTTP, "ADDRESS")
	setString(&config.AWSRegion, "AWS_REGION")
	setString(&config.AWSBaseEndpoint, "AWS_BASE_ENDPOINT")
	setString(&config.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&config.CognitoClientID, "AWS_COGNITO_CLIENT_ID")
	setString(&config.CognitoClientSecret, "AWS_COGNITO_CLIENT_SECRET")
	setString(&config.CognitoUserPoolID, "AWS_COGNITO_USER_POOL_ID")
	setString(&config.UsersTable, "USERS_TABLE")

	if v, ok := os.LookupEnv("MIRROR_WRITES"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.MirrorWrites = b
		}
	}

	if v, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RequestTimeout = time.Duration(n) * time.Second
		}
	}
}
