package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmarquez/usermirror/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   AWS region
//	-e string   AWS base endpoint override (e.g., "http://localhost:8000")
//	-i string   Cognito app client id
//	-s string   Cognito app client secret
//	-l string   Cognito user pool id
//	-t string   DynamoDB users table name
//	-m bool     mirror registrations into the record store
//	-o int      request timeout, seconds
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in seconds and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-e", "-i", "-s", "-l", "-t", "-m", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.AWSBaseEndpoint, "e", config.AWSBaseEndpoint, "AWS base endpoint override")
	fs.StringVar(&config.CognitoClientID, "i", config.CognitoClientID, "Cognito client id")
	fs.StringVar(&config.CognitoClientSecret, "s", config.CognitoClientSecret, "Cognito client secret")
	fs.StringVar(&config.CognitoUserPoolID, "l", config.CognitoUserPoolID, "Cognito user pool id")
	fs.StringVar(&config.UsersTable, "t", config.UsersTable, "users table name")
	fs.BoolVar(&config.MirrorWrites, "m", config.MirrorWrites, "mirror registrations into the record store")

	requestTimeout := fs.Int("o", int(config.RequestTimeout.Seconds()), "request_timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
