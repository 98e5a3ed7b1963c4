package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-g", "eu-west-1", "-e", "http://localhost:8000",
			"-i", "client-id", "-s", "client-secret", "-l", "eu-west-1_AbCdEf", "-t", "users_test",
			"-m=false", "-o", "5",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:    "127.0.0.1:9090",
				AWSRegion:           "eu-west-1",
				AWSBaseEndpoint:     "http://localhost:8000",
				CognitoClientID:     "client-id",
				CognitoClientSecret: "client-secret",
				CognitoUserPoolID:   "eu-west-1_AbCdEf",
				UsersTable:          "users_test",
				MirrorWrites:        false,
				RequestTimeout:      5 * time.Second,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
