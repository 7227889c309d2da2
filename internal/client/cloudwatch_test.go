package client_test

import (
	"os"
	"testing"

	"logpull/internal/client"
)

// helper to temporarily set env var
func withEnv(key, val string, fn func()) {
	old, had := os.LookupEnv(key)
	if val == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, val)
	}
	defer func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}()
	fn()
}

func TestNewCloudWatchOptions(t *testing.T) {
	tests := []struct {
		name       string
		options    client.AuthOptions
		awsProfile string
		wantLen    int
	}{
		{"no region or profile", client.AuthOptions{}, "", 0},
		{"with region", client.AuthOptions{Region: "us-east-1"}, "", 1},
		{"with profile flag", client.AuthOptions{Profile: "my-profile"}, "", 1},
		{"with AWS_PROFILE env", client.AuthOptions{}, "env-profile", 1},
		{"profile flag overrides AWS_PROFILE", client.AuthOptions{Profile: "flag-profile"}, "env-profile", 1},
		{"with region and profile", client.AuthOptions{Region: "us-west-2", Profile: "p"}, "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv("AWS_PROFILE", tt.awsProfile, func() {
				opts := client.NewCloudWatchOptions(tt.options)
				if len(opts) != tt.wantLen {
					t.Errorf("NewCloudWatchOptions() returned %d options, want %d", len(opts), tt.wantLen)
				}
			})
		})
	}
}
