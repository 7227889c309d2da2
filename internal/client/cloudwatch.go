package client

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// AuthOptions carries the credential-related knobs resolved from flags.
type AuthOptions struct {
	Region  string
	Profile string
}

// NewCloudWatchOptions translates AuthOptions into AWS config load options.
// The profile flag wins over AWS_PROFILE; with neither set, default
// credential resolution applies.
func NewCloudWatchOptions(o AuthOptions) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, config.WithRegion(o.Region))
	}
	profile := o.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	return opts
}

// NewCloudWatchClient loads AWS configuration and returns a CloudWatch Logs
// client.
func NewCloudWatchClient(ctx context.Context, opts ...func(*config.LoadOptions) error) (*cloudwatchlogs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}
