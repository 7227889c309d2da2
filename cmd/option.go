package cmd

import (
	"flag"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"logpull/internal/client"
)

// Options holds CLI options after parsing flags and env defaults.
type Options struct {
	DescribeGroups  bool
	DescribeStreams bool
	Preview         bool
	Group           string
	Stream          string
	Tail            int
	Streams         int
	Lines           int
	OutputFile      string
	Extract         string
	Region          string
	Profile         string
	NoCache         bool
	Verbose         bool
}

// Validate checks relationships and required flags.
// Returns an error message and exit code; when the mode's required flags are
// simply absent it returns ("", 2) and the caller should invoke usage().
func (o *Options) Validate() (string, int) {
	if o.Tail < 0 {
		return "error: --tail must not be negative", 2
	}
	if o.Streams < 0 || o.Lines < 0 {
		return "error: --streams and --lines must not be negative", 2
	}
	if o.DescribeGroups {
		return "", 0
	}
	if o.DescribeStreams {
		if o.Group == "" {
			return "error: --log-group is required when using --describe-log-streams", 2
		}
		return "", 0
	}
	if o.Preview {
		if o.Group == "" {
			return "error: --log-group is required when using --preview", 2
		}
		if o.Tail > 0 {
			return "error: --preview and --tail are mutually exclusive", 2
		}
		return "", 0
	}
	if o.Group == "" || o.Stream == "" {
		// Caller prints usage() which exits(2)
		return "", 2
	}
	return "", 0
}

// BuildCloudWatchOptions translates the auth-related flags into AWS config
// load options.
func (o *Options) BuildCloudWatchOptions() []func(*awsconfig.LoadOptions) error {
	return client.NewCloudWatchOptions(client.AuthOptions{Region: o.Region, Profile: o.Profile})
}

// CollectOptions parses flags with environment-backed defaults and returns
// Options.
func CollectOptions() *Options {
	var o Options

	group := os.Getenv("LOG_GROUP_NAME")

	flag.BoolVar(&o.DescribeGroups, "describe-log-groups", false, "List log group names and exit")
	flag.BoolVar(&o.DescribeStreams, "describe-log-streams", false, "List stream names of --log-group and exit")
	flag.BoolVar(&o.Preview, "preview", false, "Show the last --lines events of the --streams most recent streams")
	flag.StringVar(&o.Group, "log-group", group, "CloudWatch log group name")
	flag.StringVar(&o.Group, "g", group, "Shorthand for --log-group")
	flag.StringVar(&o.Stream, "log-stream", "", "CloudWatch log stream name")
	flag.StringVar(&o.Stream, "s", "", "Shorthand for --log-stream")
	flag.IntVar(&o.Tail, "tail", 0, "Retrieve only the last N events of the stream")
	flag.IntVar(&o.Streams, "streams", 5, "Streams to include in --preview")
	flag.IntVar(&o.Lines, "lines", 10, "Events per stream in --preview")
	flag.StringVar(&o.OutputFile, "output-file", "", "Write output to this file instead of stdout")
	flag.StringVar(&o.OutputFile, "o", "", "Shorthand for --output-file")
	flag.StringVar(&o.Extract, "extract", "", "JMESPath projection applied to each event's JSON payload for display")
	flag.StringVar(&o.Region, "region", os.Getenv("AWS_REGION"), "AWS region (optional; falls back to AWS defaults)")
	flag.StringVar(&o.Profile, "profile", "", "AWS shared config profile (or set AWS_PROFILE)")
	flag.BoolVar(&o.NoCache, "no-cache", false, "Bypass the on-disk transcript cache for full retrieval")
	flag.BoolVar(&o.Verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	return &o
}
