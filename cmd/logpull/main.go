package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rs/zerolog"

	"logpull/cmd"
	"logpull/internal/cache"
	"logpull/internal/client"
	"logpull/internal/config"
	"logpull/internal/listing"
	"logpull/internal/model"
	"logpull/internal/paginator"
	"logpull/internal/preview"
	"logpull/internal/render"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: logpull --log-group <group> --log-stream <stream> [--tail N] [--output-file f]")
	fmt.Fprintln(os.Stderr, "       logpull --log-group <group> --preview [--streams N] [--lines N]")
	fmt.Fprintln(os.Stderr, "       logpull --describe-log-groups | --describe-log-streams --log-group <group>")
	fmt.Fprintln(os.Stderr, "Environment: LOG_GROUP_NAME provides the default group; LOGPULL_* tunes paging; AWS credentials from default sources.")
	os.Exit(2)
}

func main() {
	opts := cmd.CollectOptions()
	if msg, code := opts.Validate(); code != 0 {
		if msg == "" {
			usage()
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(code)
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(settings.LogLevel, opts.Verbose)

	ctx := context.Background()
	cw, err := client.NewCloudWatchClient(ctx, opts.BuildCloudWatchOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create CloudWatch client: %v\n", err)
		os.Exit(1)
	}

	switch {
	case opts.DescribeGroups:
		describeGroups(ctx, cw)
	case opts.DescribeStreams:
		describeStreams(ctx, cw, opts.Group)
	case opts.Preview:
		runPreview(ctx, cw, opts, settings, logger)
	default:
		runRetrieve(ctx, cw, opts, settings, logger)
	}
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(lvl)
}

func newPaginator(cw *cloudwatchlogs.Client, settings config.Settings, logger zerolog.Logger) *paginator.Paginator {
	p := paginator.New(cw)
	p.SetPageLimit(settings.PageLimit)
	p.SetMaxPages(settings.MaxPages)
	p.SetLogger(logger)
	return p
}

func describeGroups(ctx context.Context, cw *cloudwatchlogs.Client) {
	names, err := listing.Groups(ctx, cw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list log groups: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Log Groups:")
	for _, n := range names {
		fmt.Println(n)
	}
}

func describeStreams(ctx context.Context, cw *cloudwatchlogs.Client, group string) {
	names, err := listing.StreamsByCreation(ctx, cw, group)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list log streams: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Log Streams (log group: %s):\n", group)
	for _, n := range names {
		fmt.Println(n)
	}
}

// runRetrieve handles full-stream and tail retrieval. Any failure is fatal
// and leaves no partial output file behind.
func runRetrieve(ctx context.Context, cw *cloudwatchlogs.Client, opts *cmd.Options, settings config.Settings, logger zerolog.Logger) {
	stream := model.StreamHandle{Group: opts.Group, Stream: opts.Stream}
	pag := newPaginator(cw, settings, logger)

	var events model.Transcript
	var err error
	if opts.Tail > 0 {
		events, err = pag.AssembleTail(ctx, stream, opts.Tail)
	} else {
		events, err = fetchFull(ctx, pag, stream, settings, opts.NoCache, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "retrieval failed: %v\n", err)
		os.Exit(1)
	}

	var text string
	if opts.Extract != "" {
		lines, perr := render.Project(events, opts.Extract)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "extract error: %v\n", perr)
			os.Exit(1)
		}
		text = strings.Join(lines, "\n")
	} else if opts.Tail > 0 {
		text = render.Timestamped(events)
	} else {
		text = render.Text(events)
	}

	if opts.OutputFile != "" {
		if werr := os.WriteFile(opts.OutputFile, []byte(text+"\n"), 0o644); werr != nil {
			fmt.Fprintf(os.Stderr, "unable to write %s: %v\n", opts.OutputFile, werr)
			os.Exit(1)
		}
		logger.Info().Str("file", opts.OutputFile).Int("events", len(events)).Msg("wrote output file")
		return
	}
	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintln(w, text)
	_ = w.Flush()
}

// fetchFull assembles the whole stream, consulting the transcript cache and
// retrying a stalled assembly once from scratch.
func fetchFull(ctx context.Context, pag *paginator.Paginator, stream model.StreamHandle, settings config.Settings, noCache bool, logger zerolog.Logger) (model.Transcript, error) {
	c := cache.Cache{Dir: settings.CacheDir}
	if !noCache {
		if events, ok, err := c.Load(stream); err == nil && ok {
			logger.Info().Int("events", len(events)).Msg("using cached transcript")
			return events, nil
		} else if err != nil {
			logger.Warn().Err(err).Msg("cache read failed, fetching")
		}
	}

	events, err := pag.AssembleFull(ctx, stream)
	var stalled *paginator.StalledPaginationError
	if errors.As(err, &stalled) {
		logger.Warn().Int("pages", stalled.Pages).Msg("pagination stalled, retrying once from scratch")
		events, err = pag.AssembleFull(ctx, stream)
	}
	if err != nil {
		return nil, err
	}

	if !noCache {
		if cerr := c.Store(stream, events); cerr != nil {
			logger.Warn().Err(cerr).Msg("cache write failed")
		} else {
			logger.Info().Int("events", len(events)).Msg("cached transcript")
		}
	}
	return events, nil
}

// runPreview prints a short tail of each recently active stream. Per-stream
// failures are marked inline and do not fail the command.
func runPreview(ctx context.Context, cw *cloudwatchlogs.Client, opts *cmd.Options, settings config.Settings, logger zerolog.Logger) {
	pag := newPaginator(cw, settings, logger)
	orch := preview.New(cw, pag)
	orch.SetWorkers(settings.Workers)
	orch.SetLogger(logger)

	previews, err := orch.Preview(ctx, opts.Group, opts.Streams, opts.Lines)
	var partial *preview.PartialPreviewError
	if err != nil && !errors.As(err, &partial) {
		fmt.Fprintf(os.Stderr, "preview failed: %v\n", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	for _, p := range previews {
		fmt.Fprintf(w, "==> %s <==\n", p.Stream.Stream)
		if p.Err != nil {
			fmt.Fprintf(w, "(failed: %v)\n", p.Err)
			continue
		}
		if opts.Extract != "" {
			lines, perr := render.Project(p.Events, opts.Extract)
			if perr != nil {
				fmt.Fprintf(w, "(extract error: %v)\n", perr)
				continue
			}
			for _, l := range lines {
				fmt.Fprintln(w, l)
			}
			continue
		}
		if len(p.Events) > 0 {
			fmt.Fprintln(w, render.Timestamped(p.Events))
		}
	}
	_ = w.Flush()
	if partial != nil {
		logger.Warn().Int("failed", len(partial.Failed)).Int("total", partial.Total).Msg("some stream previews failed")
	}
}
