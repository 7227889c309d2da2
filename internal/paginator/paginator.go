package paginator

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rs/zerolog"

	"logpull/internal/model"
)

// EventsAPI is the subset of the CloudWatch Logs API we use for paging.
type EventsAPI interface {
	GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// Direction selects which way a page request walks the stream.
type Direction int

const (
	// Forward pages from the oldest event toward the newest.
	Forward Direction = iota
	// Backward pages from the newest event toward the oldest.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Page is one bounded batch of events plus the continuation tokens for both
// directions, as returned by a single fetch.
type Page struct {
	Events        []model.LogEvent
	ForwardToken  string
	BackwardToken string
}

// token returns the continuation token relevant to the given direction.
func (p Page) token(d Direction) string {
	if d == Backward {
		return p.BackwardToken
	}
	return p.ForwardToken
}

// Paginator assembles complete or tail transcripts of a log stream out of
// bounded GetLogEvents pages.
type Paginator struct {
	client    EventsAPI
	pageLimit int32
	maxPages  int
	log       zerolog.Logger
}

// New creates a Paginator with the page size left to the service and no
// page cap.
func New(client EventsAPI) *Paginator {
	return &Paginator{client: client, log: zerolog.Nop()}
}

// SetPageLimit caps the number of events requested per page; 0 leaves the
// limit to the service.
func (p *Paginator) SetPageLimit(n int32) {
	if n < 0 {
		n = 0
	}
	p.pageLimit = n
}

// SetMaxPages bounds the number of fetches a single assembly may issue, as a
// termination guard against a service that keeps advancing its token without
// making progress; 0 disables the guard. Legitimate long streams need a cap
// large enough to never trip it.
func (p *Paginator) SetMaxPages(n int) {
	if n < 0 {
		n = 0
	}
	p.maxPages = n
}

// SetLogger replaces the no-op logger.
func (p *Paginator) SetLogger(l zerolog.Logger) {
	p.log = l
}

// fetchPage issues one GetLogEvents round-trip. An empty token means start
// from the stream beginning (Forward) or end (Backward).
func (p *Paginator) fetchPage(ctx context.Context, stream model.StreamHandle, dir Direction, token string) (Page, error) {
	in := &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(stream.Group),
		LogStreamName: aws.String(stream.Stream),
		StartFromHead: aws.Bool(dir == Forward),
	}
	if p.pageLimit > 0 {
		in.Limit = aws.Int32(p.pageLimit)
	}
	if token != "" {
		in.NextToken = aws.String(token)
	}
	out, err := p.client.GetLogEvents(ctx, in)
	if err != nil {
		return Page{}, &RetrievalError{Stream: stream, Direction: dir, Err: err}
	}
	pg := Page{
		Events:        make([]model.LogEvent, 0, len(out.Events)),
		ForwardToken:  aws.ToString(out.NextForwardToken),
		BackwardToken: aws.ToString(out.NextBackwardToken),
	}
	for _, e := range out.Events {
		pg.Events = append(pg.Events, model.LogEvent{
			Timestamp: time.Unix(0, aws.ToInt64(e.Timestamp)*int64(time.Millisecond)),
			Ingested:  time.Unix(0, aws.ToInt64(e.IngestionTime)*int64(time.Millisecond)),
			Message:   aws.ToString(e.Message),
		})
	}
	return pg, nil
}

// exhausted reports whether the service cannot advance further in the given
// direction: the token relevant to that direction came back unchanged from
// the one we sent. Token equality is the only reliable end-of-data signal;
// an empty page mid-stream may still carry an advancing token.
func exhausted(dir Direction, prev string, pg Page) bool {
	return prev != "" && prev == pg.token(dir)
}

// AssembleFull retrieves the entire stream from its beginning, in
// chronological order, deduplicating the page-boundary overlap the service
// may emit.
func (p *Paginator) AssembleFull(ctx context.Context, stream model.StreamHandle) (model.Transcript, error) {
	var out model.Transcript
	var token string
	for n := 0; ; n++ {
		if p.maxPages > 0 && n >= p.maxPages {
			return nil, &StalledPaginationError{Stream: stream, Direction: Forward, Pages: n}
		}
		pg, err := p.fetchPage(ctx, stream, Forward, token)
		if err != nil {
			return nil, err
		}
		for _, e := range pg.Events {
			if len(out) > 0 && out[len(out)-1].Equal(e) {
				continue
			}
			out = append(out, e)
		}
		p.log.Debug().
			Str("stream", stream.Stream).
			Int("page", n).
			Int("size", len(pg.Events)).
			Msg("fetched forward page")
		if exhausted(Forward, token, pg) {
			break
		}
		token = pg.ForwardToken
	}
	return out, nil
}

// AssembleTail retrieves the chronologically last targetCount events of the
// stream. targetCount 0 means no cap: drain backward until exhaustion.
// Backward paging yields pages newest-first while events inside each page
// stay oldest-first, so pages are collected whole and flattened in reverse
// page order before trimming.
func (p *Paginator) AssembleTail(ctx context.Context, stream model.StreamHandle, targetCount int) (model.Transcript, error) {
	var pages [][]model.LogEvent
	var total int
	var token string
	for n := 0; ; n++ {
		if p.maxPages > 0 && n >= p.maxPages {
			return nil, &StalledPaginationError{Stream: stream, Direction: Backward, Pages: n}
		}
		pg, err := p.fetchPage(ctx, stream, Backward, token)
		if err != nil {
			return nil, err
		}
		if len(pg.Events) > 0 {
			pages = append(pages, pg.Events)
			total += len(pg.Events)
		}
		p.log.Debug().
			Str("stream", stream.Stream).
			Int("page", n).
			Int("size", len(pg.Events)).
			Msg("fetched backward page")
		if targetCount > 0 && total >= targetCount {
			break
		}
		if exhausted(Backward, token, pg) {
			break
		}
		token = pg.BackwardToken
	}

	out := make(model.Transcript, 0, total)
	for i := len(pages) - 1; i >= 0; i-- {
		out = append(out, pages[i]...)
	}
	if targetCount > 0 && len(out) > targetCount {
		out = out[len(out)-targetCount:]
	}
	return out, nil
}
