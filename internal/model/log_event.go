package model

import "time"

// LogEvent is a single timestamped line from a log stream. Timestamps are
// non-decreasing within a stream but not unique, and the service may re-emit
// an event across adjacent page boundaries, so the full tuple is the
// identity used for deduplication.
type LogEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Ingested  time.Time `json:"ingestionTime"`
	Message   string    `json:"message"`
}

// Equal reports whether two events are the same occurrence.
func (e LogEvent) Equal(o LogEvent) bool {
	return e.Timestamp.Equal(o.Timestamp) && e.Ingested.Equal(o.Ingested) && e.Message == o.Message
}

// StreamHandle identifies a log stream within a log group.
type StreamHandle struct {
	Group  string
	Stream string
}

// Transcript is a chronologically ordered sequence of events assembled from
// one stream. It is owned exclusively by the caller that requested it.
type Transcript []LogEvent

// Messages returns the raw payloads in order.
func (t Transcript) Messages() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Message
	}
	return out
}
