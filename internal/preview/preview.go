// Package preview assembles a small tail of each of a group's most
// recently active streams.
package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"logpull/internal/listing"
	"logpull/internal/model"
)

// Tailer assembles the last targetCount events of a stream.
type Tailer interface {
	AssembleTail(ctx context.Context, stream model.StreamHandle, targetCount int) (model.Transcript, error)
}

// StreamPreview is the per-stream result of a preview batch. Err is set when
// that stream's assembly failed; sibling streams are unaffected.
type StreamPreview struct {
	Stream model.StreamHandle
	Events model.Transcript
	Err    error
}

// PartialPreviewError aggregates the per-stream failures of a batch. It is
// returned alongside the successful results and is not fatal to the batch.
type PartialPreviewError struct {
	Failed []model.StreamHandle
	Total  int
}

func (e *PartialPreviewError) Error() string {
	return fmt.Sprintf("%d of %d stream previews failed", len(e.Failed), e.Total)
}

// Orchestrator fans tail assemblies out over a bounded worker pool.
type Orchestrator struct {
	streams listing.StreamsAPI
	tailer  Tailer
	workers int
	log     zerolog.Logger
}

// New creates an Orchestrator with a single worker.
func New(streams listing.StreamsAPI, tailer Tailer) *Orchestrator {
	return &Orchestrator{streams: streams, tailer: tailer, workers: 1, log: zerolog.Nop()}
}

// SetWorkers bounds the number of concurrent stream assemblies (minimum 1).
func (o *Orchestrator) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	o.workers = n
}

// SetLogger replaces the no-op logger.
func (o *Orchestrator) SetLogger(l zerolog.Logger) {
	o.log = l
}

// Preview returns previews for the streamCount most recently active streams
// of the group, in recency order regardless of which assembly finishes
// first. linesPerStream 0 short-circuits to empty transcripts with no event
// fetches. A *PartialPreviewError accompanies the results when some streams
// failed; the results themselves are still valid.
func (o *Orchestrator) Preview(ctx context.Context, group string, streamCount, linesPerStream int) ([]StreamPreview, error) {
	handles, err := listing.RecentStreams(ctx, o.streams, group, streamCount)
	if err != nil {
		return nil, err
	}

	results := make([]StreamPreview, len(handles))
	for i, h := range handles {
		results[i] = StreamPreview{Stream: h, Events: model.Transcript{}}
	}
	if linesPerStream == 0 || len(handles) == 0 {
		return results, nil
	}

	// Each worker writes only its own index's slot, so recency order is
	// preserved without locking.
	idxChan := make(chan int, len(handles))
	for i := range handles {
		idxChan <- i
	}
	close(idxChan)

	workers := o.workers
	if workers > len(handles) {
		workers = len(handles)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				events, err := o.tailer.AssembleTail(ctx, handles[i], linesPerStream)
				if err != nil {
					o.log.Warn().Str("stream", handles[i].Stream).Err(err).Msg("stream preview failed")
					results[i] = StreamPreview{Stream: handles[i], Err: err}
					continue
				}
				results[i] = StreamPreview{Stream: handles[i], Events: events}
			}
		}()
	}
	wg.Wait()

	var failed []model.StreamHandle
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Stream)
		}
	}
	if len(failed) > 0 {
		return results, &PartialPreviewError{Failed: failed, Total: len(results)}
	}
	return results, nil
}
