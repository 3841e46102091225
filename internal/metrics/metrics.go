package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

const namespace = "plimport"

// Import outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeInvalidURL  = "invalid_url"
	OutcomeUnsupported = "unsupported_url"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

// Track results
const (
	ResultMatched   = "matched"
	ResultUnmatched = "unmatched"
	ResultFailed    = "search_failed"
)

// Recorder collects import metrics. It satisfies the tasks.Observer interface.
type Recorder struct {
	registry *prometheus.Registry

	ImportsTotal   *prometheus.CounterVec
	ImportDuration *prometheus.HistogramVec
	TracksTotal    *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	SavedTracks    prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ImportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of playlist imports by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ImportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Time spent extracting a playlist from its source",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
		TracksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tracks_total",
				Help:      "Total number of tracks searched by match result",
			},
			[]string{"result"},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Catalog search duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		SavedTracks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saved_tracks_total",
				Help:      "Total number of tracks added to saved playlists",
			},
		),
	}

	r.registry.MustRegister(
		r.ImportsTotal,
		r.ImportDuration,
		r.TracksTotal,
		r.SearchDuration,
		r.SavedTracks,
	)
	return r
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ImportFinished records one extraction attempt.
func (r *Recorder) ImportFinished(source models.Source, err error, elapsed time.Duration) {
	r.ImportsTotal.WithLabelValues(source.String(), Outcome(err)).Inc()
	r.ImportDuration.WithLabelValues(source.String()).Observe(elapsed.Seconds())
}

// TrackSearched records one catalog search.
func (r *Recorder) TrackSearched(matched bool, err error, elapsed time.Duration) {
	result := ResultUnmatched
	switch {
	case err != nil:
		result = ResultFailed
	case matched:
		result = ResultMatched
	}
	r.TracksTotal.WithLabelValues(result).Inc()
	r.SearchDuration.Observe(elapsed.Seconds())
}

// PlaylistSaved records the tracks added to a saved playlist.
func (r *Recorder) PlaylistSaved(trackCount int) {
	r.SavedTracks.Add(float64(trackCount))
}

// Outcome classifies an import error into an outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrInvalidURL):
		return OutcomeInvalidURL
	case errors.Is(err, shared.ErrUnsupportedURLFormat):
		return OutcomeUnsupported
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, shared.ErrFetchFailed):
		return OutcomeFetchFailed
	default:
		return OutcomeError
	}
}

// WriteTextfile writes the registry to path in the text exposition format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
