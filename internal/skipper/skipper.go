// Package skipper implements the error-skipping adapter (component 13):
// a pull-through wrapper around an ftdc.Iterator that logs and drops
// per-chunk decode errors instead of aborting the stream, so that one
// malformed chunk in a long archive does not stop the whole render.
package skipper

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nelusnegur/mprobe-go/pkg/ftdc"
	"github.com/nelusnegur/mprobe-go/pkg/log"
)

// source is the subset of ftdc.Iterator that Skip needs, so tests can
// supply a fake stream without building a real archive on disk.
type source interface {
	Next() (ftdc.MetricsChunk, error)
}

// SkippedChunks counts chunks dropped by every Skip adapter in the
// process, labeled by the ftdc error kind that caused the drop, so a
// long-running render can be watched for a spike in malformed input.
var SkippedChunks = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mprobe",
	Subsystem: "skipper",
	Name:      "chunks_skipped_total",
	Help:      "Number of FTDC chunks dropped after a decode error.",
}, []string{"kind"})

func init() {
	prometheus.MustRegister(SkippedChunks)
}

// Skip wraps src and exposes only chunks that decoded cleanly. An io.EOF
// from src ends iteration; any other error is logged and the adapter
// moves on to the next item. It keeps pulling until it finds a chunk or
// reaches the end, so a run of back-to-back errors costs callers nothing
// beyond the logging.
type Skip struct {
	src source
}

// New wraps src with the error-skipping adapter.
func New(src source) *Skip {
	return &Skip{src: src}
}

// Next returns the next chunk that decoded without error, or io.EOF once
// the underlying stream is exhausted.
func (s *Skip) Next() (ftdc.MetricsChunk, error) {
	for {
		chunk, err := s.src.Next()
		if err == nil {
			return chunk, nil
		}
		if errors.Is(err, io.EOF) {
			return ftdc.MetricsChunk{}, io.EOF
		}

		SkippedChunks.WithLabelValues(kindLabel(err)).Inc()
		log.Errorf("skipping chunk: %v", err)
	}
}

func kindLabel(err error) string {
	var decodeErr *ftdc.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Kind.String()
	}
	return "unknown"
}
