package skipper

import (
	"errors"
	"io"
	"testing"

	"github.com/nelusnegur/mprobe-go/pkg/ftdc"
)

type fakeSource struct {
	items []result
	pos   int
}

type result struct {
	chunk ftdc.MetricsChunk
	err   error
}

func (f *fakeSource) Next() (ftdc.MetricsChunk, error) {
	if f.pos >= len(f.items) {
		return ftdc.MetricsChunk{}, io.EOF
	}
	r := f.items[f.pos]
	f.pos++
	return r.chunk, r.err
}

func TestSkipDropsErrorsAndKeepsChunks(t *testing.T) {
	want := ftdc.MetricsChunk{Metadata: ftdc.Metadata{Host: "h1"}}
	src := &fakeSource{items: []result{
		{err: errors.New("bad chunk 1")},
		{chunk: want},
		{err: errors.New("bad chunk 2")},
	}}

	s := New(src)

	chunk, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Metadata.Host != "h1" {
		t.Fatalf("got %+v, want host h1", chunk)
	}

	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestSkipPropagatesImmediateEOF(t *testing.T) {
	s := New(&fakeSource{})
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}
