package render

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nelusnegur/mprobe-go/pkg/ftdc"
)

type fakeSource struct {
	chunks []ftdc.MetricsChunk
	pos    int
}

func (f *fakeSource) Next() (ftdc.MetricsChunk, error) {
	if f.pos >= len(f.chunks) {
		return ftdc.MetricsChunk{}, io.EOF
	}
	c := f.chunks[f.pos]
	f.pos++
	return c, nil
}

func sampleChunk(host string, base time.Time, value float64) ftdc.MetricsChunk {
	return ftdc.MetricsChunk{
		StartDate: base,
		EndDate:   base.Add(time.Second),
		Metadata:  ftdc.Metadata{Host: host},
		Metrics: []ftdc.Metric{
			{
				Name:   "opcounters insert",
				Groups: []string{"opcounters", "insert"},
				Measurements: []ftdc.Measurement{
					{Timestamp: base, Value: ftdc.NewValue(ftdc.ValueInt64, uint64(value))},
				},
			},
		},
	}
}

func TestWriterConsumeAndWrite(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{chunks: []ftdc.MetricsChunk{
		sampleChunk("h1", base, 1),
		sampleChunk("h1", base.Add(time.Second), 2),
	}}

	w := NewWriter()
	if err := w.Consume(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	if err := w.Write(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		t.Fatalf("expected index.html: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "opcounters.html")); err != nil {
		t.Fatalf("expected opcounters.html: %v", err)
	}
}

func TestWriterWriteLineProtocol(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWriter()
	w.add(sampleChunk("h1", base, 5))

	path := filepath.Join(t.TempDir(), "out.lp")
	if err := w.WriteLineProtocol(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read line protocol output: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty line protocol output")
	}
}
