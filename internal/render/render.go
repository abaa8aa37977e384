// Package render implements the HTML/JS visualization renderer
// collaborator: it drives an ftdc chunk stream to exhaustion, buckets
// every metric by its top-level group, downsamples each series for
// charting with LTTB, and writes one HTML page per group plus an
// index via html/template.
package render

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nelusnegur/mprobe-go/pkg/ftdc"
	"github.com/nelusnegur/mprobe-go/pkg/log"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// maxPointsPerChart bounds how many points a single chart embeds before
// largestTriangleThreeBucket thins it; browsers choke on canvas redraws
// well before this, and a chunked FTDC archive spanning days can produce
// hundreds of thousands of samples per metric.
const maxPointsPerChart = 1500

type series struct {
	name string
	xs   []float64 // unix milliseconds
	ys   []float64
}

// Writer accumulates a decoded chunk stream into per-metric series and
// renders them to static HTML pages.
type Writer struct {
	host     string
	start    time.Time
	end      time.Time
	byGroup  map[string]map[string]*series // group -> metric name -> series
	groupKey []string                      // insertion order, for stable output
}

// source is the subset of ftdc.Iterator (or internal/skipper.Skip) that
// Writer needs to consume a chunk stream.
type source interface {
	Next() (ftdc.MetricsChunk, error)
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{byGroup: make(map[string]map[string]*series)}
}

// Consume pulls every chunk out of src, accumulating its metrics, until
// src reports io.EOF.
func (w *Writer) Consume(src source) error {
	for {
		chunk, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		w.add(chunk)
	}
}

func (w *Writer) add(chunk ftdc.MetricsChunk) {
	if w.host == "" {
		w.host = chunk.Metadata.Host
	}
	if w.start.IsZero() || chunk.StartDate.Before(w.start) {
		w.start = chunk.StartDate
	}
	if chunk.EndDate.After(w.end) {
		w.end = chunk.EndDate
	}

	for _, m := range chunk.Metrics {
		group := "other"
		if len(m.Groups) > 0 {
			group = m.Groups[0]
		}

		byName, ok := w.byGroup[group]
		if !ok {
			byName = make(map[string]*series)
			w.byGroup[group] = byName
			w.groupKey = append(w.groupKey, group)
		}

		s, ok := byName[m.Name]
		if !ok {
			s = &series{name: m.Name}
			byName[m.Name] = s
		}
		for _, meas := range m.Measurements {
			s.xs = append(s.xs, float64(meas.Timestamp.UnixMilli()))
			s.ys = append(s.ys, meas.Value.Float64())
		}
	}
}

type indexGroup struct {
	Name        string
	File        string
	MetricCount int
}

type chartData struct {
	ElementID string
	Title     string
	Labels    template.JS
	Values    template.JS
}

// Write renders the accumulated series to dir: one <group>.html per
// metric group, and an index.html linking them.
func (w *Writer) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: create %s: %w", dir, err)
	}

	var groups []indexGroup
	for _, group := range w.groupKey {
		byName := w.byGroup[group]
		file := sanitizeFileName(group) + ".html"

		if err := w.writeGroupPage(dir, file, group, byName); err != nil {
			return err
		}

		groups = append(groups, indexGroup{Name: group, File: file, MetricCount: len(byName)})
	}

	index := struct {
		Host   string
		Start  string
		End    string
		Groups []indexGroup
	}{
		Host:   w.host,
		Start:  w.start.Format(time.RFC3339),
		End:    w.end.Format(time.RFC3339),
		Groups: groups,
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("render: create index.html: %w", err)
	}
	defer f.Close()

	if err := pageTemplates.ExecuteTemplate(f, "index.html", index); err != nil {
		return fmt.Errorf("render: execute index.html: %w", err)
	}

	log.Infof("render: wrote %d group pages to %s", len(groups), dir)
	return nil
}

func (w *Writer) writeGroupPage(dir, file, group string, byName map[string]*series) error {
	var charts []chartData
	i := 0
	for name, s := range byName {
		xs, ys := largestTriangleThreeBucket(s.xs, s.ys, maxPointsPerChart)

		labels := make([]string, len(xs))
		for i, x := range xs {
			labels[i] = time.UnixMilli(int64(x)).UTC().Format(time.RFC3339)
		}
		labelsJSON, err := json.Marshal(labels)
		if err != nil {
			return err
		}
		valuesJSON, err := json.Marshal(ys)
		if err != nil {
			return err
		}

		charts = append(charts, chartData{
			ElementID: fmt.Sprintf("chart-%d", i),
			Title:     name,
			Labels:    template.JS(labelsJSON),
			Values:    template.JS(valuesJSON),
		})
		i++
	}

	page := struct {
		Name   string
		Charts []chartData
	}{Name: group, Charts: charts}

	f, err := os.Create(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("render: create %s: %w", file, err)
	}
	defer f.Close()

	if err := pageTemplates.ExecuteTemplate(f, "group.html", page); err != nil {
		return fmt.Errorf("render: execute %s: %w", file, err)
	}
	return nil
}

func sanitizeFileName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
