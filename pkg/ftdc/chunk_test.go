package ftdc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// buildChunkData assembles the "data" payload of a MetricsChunk document:
// a size hint, then a zlib stream containing the reference document, the
// metrics/samples counts, and (when present) the sample matrix.
func buildChunkData(t *testing.T, refDoc any, metricsCount, samplesCount uint32, matrixBytes []byte) []byte {
	t.Helper()

	refBytes, err := bson.Marshal(refDoc)
	if err != nil {
		t.Fatalf("marshal reference document: %v", err)
	}

	var body bytes.Buffer
	body.Write(refBytes)

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], metricsCount)
	body.Write(countBuf[:])
	binary.LittleEndian.PutUint32(countBuf[:], samplesCount)
	body.Write(countBuf[:])
	body.Write(matrixBytes)

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(body.Bytes()); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	var out bytes.Buffer
	var hint [4]byte
	binary.LittleEndian.PutUint32(hint[:], uint32(body.Len()))
	out.Write(hint[:])
	out.Write(compressed.Bytes())
	return out.Bytes()
}

// TestDecodeChunkNoSamples covers spec scenario S2: a reference document
// with a top-level "start" and one metric "a", samples_count == 0.
func TestDecodeChunkNoSamples(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	refDoc := bson.D{
		{Key: "start", Value: start},
		{Key: "a", Value: int64(7)},
		{Key: "serverStatus", Value: bson.D{
			{Key: "host", Value: "h1"},
			{Key: "process", Value: "mongod"},
			{Key: "version", Value: "7.0.0"},
		}},
	}

	data := buildChunkData(t, refDoc, 2, 0, nil)

	chunk, err := decodeChunk(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chunk.Metadata.Host != "h1" {
		t.Fatalf("got host %q, want h1", chunk.Metadata.Host)
	}
	if !chunk.StartDate.Equal(start) || !chunk.EndDate.Equal(start) {
		t.Fatalf("got start=%v end=%v, want both %v", chunk.StartDate, chunk.EndDate, start)
	}
	if len(chunk.Metrics) != 1 {
		t.Fatalf("got %d metrics, want 1", len(chunk.Metrics))
	}
	m := chunk.Metrics[0]
	if m.Name != "a" {
		t.Fatalf("got metric name %q, want a", m.Name)
	}
	if len(m.Measurements) != 1 {
		t.Fatalf("got %d measurements, want 1", len(m.Measurements))
	}
	if m.Measurements[0].Value.Float64() != 7 {
		t.Fatalf("got value %v, want 7", m.Measurements[0].Value.Float64())
	}
	if !m.Measurements[0].Timestamp.Equal(start) {
		t.Fatalf("got timestamp %v, want %v", m.Measurements[0].Timestamp, start)
	}
}

// TestDecodeChunkWithSamples exercises a two-sample matrix: the "start"
// column advances by 1000ms on its second sample while "a" advances by 5
// on each sample.
func TestDecodeChunkWithSamples(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	refDoc := bson.D{
		{Key: "start", Value: start},
		{Key: "a", Value: int64(10)},
		{Key: "serverStatus", Value: bson.D{
			{Key: "host", Value: "h1"},
			{Key: "process", Value: "mongod"},
			{Key: "version", Value: "7.0.0"},
		}},
	}

	var matrix bytes.Buffer
	matrix.Write(encodeVarUint64(0)) // start, s0: delta 0
	matrix.Write(encodeVarUint64(0)) // run length 0: only this slot is zero
	matrix.Write(encodeVarUint64(1000)) // start, s1: delta 1000
	matrix.Write(encodeVarUint64(5))    // a, s0: delta 5
	matrix.Write(encodeVarUint64(5))    // a, s1: delta 5

	data := buildChunkData(t, refDoc, 2, 2, matrix.Bytes())

	chunk, err := decodeChunk(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunk.Metrics) != 1 {
		t.Fatalf("got %d metrics, want 1", len(chunk.Metrics))
	}

	a := chunk.Metrics[0]
	if len(a.Measurements) != 2 {
		t.Fatalf("got %d measurements, want 2", len(a.Measurements))
	}
	if a.Measurements[0].Value.Float64() != 15 || a.Measurements[1].Value.Float64() != 20 {
		t.Fatalf("got values %v, %v; want 15, 20", a.Measurements[0].Value.Float64(), a.Measurements[1].Value.Float64())
	}
	if !a.Measurements[0].Timestamp.Equal(start) {
		t.Fatalf("got first timestamp %v, want %v", a.Measurements[0].Timestamp, start)
	}
	want1 := start.Add(1000 * time.Millisecond)
	if !a.Measurements[1].Timestamp.Equal(want1) {
		t.Fatalf("got second timestamp %v, want %v", a.Measurements[1].Timestamp, want1)
	}
	if !chunk.EndDate.Equal(want1) {
		t.Fatalf("got chunk end %v, want %v", chunk.EndDate, want1)
	}
}
