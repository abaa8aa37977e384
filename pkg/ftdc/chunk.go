package ftdc

import (
	"bytes"
	"strings"
	"time"
)

// MetricsChunk is one decoded FTDC metrics chunk: every metric sampled
// during the chunk's time range, plus the metadata of the server it was
// captured from.
type MetricsChunk struct {
	StartDate time.Time
	EndDate   time.Time
	Metadata  Metadata
	Metrics   []Metric
}

// decodeChunk turns the compressed payload of a MetricsChunk document
// into a MetricsChunk: decompress, read the reference document that
// describes the chunk's schema, then read and reconstruct the
// delta-encoded sample matrix that follows it.
func decodeChunk(data []byte) (MetricsChunk, error) {
	body, err := decompress(bytes.NewReader(data))
	if err != nil {
		return MetricsChunk{}, err
	}

	br := bytes.NewReader(body)
	reader := newDocumentReader(br)

	refDoc, err := reader.Next()
	if err != nil {
		return MetricsChunk{}, err
	}

	// Every reference document doubles as a serverStatus-shaped snapshot:
	// alongside the numeric fields extracted below, it also carries the
	// host/process/version strings identifying the server it came from.
	metadata, err := metadataFromReferenceDocument(refDoc)
	if err != nil {
		return MetricsChunk{}, err
	}

	metricsCount, err := readUint32LE(br)
	if err != nil {
		return MetricsChunk{}, errIO(err)
	}
	samplesCount, err := readUint32LE(br)
	if err != nil {
		return MetricsChunk{}, errIO(err)
	}

	fields, err := extractSchema(refDoc)
	if err != nil {
		return MetricsChunk{}, err
	}
	if uint32(len(fields)) != metricsCount {
		return MetricsChunk{}, errMetricCountMismatch()
	}

	initials := make([]uint64, len(fields))
	for i, f := range fields {
		initials[i] = f.Initial
	}

	// When a chunk has no samples beyond the reference document itself,
	// there is no matrix on the wire at all: every metric's sole value is
	// its reference-document initial value.
	var matrix [][]uint64
	if samplesCount == 0 {
		matrix = make([][]uint64, len(fields))
		for i, v := range initials {
			matrix[i] = []uint64{v}
		}
	} else {
		matrix, err = decodeSamples(br, int(metricsCount), int(samplesCount), initials)
		if err != nil {
			return MetricsChunk{}, err
		}
	}

	return assembleChunk(fields, matrix, metadata)
}

// assembleChunk walks the decoded schema/matrix pair and builds the
// final Metric list, following the same timestamp-rail convention as
// the reference decoder: a top-level "start" column is the chunk's
// master clock, while a nested "<group> start" column becomes the
// timestamp rail for every later metric, in that group and in any group
// after it, until the next nested "start" column replaces it. Only the most recently seen nested
// rail is kept; an earlier group's rail is not restored once a later
// group's "start" column has been read, matching upstream behavior.
func assembleChunk(fields []schemaField, matrix [][]uint64, metadata Metadata) (MetricsChunk, error) {
	var chunkTimestamps []time.Time
	var timestamps []time.Time
	var metrics []Metric

	for i, f := range fields {
		last := f.Groups[len(f.Groups)-1]

		if last == "start" || last == "end" {
			decoded := decodeTimeColumn(matrix[i])
			if last == "start" {
				if len(f.Groups) == 1 {
					// A top-level start column is both the chunk's own
					// clock and the default rail for any metric that
					// precedes the first nested section.
					chunkTimestamps = decoded
					timestamps = decoded
				} else {
					timestamps = decoded
				}
			}
			continue
		}

		if timestamps == nil {
			return MetricsChunk{}, errMetricTimestampNotFound(strings.Join(f.Groups, " "))
		}

		measurements := make([]Measurement, len(matrix[i]))
		for s, raw := range matrix[i] {
			measurements[s] = Measurement{Timestamp: timestamps[s], Value: f.Type.convert(raw)}
		}

		metrics = append(metrics, Metric{
			Name:         strings.Join(f.Groups, " "),
			Groups:       f.Groups,
			StartDate:    measurements[0].Timestamp,
			EndDate:      measurements[len(measurements)-1].Timestamp,
			Measurements: measurements,
		})
	}

	if len(chunkTimestamps) == 0 {
		return MetricsChunk{}, errMetricTimestampNotFound("start")
	}

	return MetricsChunk{
		StartDate: chunkTimestamps[0],
		EndDate:   chunkTimestamps[len(chunkTimestamps)-1],
		Metadata:  metadata,
		Metrics:   metrics,
	}, nil
}

func decodeTimeColumn(raw []uint64) []time.Time {
	out := make([]time.Time, len(raw))
	for i, v := range raw {
		out[i] = time.UnixMilli(int64(v)).UTC()
	}
	return out
}
