package ftdc

import (
	"bytes"
	"testing"
)

// encodeVarUint64 is the reverse of readVarUint64, used only to build
// fixtures for these tests.
func encodeVarUint64(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

func TestDecodeSamplesZeroRunAcrossMetrics(t *testing.T) {
	// Two metrics, three samples each, matrix order is metric-major:
	// m0: [1, 0, 0]  m1: [0, 0, 0]
	// A single zero-run of length 5 starts at m0/s1 and covers the rest.
	var buf bytes.Buffer
	buf.Write(encodeVarUint64(1)) // m0 s0: delta 1
	buf.Write(encodeVarUint64(0)) // m0 s1: delta 0, triggers run length
	buf.Write(encodeVarUint64(5)) // run length 5; only 4 slots remain, the rest of the run is unused

	matrix, err := decodeSamples(&buf, 2, 3, []uint64{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]uint64{
		{11, 11, 11},
		{20, 20, 20},
	}
	for m := range want {
		for s := range want[m] {
			if matrix[m][s] != want[m][s] {
				t.Fatalf("matrix[%d][%d] = %d, want %d", m, s, matrix[m][s], want[m][s])
			}
		}
	}
}

func TestDecodeSamplesNoZeroRun(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(encodeVarUint64(1))
	buf.Write(encodeVarUint64(2))

	matrix, err := decodeSamples(&buf, 1, 2, []uint64{100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matrix[0][0] != 101 || matrix[0][1] != 103 {
		t.Fatalf("got %v, want [101 103]", matrix[0])
	}
}
