package ftdc

import "io"

// decodeSamples reads the delta-run-length-encoded sample matrix that
// follows the reference document in a metrics chunk and reconstructs the
// accumulated value of every (metric, sample) cell.
//
// The wire encoding walks the matrix metric-major (all samples for
// metric 0, then all samples for metric 1, ...) and shares a single
// run-length counter across the whole matrix rather than resetting it
// per metric: a zero delta is followed by a varint run length, and that
// many further cells in matrix order are implicitly zero without
// consuming any more bytes.
//
// initials holds each metric's starting value, taken from the reference
// document. Reconstruction then runs independently per metric row:
// sample[0] is initials[m] plus the first delta, and each later sample
// is the previous sample plus its delta, wrapping on uint64 overflow
// exactly as the encoder's subtraction wrapped when producing the delta.
func decodeSamples(r io.Reader, metricsCount, samplesCount int, initials []uint64) ([][]uint64, error) {
	matrix := make([][]uint64, metricsCount)
	for m := range matrix {
		matrix[m] = make([]uint64, samplesCount)
	}

	var zeroesRemaining uint64
	for m := 0; m < metricsCount; m++ {
		for s := 0; s < samplesCount; s++ {
			if zeroesRemaining > 0 {
				zeroesRemaining--
				continue
			}

			delta, err := readVarUint64(r)
			if err != nil {
				return nil, errIO(err)
			}
			if delta == 0 {
				run, err := readVarUint64(r)
				if err != nil {
					return nil, errIO(err)
				}
				zeroesRemaining = run
				continue
			}

			matrix[m][s] = delta
		}
	}

	for m := range matrix {
		running := initials[m]
		for s := range matrix[m] {
			running += matrix[m][s]
			matrix[m][s] = running
		}
	}

	return matrix, nil
}
