package ftdc

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadVarUint64OneByte(t *testing.T) {
	r := bytes.NewReader([]byte{0x7f})
	v, err := readVarUint64(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 127 {
		t.Fatalf("got %d, want 127", v)
	}
}

func TestReadVarUint64TwoBytes(t *testing.T) {
	r := bytes.NewReader([]byte{0xff, 0x01})
	v, err := readVarUint64(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 255 {
		t.Fatalf("got %d, want 255", v)
	}
}

func TestReadVarUint64MaxLengthExceeded(t *testing.T) {
	r := bytes.NewReader(bytes.Repeat([]byte{0xff}, 10))
	_, err := readVarUint64(r)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "maximum bytes size for a variable u64 has been reached") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestReadUint32LE(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x00, 0x00, 0x00})
	v, err := readUint32LE(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
}
