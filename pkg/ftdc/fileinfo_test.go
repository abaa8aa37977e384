package ftdc

import (
	"errors"
	"testing"
	"time"
)

func TestParseFileInfoValid(t *testing.T) {
	fi, ok, err := parseFileInfo("/data/metrics.2024-01-02T15-04-05-0000-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if !fi.Timestamp.Equal(want) {
		t.Fatalf("got %v, want %v", fi.Timestamp, want)
	}
	if fi.UID != 42 {
		t.Fatalf("got uid %d, want 42", fi.UID)
	}
}

func TestParseFileInfoInterimSkipped(t *testing.T) {
	_, ok, err := parseFileInfo("/data/metrics.interim")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected interim file to be skipped")
	}
}

func TestParseFileInfoMalformedExtension(t *testing.T) {
	_, _, err := parseFileInfo("/data/metrics.not-a-timestamp")
	if err == nil {
		t.Fatal("expected an error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Kind != KindIO {
		t.Fatalf("got %v, want a KindIO DecodeError", err)
	}
}

func TestParseFileInfoNoExtension(t *testing.T) {
	_, _, err := parseFileInfo("/data/metrics")
	if err == nil {
		t.Fatal("expected an error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Kind != KindIO {
		t.Fatalf("got %v, want a KindIO DecodeError", err)
	}
}
