package ftdc

import (
	"errors"
	"io"
	"testing"
	"time"
)

// fakeFileInfoSource replays a fixed sequence of (FileInfo, error) pairs,
// terminated by io.EOF, so newSortedFiles can be tested without a real
// directory walk.
type fakeFileInfoSource struct {
	items []struct {
		info FileInfo
		err  error
	}
	idx int
}

func (s *fakeFileInfoSource) Next() (FileInfo, error) {
	if s.idx >= len(s.items) {
		return FileInfo{}, io.EOF
	}
	item := s.items[s.idx]
	s.idx++
	return item.info, item.err
}

func TestSortedFilesOrdersByTimestampThenUID(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeFileInfoSource{items: []struct {
		info FileInfo
		err  error
	}{
		{info: FileInfo{Path: "b", Timestamp: base, UID: 2}},
		{info: FileInfo{Path: "a", Timestamp: base, UID: 1}},
		{info: FileInfo{Path: "c", Timestamp: base.Add(time.Second), UID: 0}},
	}}

	sorted := newSortedFiles(src)

	var got []string
	for {
		fi, err := sorted.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, fi.Path)
	}

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// TestSortedFilesKeepsGoingAfterError covers spec §4.6/§7: a malformed
// entry anywhere in the walk must not abort the rest of the archive, and
// must replay last rather than first or in its original position.
func TestSortedFilesKeepsGoingAfterError(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	boom := errIO(errors.New("boom"))
	src := &fakeFileInfoSource{items: []struct {
		info FileInfo
		err  error
	}{
		{info: FileInfo{Path: "b", Timestamp: base.Add(time.Second), UID: 0}},
		{err: boom},
		{info: FileInfo{Path: "a", Timestamp: base, UID: 0}},
	}}

	sorted := newSortedFiles(src)

	fi, err := sorted.Next()
	if err != nil || fi.Path != "a" {
		t.Fatalf("got (%+v, %v), want (a, nil)", fi, err)
	}

	fi, err = sorted.Next()
	if err != nil || fi.Path != "b" {
		t.Fatalf("got (%+v, %v), want (b, nil)", fi, err)
	}

	_, err = sorted.Next()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Kind != KindIO {
		t.Fatalf("got %v, want the KindIO error replayed last", err)
	}

	if _, err := sorted.Next(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}
