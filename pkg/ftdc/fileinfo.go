package ftdc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// fileTimeLayout matches the timestamp FTDC writes into a metrics file's
// name, e.g. "2024-01-02T15-04-05+0000". Only explicit numeric offsets
// of this exact "±hhmm" shape are recognized, with either sign; chrono's
// "%#z" can also render a bare "Z" or a colon-separated offset, which
// this layout does not parse. That gap is accepted: every metrics file
// observed in practice carries a "+0000" offset.
const fileTimeLayout = "2006-01-02T15-04-05-0700"

// interimExtension marks a file FTDC is still actively writing; such
// files are always skipped.
const interimExtension = "interim"

// FileInfo describes one metrics file discovered on disk, decoded from
// its name: diagnostic.data files are named
// "<prefix>.<timestamp>-<uid>", where timestamp is the file's creation
// time and uid disambiguates files created within the same second.
type FileInfo struct {
	Path      string
	Timestamp time.Time
	UID       uint16
}

// parseFileInfo decodes the extension of path (the full path, used only
// for the returned FileInfo.Path and error messages) into a FileInfo. It
// returns (FileInfo{}, false, nil) for a file that should be silently
// skipped, such as an "interim" file.
func parseFileInfo(path string) (FileInfo, bool, error) {
	ext := fileExtension(path)
	if ext == "" {
		return FileInfo{}, false, errIO(fmt.Errorf("metrics file %q has no timestamp extension", path))
	}
	if ext == interimExtension {
		return FileInfo{}, false, nil
	}

	idx := strings.LastIndexByte(ext, '-')
	if idx <= 0 || idx == len(ext)-1 {
		return FileInfo{}, false, errIO(fmt.Errorf("metrics file %q has a malformed timestamp extension %q", path, ext))
	}

	timePart, uidPart := ext[:idx], ext[idx+1:]

	ts, err := time.Parse(fileTimeLayout, timePart)
	if err != nil {
		return FileInfo{}, false, errIO(fmt.Errorf("metrics file %q has an unparseable timestamp %q: %w", path, timePart, err))
	}

	uid, err := strconv.ParseUint(uidPart, 10, 16)
	if err != nil {
		return FileInfo{}, false, errIO(fmt.Errorf("metrics file %q has a non-numeric uid %q: %w", path, uidPart, err))
	}

	return FileInfo{Path: path, Timestamp: ts.UTC(), UID: uint16(uid)}, true, nil
}

// fileExtension returns everything after the last '.' in the file's base
// name, or "" if there is no '.'. Unlike filepath.Ext it does not include
// the leading dot.
func fileExtension(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return ""
	}
	return base[idx+1:]
}
