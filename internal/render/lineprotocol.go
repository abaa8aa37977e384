package render

import (
	"fmt"
	"os"
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"
)

// WriteLineProtocol encodes every accumulated series as InfluxDB line
// protocol and writes it to path, one line per measurement per
// timestamp, tagged with the host the archive was captured from. This
// gives a decoded archive a machine-readable export path alongside the
// HTML view, for piping into an existing time-series store.
func (w *Writer) WriteLineProtocol(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Millisecond)

	for _, group := range w.groupKey {
		for name, s := range w.byGroup[group] {
			for i, x := range s.xs {
				enc.StartLine(name)
				if w.host != "" {
					enc.AddTag("host", w.host)
				}
				enc.AddField("value", lineprotocol.MustNewValue(s.ys[i]))
				enc.EndLine(time.UnixMilli(int64(x)).UTC())
				if err := enc.Err(); err != nil {
					return fmt.Errorf("render: encode %s: %w", name, err)
				}
			}
		}
	}

	if _, err := f.Write(enc.Bytes()); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}
