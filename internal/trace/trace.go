// Package trace writes and reads the per-cycle CSV scan log:
//
//	timestamp_ms,angle_deg,dist_mm,x_mm,y_mm
//
// One record per cycle, no-target cycles carry -1,NaN,NaN.
package trace

import (
	"fmt"
	"io"

	"polar-scanner.klederson.com/internal/scan"
)

// Header is the optional first line of a trace.
const Header = "timestamp_ms,angle_deg,dist_mm,x_mm,y_mm"

// FormatRecord renders one cycle as a CSV line without the newline.
func FormatRecord(res scan.Result) string {
	mm, ok := res.Range.MM()
	if !ok || !res.Sample.Valid() {
		return fmt.Sprintf("%d,%.2f,-1,NaN,NaN", res.At, res.AngleDeg)
	}
	return fmt.Sprintf("%d,%.2f,%d,%.1f,%.1f", res.At, res.AngleDeg, mm, res.Sample.X(), res.Sample.Y())
}

// Writer emits one line per cycle to an underlying stream.
type Writer struct {
	w           io.Writer
	header      bool
	wroteHeader bool
	records     int
}

// NewWriter wraps w. With header set, the column line precedes the first record.
func NewWriter(w io.Writer, header bool) *Writer {
	return &Writer{w: w, header: header}
}

// Write appends the record for res.
func (t *Writer) Write(res scan.Result) error {
	if t.header && !t.wroteHeader {
		if _, err := io.WriteString(t.w, Header+"\n"); err != nil {
			return fmt.Errorf("write trace header: %w", err)
		}
		t.wroteHeader = true
	}
	if _, err := io.WriteString(t.w, FormatRecord(res)+"\n"); err != nil {
		return fmt.Errorf("write trace record: %w", err)
	}
	t.records++
	return nil
}

// Records returns how many records were written.
func (t *Writer) Records() int {
	return t.records
}

// Close closes the underlying stream if it is closable.
func (t *Writer) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
