package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Record is one parsed trace line.
type Record struct {
	At       uint64
	AngleDeg float64
	DistMM   int // -1 for no target
	X, Y     float64
}

// Valid reports whether the record carries a target position.
func (r Record) Valid() bool {
	return r.DistMM >= 0 && !math.IsNaN(r.X) && !math.IsNaN(r.Y)
}

// ReadTrace parses a CSV trace. A header line is skipped when present.
func ReadTrace(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.ReuseRecord = true

	var out []Record
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		if line == 1 && strings.TrimSpace(fields[0]) == "timestamp_ms" {
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseRecord(f []string) (Record, error) {
	var rec Record
	var err error
	if rec.At, err = strconv.ParseUint(strings.TrimSpace(f[0]), 10, 64); err != nil {
		return rec, fmt.Errorf("timestamp: %w", err)
	}
	if rec.AngleDeg, err = strconv.ParseFloat(strings.TrimSpace(f[1]), 64); err != nil {
		return rec, fmt.Errorf("angle: %w", err)
	}
	if rec.DistMM, err = strconv.Atoi(strings.TrimSpace(f[2])); err != nil {
		return rec, fmt.Errorf("distance: %w", err)
	}
	if rec.X, err = strconv.ParseFloat(strings.TrimSpace(f[3]), 64); err != nil {
		return rec, fmt.Errorf("x: %w", err)
	}
	if rec.Y, err = strconv.ParseFloat(strings.TrimSpace(f[4]), 64); err != nil {
		return rec, fmt.Errorf("y: %w", err)
	}
	return rec, nil
}
