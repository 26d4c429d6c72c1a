package scan

import (
	"fmt"
	"iter"

	"polar-scanner.klederson.com/internal/config"
)

// History is a fixed-capacity circular buffer of accepted samples. When full,
// a push overwrites the oldest entry. It is owned by a single goroutine.
type History struct {
	buf    []Sample
	oldest int
	count  int
}

// NewHistory allocates a ring with every slot set to the invalid sample.
func NewHistory(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", config.ErrInvalidCapacity, capacity)
	}
	buf := make([]Sample, capacity)
	for i := range buf {
		buf[i] = Invalid(0)
	}
	return &History{buf: buf}, nil
}

// Push appends s, evicting the oldest sample if the ring is full.
func (h *History) Push(s Sample) {
	if h.count < len(h.buf) {
		h.buf[(h.oldest+h.count)%len(h.buf)] = s
		h.count++
		return
	}
	h.buf[h.oldest] = s
	h.oldest = (h.oldest + 1) % len(h.buf)
}

// All yields (age, sample) pairs oldest to newest. Age 0 is the oldest and
// Len()-1 the newest. Only live entries are visited.
func (h *History) All() iter.Seq2[int, Sample] {
	return func(yield func(int, Sample) bool) {
		for i := 0; i < h.count; i++ {
			if !yield(i, h.buf[(h.oldest+i)%len(h.buf)]) {
				return
			}
		}
	}
}

// Samples returns the live entries in chronological order.
func (h *History) Samples() []Sample {
	if h.count == 0 {
		return nil
	}
	result := make([]Sample, 0, h.count)
	for _, s := range h.All() {
		result = append(result, s)
	}
	return result
}

// Newest returns the most recent sample, or false if empty.
func (h *History) Newest() (Sample, bool) {
	if h.count == 0 {
		return Sample{}, false
	}
	return h.buf[(h.oldest+h.count-1)%len(h.buf)], true
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return h.count
}

// Cap returns the fixed capacity.
func (h *History) Cap() int {
	return len(h.buf)
}
