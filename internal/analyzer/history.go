package analyzer

import "github.com/danielpatrickdp/layered-annotator/internal/report"

// #region history

// DefaultHistoryCapacity is how many observer findings a session retains.
const DefaultHistoryCapacity = 256

// History is a fixed-capacity ring of findings. Once full, each append
// overwrites the oldest entry.
type History struct {
	buf   []report.Finding
	next  int
	full  bool
	total int
}

// NewHistory creates a ring holding at most capacity findings.
// capacity <= 0 retains nothing but still counts appends.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{buf: make([]report.Finding, capacity)}
}

// Append records f, evicting the oldest entry when full.
func (h *History) Append(f report.Finding) {
	h.total++
	if len(h.buf) == 0 {
		return
	}
	h.buf[h.next] = f
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of retained findings.
func (h *History) Len() int {
	if h.full {
		return len(h.buf)
	}
	return h.next
}

// Cap returns the ring capacity.
func (h *History) Cap() int {
	return len(h.buf)
}

// Total returns how many findings were ever appended, including evicted ones.
func (h *History) Total() int {
	return h.total
}

// Snapshot returns retained findings oldest first.
func (h *History) Snapshot() []report.Finding {
	out := make([]report.Finding, 0, h.Len())
	if h.full {
		out = append(out, h.buf[h.next:]...)
	}
	return append(out, h.buf[:h.next]...)
}

// #endregion history
