package friction

import "sync"

// DefaultHistoryLimit bounds how many outcomes an engine retains.
const DefaultHistoryLimit = 10000

// history is a fixed-capacity ring of records; the oldest are overwritten.
type history struct {
	mu    sync.Mutex
	buf   []Record
	next  int
	count int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{buf: make([]Record, limit)}
}

func (h *history) add(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = r
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// records returns the retained records, oldest first.
func (h *history) records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, 0, h.count)
	start := (h.next - h.count + len(h.buf)) % len(h.buf)
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

// aggregate derives Stats from records.
func aggregate(records []Record, active string) Stats {
	s := Stats{
		Total:                len(records),
		ByType:               make(map[DependencyType]int),
		ByPackageManager:     make(map[string]int),
		ActivePackageManager: active,
	}
	for _, r := range records {
		s.ByType[r.DependencyType]++
		s.ByPackageManager[r.PackageManager]++
		if r.AutoInstallable {
			s.AutoInstallable++
		}
		if r.Eliminated {
			s.Eliminated++
		} else {
			s.Failed++
		}
	}
	return s
}
