package artifact

import "sync"

// Ledger records which paths a run created so cleanup deletes only those and
// never a file that was there before. All methods are
// goroutine-safe.
type Ledger struct {
	mu      sync.Mutex
	order   []string
	created map[string]bool
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{created: make(map[string]bool)}
}

// Claim records path as created by this run.
func (l *Ledger) Claim(path string) {
	path = Clean(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.created[path] {
		return
	}
	l.created[path] = true
	l.order = append(l.order, path)
}

// ClaimIfAbsent records path only when nothing exists there yet. Call it
// before creating the file. It reports whether the claim was made.
func (l *Ledger) ClaimIfAbsent(path string) bool {
	if Exists(path) {
		return false
	}
	l.Claim(path)
	return true
}

// Owns reports whether path was claimed.
func (l *Ledger) Owns(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.created[Clean(path)]
}

// Release forgets path, typically after it was relocated or removed.
func (l *Ledger) Release(path string) {
	path = Clean(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.created[path] {
		return
	}
	delete(l.created, path)
	for i, p := range l.order {
		if p == path {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Created returns the claimed paths in claim order.
func (l *Ledger) Created() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}
