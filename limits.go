package segwire

import "sync/atomic"

// ReadLimiter counts the words a reader may still dereference. It is safe
// for concurrent use so views of one message can be read from several
// goroutines.
type ReadLimiter struct {
	limit     uint64
	remaining atomic.Uint64
}

func NewReadLimiter(words uint64) *ReadLimiter {
	l := &ReadLimiter{limit: words}
	l.remaining.Store(words)
	return l
}

// Charge takes words from the budget. It fails without charging when the
// budget is short.
func (l *ReadLimiter) Charge(words uint64) error {
	for {
		cur := l.remaining.Load()
		if words > cur {
			return exhausted("traversal limit of %d words reached", l.limit)
		}
		if l.remaining.CompareAndSwap(cur, cur-words) {
			return nil
		}
	}
}

func (l *ReadLimiter) Remaining() uint64 {
	return l.remaining.Load()
}

func (l *ReadLimiter) Reset() {
	l.remaining.Store(l.limit)
}
