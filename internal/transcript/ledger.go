package transcript

// ledger is an identifier-keyed map that remembers first-insertion order.
// Overwriting an existing identifier replaces its value but keeps its
// original position, so discovery order is stable.
type ledger[T any] struct {
	order []string
	byID  map[string]*T
}

func (l *ledger[T]) put(id string, v T) {
	if l.byID == nil {
		l.byID = make(map[string]*T)
	}
	if p, ok := l.byID[id]; ok {
		*p = v
		return
	}
	l.byID[id] = &v
	l.order = append(l.order, id)
}

func (l *ledger[T]) get(id string) (*T, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// tail returns copies of the last n values in insertion order.
func (l *ledger[T]) tail(n int) []T {
	ids := l.order
	if n >= 0 && len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	if len(ids) == 0 {
		return nil
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, *l.byID[id])
	}
	return out
}

func (l *ledger[T]) all() []T {
	return l.tail(-1)
}
