package ir

// Buffer groups entity traces by entity in first-seen order.
//
// A Buffer is filled once during grouping and then drained by the merge
// driver. Iteration order is insertion order, never Go map order.
type Buffer struct {
	order  []EntityID
	traces map[EntityID]*EntityTrace
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{traces: make(map[EntityID]*EntityTrace)}
}

// Add appends one stage/snapshot to an entity's trace, creating the trace on
// first sight.
func (b *Buffer) Add(id EntityID, stage Stage, snap Snapshot) {
	t, ok := b.traces[id]
	if !ok {
		t = &EntityTrace{Entity: id}
		b.traces[id] = t
		b.order = append(b.order, id)
	}
	t.Append(stage, snap)
}

// Len returns the number of entities still buffered.
func (b *Buffer) Len() int {
	return len(b.order)
}

// Entities returns buffered entity IDs in first-seen order.
func (b *Buffer) Entities() []EntityID {
	out := make([]EntityID, len(b.order))
	copy(out, b.order)
	return out
}

// Get returns the trace for an entity without removing it.
func (b *Buffer) Get(id EntityID) (EntityTrace, bool) {
	t, ok := b.traces[id]
	if !ok {
		return EntityTrace{}, false
	}
	return *t, true
}

// Take removes an entity's trace from the buffer and returns it.
func (b *Buffer) Take(id EntityID) (EntityTrace, bool) {
	t, ok := b.traces[id]
	if !ok {
		return EntityTrace{}, false
	}
	delete(b.traces, id)
	for i, e := range b.order {
		if e == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return *t, true
}

// Longest returns the entity with the strictly longest trace. Ties go to the
// entity seen first. ok is false for an empty buffer.
func (b *Buffer) Longest() (EntityID, bool) {
	var best EntityID
	bestLen := -1
	for _, id := range b.order {
		if n := b.traces[id].Len(); n > bestLen {
			best, bestLen = id, n
		}
	}
	return best, bestLen >= 0
}
