/*
File    : cocodol/symtable/symtable.go
*/

// Package symtable implements the open-addressed hash table used for every
// symbol table in the evaluator: globals, per-frame locals, and captured
// function environments. Grounded on the original Cocodol runtime's
// symtable.c: linear probing, tombstones on removal, FNV-1 hashing, and
// resize-doubling at a 0.75 load factor.
//
// Unlike the C original — where a removed bucket's "used" bit is simply
// cleared, leaving no bit pattern distinct from a bucket that was always
// free — this implementation gives each bucket an explicit three-state tag
// (free, tombstone, used) so that probing can tell "never occupied, stop
// here" apart from "occupied then deleted, keep probing" without relying on
// an overloaded bit. Every other observable behavior — probe order, the
// 0.75 resize threshold, capacity doubling, tombstone reuse on insert — is
// unchanged.
package symtable

// initialCapacity is the starting bucket count, grounded on symtable.c's
// INITIAL_CAPACITY.
const initialCapacity = 16

// loadFactor is the fraction of occupied-or-tombstoned buckets that triggers
// a resize, grounded on symtable.c's LOAD_FACTOR.
const loadFactor = 0.75

type state byte

const (
	free state = iota
	tomb
	used
)

type entry struct {
	state state
	hash  uint64
	key   string
	value any
}

// Table is an open-addressed hash table mapping string keys to arbitrary
// values, with linear probing and tombstone-on-delete semantics.
type Table struct {
	buckets []entry
	count   int // used + tombstoned buckets
}

// New creates an empty table.
func New() *Table {
	return &Table{buckets: make([]entry, initialCapacity)}
}

// fnv1Hash implements the FNV-1 (not FNV-1a) hash, matching the original
// runtime's fnv1_hash_string.
func fnv1Hash(s string) uint64 {
	const (
		offsetBasis uint64 = 14695981039346656037
		prime       uint64 = 1099511628211
	)
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h *= prime
		h ^= uint64(s[i])
	}
	return h
}

// probe returns the bucket index that would hold key: either its existing
// bucket, or the first free bucket (possibly reusing a tombstone) reachable
// by linear probing from its hash. firstTomb is -1 if no tombstone was seen.
func (t *Table) probe(key string, hash uint64) (index int, found bool, firstTomb int) {
	n := len(t.buckets)
	firstTomb = -1
	i := int(hash % uint64(n))
	for probed := 0; probed < n; probed++ {
		b := &t.buckets[i]
		switch b.state {
		case free:
			if firstTomb >= 0 {
				return firstTomb, false, firstTomb
			}
			return i, false, firstTomb
		case tomb:
			if firstTomb < 0 {
				firstTomb = i
			}
		case used:
			if b.hash == hash && b.key == key {
				return i, true, firstTomb
			}
		}
		i = (i + 1) % n
	}
	// Table full of tombstones/matches with no free slot; caller resizes
	// before this can happen in practice.
	if firstTomb >= 0 {
		return firstTomb, false, firstTomb
	}
	return -1, false, firstTomb
}

func (t *Table) maybeResize() {
	if float64(t.count+1) <= loadFactor*float64(len(t.buckets)) {
		return
	}
	old := t.buckets
	t.buckets = make([]entry, len(old)*2)
	t.count = 0
	for _, b := range old {
		if b.state != used {
			continue
		}
		idx, _, _ := t.probe(b.key, b.hash)
		t.buckets[idx] = entry{state: used, hash: b.hash, key: b.key, value: b.value}
		t.count++
	}
}

// Insert adds key/value if key is not already present. It returns the
// existing value and false if key was already in the table (value is left
// unchanged), or (nil, true) if the new entry was inserted.
func (t *Table) Insert(key string, value any) (existing any, inserted bool) {
	hash := fnv1Hash(key)
	if idx, found, _ := t.probe(key, hash); found {
		return t.buckets[idx].value, false
	}
	t.maybeResize()
	idx, _, _ := t.probe(key, hash)
	wasTomb := t.buckets[idx].state == tomb
	t.buckets[idx] = entry{state: used, hash: hash, key: key, value: value}
	if !wasTomb {
		t.count++
	}
	return nil, true
}

// Update inserts or overwrites key's value. It returns the previous value
// and true if key was already present, or (nil, false) for a fresh insert.
func (t *Table) Update(key string, value any) (previous any, existed bool) {
	hash := fnv1Hash(key)
	if idx, found, _ := t.probe(key, hash); found {
		previous = t.buckets[idx].value
		t.buckets[idx].value = value
		return previous, true
	}
	t.maybeResize()
	idx, _, _ := t.probe(key, hash)
	wasTomb := t.buckets[idx].state == tomb
	t.buckets[idx] = entry{state: used, hash: hash, key: key, value: value}
	if !wasTomb {
		t.count++
	}
	return nil, false
}

// Get retrieves the value for key, if present.
func (t *Table) Get(key string) (value any, ok bool) {
	hash := fnv1Hash(key)
	idx, found, _ := t.probe(key, hash)
	if !found {
		return nil, false
	}
	return t.buckets[idx].value, true
}

// Remove deletes key from the table, marking its bucket a tombstone so
// probes for colliding keys keep working. It returns the removed value.
func (t *Table) Remove(key string) (value any, ok bool) {
	hash := fnv1Hash(key)
	idx, found, _ := t.probe(key, hash)
	if !found {
		return nil, false
	}
	value = t.buckets[idx].value
	t.buckets[idx] = entry{state: tomb, hash: hash, key: key}
	return value, true
}

// EntryCount returns the number of live (non-tombstoned) entries.
func (t *Table) EntryCount() int {
	n := 0
	for _, b := range t.buckets {
		if b.state == used {
			n++
		}
	}
	return n
}

// Map calls transform on every live entry and returns the results in
// unspecified order.
func (t *Table) Map(transform func(key string, value any) any) []any {
	results := make([]any, 0, t.EntryCount())
	for _, b := range t.buckets {
		if b.state == used {
			results = append(results, transform(b.key, b.value))
		}
	}
	return results
}

// ForEach calls action on every live entry, in unspecified order.
func (t *Table) ForEach(action func(key string, value any)) {
	for _, b := range t.buckets {
		if b.state == used {
			action(b.key, b.value)
		}
	}
}

// Copy returns a deep structural copy of the table: a new table with the
// same keys. Values themselves are copied by the caller-supplied transform,
// so reference-typed values (e.g. a nested function environment) can be
// deep-copied in turn.
func (t *Table) Copy(transform func(value any) any) *Table {
	out := New()
	t.ForEach(func(key string, value any) {
		out.Update(key, transform(value))
	})
	return out
}
