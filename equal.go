package structus

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math/big"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/reoring/structus/rules"
)

// Equal reports whether other has the same schema and pairwise equal members.
// Unassigned members compare as nil.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i == other {
		return true
	}
	if i.schema != other.schema {
		return false
	}
	for _, name := range i.schema.members {
		if !rules.Equivalent(i.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal: equal instances hash alike.
// Values are reduced to a canonical form first (-0 as 0, *big.Int by value,
// time.Time in UTC, nested instances by their own Hash) and then hashed
// through their JSON encoding.
func (i *Instance) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], i.schema.id)
	_, _ = d.Write(buf[:])
	for _, name := range i.schema.members {
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
		hashValue(d, i.values[name])
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

func hashValue(d *xxhash.Digest, v any) {
	c := canonical(v)
	if c == nil {
		_, _ = d.WriteString("nil")
		return
	}
	b, err := json.Marshal(c)
	if err != nil {
		_, _ = d.WriteString(fmt.Sprintf("%T", v))
		return
	}
	_, _ = d.Write(b)
}

// canonical maps values that compare equal under rules.Equivalent to the
// same encodable form.
func canonical(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if x == 0 {
			return float64(0)
		}
	case float32:
		if x == 0 {
			return float32(0)
		}
	case *big.Int:
		if x == nil {
			return nil
		}
		return "big:" + x.Text(10)
	case time.Time:
		return "time:" + x.UTC().Format(time.RFC3339Nano)
	case *Instance:
		if x == nil {
			return nil
		}
		return x.Hash()
	case []any:
		if x == nil {
			return nil
		}
		out := make([]any, len(x))
		for idx, e := range x {
			out[idx] = canonical(e)
		}
		return out
	case map[string]any:
		if x == nil {
			return nil
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = canonical(e)
		}
		return out
	}
	return v
}

type mapEntry[V any] struct {
	key   *Instance
	value V
}

// Map is a hash map keyed by instance value (Equal/Hash) rather than by
// pointer. Keys must not be mutated while stored; freeze them first.
type Map[V any] struct {
	buckets map[uint64][]mapEntry[V]
	n       int
}

// NewMap returns an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{buckets: map[uint64][]mapEntry[V]{}}
}

// Put stores v under key, replacing an equal key's value.
func (m *Map[V]) Put(key *Instance, v V) {
	h := key.Hash()
	b := m.buckets[h]
	for idx := range b {
		if b[idx].key.Equal(key) {
			b[idx].value = v
			return
		}
	}
	m.buckets[h] = append(b, mapEntry[V]{key: key, value: v})
	m.n++
}

// Get returns the value stored under a key equal to key.
func (m *Map[V]) Get(key *Instance) (V, bool) {
	for _, e := range m.buckets[key.Hash()] {
		if e.key.Equal(key) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Delete removes the entry under a key equal to key.
func (m *Map[V]) Delete(key *Instance) bool {
	h := key.Hash()
	b := m.buckets[h]
	for idx := range b {
		if b[idx].key.Equal(key) {
			b = append(b[:idx], b[idx+1:]...)
			if len(b) == 0 {
				delete(m.buckets, h)
			} else {
				m.buckets[h] = b
			}
			m.n--
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return m.n }

// All iterates the entries in no particular order.
func (m *Map[V]) All() iter.Seq2[*Instance, V] {
	return func(yield func(*Instance, V) bool) {
		for _, b := range m.buckets {
			for _, e := range b {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
