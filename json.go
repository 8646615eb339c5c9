package structus

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// FromMap builds an instance from keyed values (member names or aliases).
// Values are written in declaration order; members absent from pairs receive
// their defaults. A map[string]any given for a nested member is converted
// with the nested schema's FromMap.
func (s *Schema) FromMap(pairs map[string]any) (*Instance, error) {
	byName := make(map[string]any, len(pairs))
	given := make(map[string]string, len(pairs))
	for k, v := range pairs {
		name, err := s.Autonym(k)
		if err != nil {
			return nil, err
		}
		if prev, dup := given[name]; dup {
			iss := issueFor(s, name, CodeInvalidArgument, v, nil)
			iss[0].Hint = fmt.Sprintf("%q and %q name the same member", prev, k)
			return nil, iss
		}
		given[name] = k
		byName[name] = v
	}
	inst := newInstance(s)
	var absent []string
	for _, name := range s.members {
		v, ok := byName[name]
		if !ok {
			absent = append(absent, name)
			continue
		}
		if sub := s.spec(name).nested; sub != nil {
			if m, ok := v.(map[string]any); ok {
				nested, err := sub.FromMap(m)
				if err != nil {
					return nil, err
				}
				v = nested
			}
		}
		if err := inst.write(name, v); err != nil {
			return nil, err
		}
	}
	if err := inst.applyDefaults(absent); err != nil {
		return nil, err
	}
	s.observe().Constructed(s.displayName())
	return inst, nil
}

// FromJSON decodes a JSON object and builds an instance with FromMap. Numbers
// become int64 when integral and float64 otherwise.
func (s *Schema) FromJSON(data []byte) (*Instance, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("structus: decode %s: %w", s.displayName(), err)
	}
	if m == nil {
		iss := issueFor(s, "", CodeInvalidArgument, nil, nil)
		iss[0].Hint = "expected a JSON object"
		return nil, iss
	}
	return s.FromMap(normalizeJSON(m).(map[string]any))
}

func normalizeJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f
		}
		return string(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeJSON(e)
		}
		return x
	case []any:
		for idx, e := range x {
			x[idx] = normalizeJSON(e)
		}
		return x
	default:
		return v
	}
}

// MarshalJSON encodes the assigned members as an object in declaration order.
func (i *Instance) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	first := true
	for _, name := range i.schema.members {
		v, ok := i.values[name]
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(name)
		b.Write(k)
		b.WriteByte(':')
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("structus: encode %s.%s: %w", i.schema.displayName(), name, err)
		}
		b.Write(enc)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

var _ json.Marshaler = (*Instance)(nil)
