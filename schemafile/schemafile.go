// Package schemafile loads structus schemas from YAML declaration documents.
//
//	types:
//	  - name: Person
//	    members:
//	      - name: name
//	        is: {type: string}
//	      - name: age
//	        is: {and: [{type: int}, {between: [0, 150]}]}
//	        via: {parse: int}
//	        default: 0
//	    aliases: {nick: name}
//	  - name: Employee
//	    extends: Person
//	    members:
//	      - name: id
//	        is: {pattern: "^E[0-9]+$"}
//
// A member with its own members list is declared with HasNested. Types are
// closed once loaded unless they set close: false. Documents may be split
// across several YAML documents in one stream.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/reoring/structus"
)

type typeDecl struct {
	Name    string            `mapstructure:"name"`
	Extends string            `mapstructure:"extends"`
	Close   *bool             `mapstructure:"close"`
	Members []map[string]any  `mapstructure:"members"`
	Aliases map[string]string `mapstructure:"aliases"`
}

type memberDecl struct {
	Name             string           `mapstructure:"name"`
	Is               any              `mapstructure:"is"`
	Via              any              `mapstructure:"via"`
	Default          any              `mapstructure:"default"`
	ReaderValidation *bool            `mapstructure:"reader_validation"`
	WriterValidation *bool            `mapstructure:"writer_validation"`
	Members          []map[string]any `mapstructure:"members"`
}

// Registry holds the schemas of one or more declaration documents.
type Registry struct {
	order []string
	types map[string]*structus.Schema
}

// Load reads and parses a declaration document from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML declaration documents.
func Parse(data []byte) (*Registry, error) {
	r := &Registry{types: map[string]*structus.Schema{}}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("schemafile: %w", err)
		}
		m := yamlAnyToStringMap(node)
		if m == nil {
			continue
		}
		var doc struct {
			Types []map[string]any `mapstructure:"types"`
		}
		if err := decodeStrict(m, &doc); err != nil {
			return nil, fmt.Errorf("schemafile: document: %w", err)
		}
		for i, raw := range doc.Types {
			if err := r.declareType(raw); err != nil {
				return nil, fmt.Errorf("schemafile: types[%d]: %w", i, err)
			}
		}
	}
	return r, nil
}

// Lookup returns the schema declared under name.
func (r *Registry) Lookup(name string) (*structus.Schema, bool) {
	s, ok := r.types[name]
	return s, ok
}

// Names returns the declared type names in document order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Schemas returns the declared schemas in document order.
func (r *Registry) Schemas() []*structus.Schema {
	out := make([]*structus.Schema, len(r.order))
	for i, n := range r.order {
		out[i] = r.types[n]
	}
	return out
}

func (r *Registry) declareType(raw map[string]any) error {
	var td typeDecl
	if err := decodeStrict(raw, &td); err != nil {
		return err
	}
	if td.Name == "" {
		return fmt.Errorf("%w: type without name", structus.ErrInvalidArgument)
	}
	if _, dup := r.types[td.Name]; dup {
		return fmt.Errorf("%w: type %s declared twice", structus.ErrDuplicateMember, td.Name)
	}
	var s *structus.Schema
	if td.Extends != "" {
		parent, ok := r.types[td.Extends]
		if !ok {
			return fmt.Errorf("%s: extends unknown type %q", td.Name, td.Extends)
		}
		s = parent.Derive(td.Name)
	} else {
		s = structus.New(td.Name)
	}
	if err := declareMembers(s, td.Members); err != nil {
		return fmt.Errorf("%s: %w", td.Name, err)
	}
	if err := declareAliases(s, td.Aliases); err != nil {
		return fmt.Errorf("%s: %w", td.Name, err)
	}
	if td.Close == nil || *td.Close {
		s.Close()
	}
	r.types[td.Name] = s
	r.order = append(r.order, td.Name)
	return nil
}

func declareMembers(s *structus.Schema, members []map[string]any) error {
	for i, raw := range members {
		if err := declareMember(s, raw); err != nil {
			return fmt.Errorf("members[%d]: %w", i, err)
		}
	}
	return nil
}

func declareMember(s *structus.Schema, raw map[string]any) error {
	var md memberDecl
	if err := decodeStrict(raw, &md); err != nil {
		return err
	}
	opts := map[string]any{}
	if md.Is != nil {
		c, err := condition(md.Is)
		if err != nil {
			return fmt.Errorf("%s: is: %w", md.Name, err)
		}
		opts[structus.OptionIs] = c
	}
	if md.Via != nil {
		a, err := adjuster(md.Via)
		if err != nil {
			return fmt.Errorf("%s: via: %w", md.Name, err)
		}
		opts[structus.OptionVia] = a
	}
	if _, ok := raw["default"]; ok {
		opts[structus.OptionDefault] = md.Default
	}
	if md.ReaderValidation != nil {
		opts[structus.OptionReaderValidation] = *md.ReaderValidation
	}
	if md.WriterValidation != nil {
		opts[structus.OptionWriterValidation] = *md.WriterValidation
	}
	if len(md.Members) > 0 {
		return s.HasNested(md.Name, func(sub *structus.Schema) error {
			return declareMembers(sub, md.Members)
		}, structus.Options(opts))
	}
	return s.Has(md.Name, structus.Options(opts))
}

// declareAliases declares aliases in name order, deferring aliases of
// aliases until their target exists.
func declareAliases(s *structus.Schema, aliases map[string]string) error {
	pending := make([]string, 0, len(aliases))
	for a := range aliases {
		pending = append(pending, a)
	}
	sort.Strings(pending)
	for len(pending) > 0 {
		var next []string
		for _, a := range pending {
			if !s.HasMember(aliases[a]) {
				next = append(next, a)
				continue
			}
			if err := s.AliasMember(a, aliases[a]); err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return s.AliasMember(next[0], aliases[next[0]])
		}
		pending = next
	}
	return nil
}

func decodeStrict(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %w", structus.ErrInvalidOption, err)
	}
	return nil
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

// yamlNormalizeValue also widens integers to int64 so declared literals
// compare equal to numbers decoded from JSON records.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	case int:
		return int64(t)
	default:
		return v
	}
}
