package schemafile

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/reoring/structus/adjust"
	"github.com/reoring/structus/rules"
)

func typeCondition(name string) (rules.Condition, error) {
	switch name {
	case "string":
		return rules.Type[string](), nil
	case "int", "integer":
		return rules.Integer(), nil
	case "float":
		return rules.Type[float64](), nil
	case "number":
		return rules.Or(rules.Integer(), rules.Type[float64](), rules.Type[float32]()), nil
	case "bool":
		return rules.Bool(), nil
	case "time":
		return rules.Type[time.Time](), nil
	case "list":
		return kindCondition("list", reflect.Slice, reflect.Array), nil
	case "map":
		return kindCondition("map", reflect.Map), nil
	case "nil":
		return rules.Equal(nil), nil
	case "stringable":
		return rules.Stringable(), nil
	case "anything":
		return rules.Anything(), nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

type kindCond struct {
	name  string
	kinds []reflect.Kind
}

func kindCondition(name string, kinds ...reflect.Kind) rules.Condition {
	return kindCond{name: name, kinds: kinds}
}

func (c kindCond) Check(v any) rules.Result {
	if v == nil {
		return rules.Passed(false)
	}
	k := reflect.TypeOf(v).Kind()
	for _, want := range c.kinds {
		if k == want {
			return rules.Passed(true)
		}
	}
	return rules.Passed(false)
}

func (c kindCond) String() string { return c.name }

// condition builds a condition from its document form: a type name, or a map
// with exactly one operator key.
func condition(v any) (rules.Condition, error) {
	if name, ok := v.(string); ok {
		return typeCondition(name)
	}
	op, arg, err := single(v)
	if err != nil {
		return nil, err
	}
	switch op {
	case "type":
		name, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("type: want a name, got %T", arg)
		}
		return typeCondition(name)
	case "pattern":
		expr, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("pattern: want a string, got %T", arg)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("pattern: %w", err)
		}
		return rules.Pattern(re), nil
	case "member_of":
		list, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("member_of: want a list, got %T", arg)
		}
		return rules.MemberOf(list...), nil
	case "equal":
		return rules.Equal(arg), nil
	case "between":
		list, ok := arg.([]any)
		if !ok || len(list) != 2 {
			return nil, fmt.Errorf("between: want [lo, hi]")
		}
		lo, ok1 := number(list[0])
		hi, ok2 := number(list[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("between: bounds must be numbers")
		}
		return rules.Between(lo, hi), nil
	case "can":
		list, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("can: want a list of method names, got %T", arg)
		}
		methods := make([]string, len(list))
		for i, m := range list {
			s, ok := m.(string)
			if !ok {
				return nil, fmt.Errorf("can[%d]: want a string, got %T", i, m)
			}
			methods[i] = s
		}
		return rules.Can(methods...), nil
	case "each", "not":
		inner, err := condition(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if op == "each" {
			return rules.Each(inner), nil
		}
		return rules.Not(inner), nil
	case "and", "or", "nand":
		list, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: want a list, got %T", op, arg)
		}
		conds := make([]rules.Condition, len(list))
		for i, it := range list {
			c, err := condition(it)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
			}
			conds[i] = c
		}
		switch op {
		case "and":
			return rules.And(conds...), nil
		case "or":
			return rules.Or(conds...), nil
		default:
			return rules.Nand(conds...), nil
		}
	case "bool", "stringable", "anything":
		return typeCondition(op)
	}
	return nil, fmt.Errorf("unknown condition %q", op)
}

// adjuster builds an adjuster from its document form: a named adjuster, or a
// map with exactly one of parse, inject or when.
func adjuster(v any) (adjust.Adjuster, error) {
	if name, ok := v.(string); ok {
		return namedAdjuster(name)
	}
	op, arg, err := single(v)
	if err != nil {
		return nil, err
	}
	switch op {
	case "parse":
		kind, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("parse: want a kind, got %T", arg)
		}
		var p adjust.Adjuster
		switch kind {
		case "int":
			p = adjust.Int()
		case "float":
			p = adjust.Float()
		case "bool":
			p = adjust.Bool()
		case "bigint":
			p = adjust.BigInt()
		case "time":
			p = adjust.Time()
		default:
			return nil, fmt.Errorf("parse: unknown kind %q", kind)
		}
		// Only text is parsed; decoded numbers and booleans pass through.
		return adjust.When(rules.Stringable(), p), nil
	case "inject":
		list, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("inject: want a list, got %T", arg)
		}
		chain := make([]adjust.Adjuster, len(list))
		for i, it := range list {
			a, err := adjuster(it)
			if err != nil {
				return nil, fmt.Errorf("inject[%d]: %w", i, err)
			}
			chain[i] = a
		}
		return adjust.Inject(chain...), nil
	case "when":
		m, ok := arg.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("when: want {is, via}, got %T", arg)
		}
		var w struct {
			Is  any `mapstructure:"is"`
			Via any `mapstructure:"via"`
		}
		if err := decodeStrict(m, &w); err != nil {
			return nil, fmt.Errorf("when: %w", err)
		}
		c, err := condition(w.Is)
		if err != nil {
			return nil, fmt.Errorf("when: is: %w", err)
		}
		a, err := adjuster(w.Via)
		if err != nil {
			return nil, fmt.Errorf("when: via: %w", err)
		}
		return adjust.When(c, a), nil
	}
	return nil, fmt.Errorf("unknown adjuster %q", op)
}

func namedAdjuster(name string) (adjust.Adjuster, error) {
	switch name {
	case "trim":
		return adjust.Trim(), nil
	case "chomp":
		return adjust.Chomp(), nil
	case "lower":
		return adjust.Lower(), nil
	case "upper":
		return adjust.Upper(), nil
	case "string":
		return adjust.String(), nil
	}
	return nil, fmt.Errorf("unknown adjuster %q", name)
}

func single(v any) (string, any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("want a name or a single-key map, got %T", v)
	}
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, fmt.Errorf("want exactly one key, got %v", keys)
	}
	for k, a := range m {
		return k, a, nil
	}
	panic("unreachable")
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
