package structus

import (
	"errors"
	"fmt"

	"github.com/reoring/structus/adjust"
	"github.com/reoring/structus/rules"
)

type memberFlag uint8

const (
	flagLocked memberFlag = 1 << iota
	flagDefaulted
)

// Instance is one value of a Schema. Members are read and written through
// Get and Set, which apply the member's adjuster and conditions. Keys are
// member names, aliases or int positions.
//
// Instances are not safe for concurrent mutation; a frozen instance may be
// shared.
type Instance struct {
	schema *Schema
	values map[string]any
	flags  map[string]memberFlag
	frozen bool
}

func newInstance(s *Schema) *Instance {
	return &Instance{schema: s, values: map[string]any{}, flags: map[string]memberFlag{}}
}

// New builds an instance from positional values. Members after the last
// supplied value receive their defaults; explicitly supplied values, nil
// included, are never replaced by a default.
func (s *Schema) New(values ...any) (*Instance, error) {
	if len(values) > len(s.members) {
		iss := issueFor(s, "", CodeInvalidArgument, len(values), nil)
		iss[0].Hint = fmt.Sprintf("size exceeds member count (max: %d)", len(s.members))
		return nil, iss
	}
	inst := newInstance(s)
	for i, v := range values {
		if err := inst.write(s.members[i], v); err != nil {
			return nil, err
		}
	}
	if err := inst.applyDefaults(s.members[len(values):]); err != nil {
		return nil, err
	}
	s.observe().Constructed(s.displayName())
	return inst, nil
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(values ...any) *Instance {
	inst, err := s.New(values...)
	if err != nil {
		panic(err)
	}
	return inst
}

func (i *Instance) applyDefaults(names []string) error {
	for _, name := range names {
		spec := i.schema.spec(name)
		if !spec.hasDefault {
			continue
		}
		v, err := spec.defaultValue()
		if err != nil {
			return fmt.Errorf("structus: default of %s.%s: %w", i.schema.displayName(), name, err)
		}
		if err := i.write(name, v); err != nil {
			return err
		}
		i.flags[name] |= flagDefaulted
	}
	return nil
}

// Schema returns the schema the instance was built from.
func (i *Instance) Schema() *Schema { return i.schema }

func (i *Instance) resolve(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return i.schema.Autonym(k)
	case int:
		if k < 0 || k >= len(i.schema.members) {
			iss := issueFor(i.schema, "", CodeIndexOutOfRange, k, nil)
			iss[0].Hint = fmt.Sprintf("index %d not in [0, %d)", k, len(i.schema.members))
			return "", iss
		}
		return i.schema.members[k], nil
	default:
		iss := issueFor(i.schema, "", CodeInvalidArgument, key, nil)
		iss[0].Hint = fmt.Sprintf("keys are member names or int positions, got %T", key)
		return "", iss
	}
}

// Get returns the stored value of a member, or nil when it is unassigned.
// Members declared with ReaderValidation(true) re-check their condition.
func (i *Instance) Get(key any) (any, error) {
	name, err := i.resolve(key)
	if err != nil {
		return nil, err
	}
	v, ok := i.values[name]
	if !ok {
		return nil, nil
	}
	spec := i.schema.spec(name)
	if spec.cond != nil && spec.readerValidation {
		ok, err := rules.Holds(spec.cond, v)
		if err != nil {
			return nil, fmt.Errorf("structus: reading %s.%s: %w", i.schema.displayName(), name, err)
		}
		if !ok {
			return nil, i.reject(name, CodeInvalidOnRead, v, nil)
		}
	}
	return v, nil
}

// Set adjusts, validates and stores v. A rejected write leaves the instance
// unchanged.
func (i *Instance) Set(key any, v any) error {
	name, err := i.resolve(key)
	if err != nil {
		return err
	}
	return i.write(name, v)
}

func (i *Instance) write(name string, v any) error {
	if i.frozen {
		return i.reject(name, CodeFrozen, v, nil)
	}
	if i.flags[name]&flagLocked != 0 {
		return i.reject(name, CodeLockedMember, v, nil)
	}
	spec := i.schema.spec(name)
	if spec.adjuster != nil {
		adjusted, err := runAdjuster(spec.adjuster, v)
		if err != nil {
			return i.reject(name, CodeUnmanageableValue, v, err)
		}
		v = adjusted
	}
	if spec.cond != nil && spec.writerValidation {
		ok, err := rules.Holds(spec.cond, v)
		if err != nil {
			return fmt.Errorf("structus: writing %s.%s: %w", i.schema.displayName(), name, err)
		}
		if !ok {
			return i.reject(name, CodeInvalidOnWrite, v, nil)
		}
	}
	i.values[name] = v
	i.flags[name] &^= flagDefaulted
	return nil
}

func runAdjuster(a adjust.Adjuster, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("adjuster panicked: %w", rerr)
			} else {
				err = fmt.Errorf("adjuster panicked: %v", r)
			}
		}
	}()
	return a.Adjust(v)
}

func (i *Instance) reject(name, code string, v any, cause error) error {
	s := i.schema
	log().Debug().Str("schema", s.displayName()).Str("member", name).Str("code", code).Msg("rejected")
	s.observe().Rejected(s.displayName(), name, code)
	return issueFor(s, name, code, v, cause)
}

// Unassign removes the stored value of a member.
func (i *Instance) Unassign(key any) error {
	name, err := i.resolve(key)
	if err != nil {
		return err
	}
	if i.frozen {
		return i.reject(name, CodeFrozen, nil, nil)
	}
	if i.flags[name]&flagLocked != 0 {
		return i.reject(name, CodeLockedMember, nil, nil)
	}
	delete(i.values, name)
	i.flags[name] &^= flagDefaulted
	return nil
}

// Assigned reports whether a value is stored for the member. A stored nil
// counts as assigned.
func (i *Instance) Assigned(key any) (bool, error) {
	name, err := i.resolve(key)
	if err != nil {
		return false, err
	}
	_, ok := i.values[name]
	return ok, nil
}

// Defaulted reports whether the member's current value came from its default.
func (i *Instance) Defaulted(key any) (bool, error) {
	name, err := i.resolve(key)
	if err != nil {
		return false, err
	}
	return i.flags[name]&flagDefaulted != 0, nil
}

// Lock bars further writes to the member.
func (i *Instance) Lock(key any) error {
	name, err := i.resolve(key)
	if err != nil {
		return err
	}
	if i.frozen {
		return i.reject(name, CodeFrozen, nil, nil)
	}
	i.flags[name] |= flagLocked
	return nil
}

// LockAll locks every member.
func (i *Instance) LockAll() error {
	if i.frozen {
		return i.reject("", CodeFrozen, nil, nil)
	}
	for _, name := range i.schema.members {
		i.flags[name] |= flagLocked
	}
	return nil
}

func (i *Instance) unlock(name string) {
	i.flags[name] &^= flagLocked
}

func (i *Instance) unlockAll() {
	for name := range i.flags {
		i.unlock(name)
	}
}

// WithUnlocked runs fn with the member temporarily unlocked and restores the
// lock afterwards, also when fn fails or panics. It is the privileged way
// around a lock; frozen instances refuse it.
func WithUnlocked(inst *Instance, key any, fn func() error) error {
	name, err := inst.resolve(key)
	if err != nil {
		return err
	}
	if inst.frozen {
		return inst.reject(name, CodeFrozen, nil, nil)
	}
	if inst.flags[name]&flagLocked != 0 {
		inst.unlock(name)
		defer func() { inst.flags[name] |= flagLocked }()
	}
	return fn()
}

// WithAllUnlocked is WithUnlocked for every member at once. Locks held before
// the call are restored afterwards.
func WithAllUnlocked(inst *Instance, fn func() error) error {
	if inst.frozen {
		return inst.reject("", CodeFrozen, nil, nil)
	}
	var held []string
	for _, name := range inst.schema.members {
		if inst.flags[name]&flagLocked != 0 {
			held = append(held, name)
		}
	}
	inst.unlockAll()
	defer func() {
		for _, name := range held {
			inst.flags[name] |= flagLocked
		}
	}()
	return fn()
}

// Locked reports whether the member is locked.
func (i *Instance) Locked(key any) (bool, error) {
	name, err := i.resolve(key)
	if err != nil {
		return false, err
	}
	return i.flags[name]&flagLocked != 0, nil
}

// LockedAll reports whether every member is locked.
func (i *Instance) LockedAll() bool {
	for _, name := range i.schema.members {
		if i.flags[name]&flagLocked == 0 {
			return false
		}
	}
	return true
}

// Freeze makes the instance permanently immutable.
func (i *Instance) Freeze() *Instance {
	i.frozen = true
	return i
}

// Frozen reports whether Freeze has been called.
func (i *Instance) Frozen() bool { return i.frozen }

// Clone returns an unfrozen, unlocked copy. Values are copied shallowly.
func (i *Instance) Clone() *Instance {
	c := newInstance(i.schema)
	for k, v := range i.values {
		c.values[k] = v
	}
	for k, f := range i.flags {
		if f &^= flagLocked; f != 0 {
			c.flags[k] = f
		}
	}
	return c
}

// Valid reports whether the member's current value (nil when unassigned)
// satisfies its condition.
func (i *Instance) Valid(key any) (bool, error) {
	name, err := i.resolve(key)
	if err != nil {
		return false, err
	}
	return i.validValue(name, i.values[name])
}

// ValidValue reports whether v would satisfy the member's condition.
// Adjusters are not applied.
func (i *Instance) ValidValue(key any, v any) (bool, error) {
	name, err := i.resolve(key)
	if err != nil {
		return false, err
	}
	return i.validValue(name, v)
}

func (i *Instance) validValue(name string, v any) (bool, error) {
	spec := i.schema.spec(name)
	if spec.cond == nil {
		return true, nil
	}
	return rules.Holds(spec.cond, v)
}

// Strict reports whether every member is valid.
func (i *Instance) Strict() (bool, error) {
	var errs []error
	strict := true
	for _, name := range i.schema.members {
		ok, err := i.validValue(name, i.values[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		strict = strict && ok
	}
	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return strict, nil
}

// Secure reports whether the instance is fully locked (or frozen), its schema
// is closed and every member is valid.
func (i *Instance) Secure() (bool, error) {
	if !(i.frozen || i.LockedAll()) || !i.schema.closed {
		return false, nil
	}
	return i.Strict()
}
