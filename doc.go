// Package structus provides record types whose members are guarded by
// conditions.
//
// - A Schema is an ordered table of members. Each member may carry a
//   condition (package rules), an adjuster (package adjust), a default and
//   reader/writer validation flags.
// - An Instance stores member values. Every write is adjusted, then
//   validated, then stored; rejected writes leave the instance unchanged.
// - Errors are reported as Issues with stable codes and match the ErrX
//   sentinels through errors.Is.
//
// Locks:
// - Lock and LockAll bar writes to members; locks are never lifted through
//   the Instance API. WithUnlocked and WithAllUnlocked are the privileged
//   escape hatch: they lift locks only for the duration of a callback and
//   restore them afterwards. Code that hands instances to untrusted callers
//   should Freeze them instead, which no helper can undo.
//
// Design policy:
// - Keep the public API in the root package; helpers live under internal/.
// - Conditions and adjusters live in rules/ and adjust/, declaration
//   documents in schemafile/, metrics in metrics/ and the CLI in cmd/structus.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := structus.MustDefine("Person", func(s *structus.Schema) error {
//		s.MustHas("name", structus.Is(rules.Type[string]()))
//		s.MustHas("age", structus.Is(rules.Between(0, 150)), structus.Via(adjust.Int()), structus.Default(0))
//		return s.AliasMember("nick", "name")
//	})
//	p, err := person.New("ann")
//	err = p.Set("age", "41")
//	age, err := structus.MustField[int](person, "age").Get(p)
package structus
