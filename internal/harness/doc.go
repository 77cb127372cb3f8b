// Package harness runs declarative scenarios against edb stores.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: alice_age
//	description: "Assert, accumulate, retract"
//	stores:
//	  - name: base
//	  - name: people
//	    includes: [base]
//	steps:
//	  - insert: { store: people, e: alice, a: age, v: 30 }
//	  - insert: { store: people, e: alice, a: age, v: 30, m: -1 }
//	  - include: { store: people, other: extra }
//	assertions:
//	  - type: count_of
//	    store: people
//	    e: alice
//	    a: age
//	    v: 30
//	    count: 0
//	  - type: scan_count
//	    store: people
//	    query: "? age 30"
//	    count: 0
//
// Scalars become identifiers through ir.FromAny: YAML integers are Int,
// booleans Bool, canonical uuid strings UUID, and other strings String.
// Quote a number ("30") to get a string.
//
// Every file is checked against the embedded CUE schema (schema.cue) before
// it is strictly decoded, so misspelled keys fail early.
//
// # Assertion Types
//
//   - count_of: local multiplicity of (e, a, v) equals count
//   - size: store Size equals count
//   - live: store Live equals count
//   - lookup: LookupValue(e, a) returns value, or nothing when found is false
//   - scan_count: the federated scan for query yields count facts
//   - scan_contains: the federated scan for query yields (e, a, v), with
//     multiplicity count when given
//
// # Deterministic Testing
//
// Store ids and default provenance tags come from one
// testutil.SequenceSource, in order of appearance. The same scenario always
// produces byte-identical traces, dumps, and golden snapshots.
package harness
