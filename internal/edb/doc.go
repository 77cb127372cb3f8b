// Package edb implements the extensional database: a mutable multiset of
// (entity, attribute, value) facts indexed two ways and composable into
// federated stores.
//
// # Structure
//
// Every EDB keeps two three-level ordered indices over the same facts:
//
//	EAV: entity    -> attribute -> value  -> leaf handle
//	AVE: attribute -> value     -> entity -> leaf handle
//
// A leaf (multiplicity + provenance) lives in a per-store arena. Both
// indices store the same handle, so the two views can never disagree.
// Intermediate levels are created lazily by levelFetch and never pruned.
// A retracted fact leaves a tombstone (handle 0) in both terminal slots.
//
// # Merge Semantics
//
// Insert applies a signed delta. The absent->present transition allocates a
// leaf, records provenance, and bumps Size. Later deltas accumulate into the
// existing leaf. When the multiplicity reaches zero the fact is tombstoned in
// both indices and its arena slot is reused. A first insert with delta 0
// still allocates a leaf, with M = 0; scans and Live skip it.
//
// Size counts absent->present transitions and NEVER decreases, even when
// facts are retracted. Live reports the local facts with nonzero
// multiplicity.
//
// # Scans
//
// Scan answers one of six signatures, named by which of e/a/v are bound
// (uppercase) or free (lowercase): eav, EAV, EAv, Eav, eAV, eAv. The
// patterns binding a with e free use AVE; all others use EAV. Patterns that
// bind v without a (eaV, EaV) would need a value-first index and are
// reported as unknown.
//
// Included stores are scanned first, depth-first in include order, then the
// local indices. Results are not deduplicated across stores.
//
// # Concurrency
//
// There is NO internal locking. One goroutine may mutate a store at a time;
// reads may run concurrently with each other but never with Insert. A scan
// consumer (iterator body or callback) must not Insert into any store that
// takes part in the scan.
package edb
