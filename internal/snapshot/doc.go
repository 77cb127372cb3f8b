// Package snapshot exports edb stores to SQLite for inspection.
//
// A snapshot holds, per store, the live local facts at the moment of the
// write plus the store's name, Size, Live count, and include list. Writes
// replace a store's rows wholesale inside one transaction. Nothing is ever
// loaded back into an EDB; the in-memory store stays the source of truth.
//
// # Tables
//
//   - stores: one row per written store
//   - store_includes: include list in scan order
//   - facts: (store_id, FactID) keyed live facts with kind-tagged columns
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All reads go through querysql and are deterministically ordered.
// Fact ids come from ir.FactID.
package snapshot
