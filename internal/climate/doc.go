// Package climate implements the control core for a single climate entity:
// the editable state that mediates between authoritative snapshots pushed by
// Home Assistant, optimistic local edits made in the UI, and rate-limited
// outbound service calls.
//
// # Components
//
//   - Snapshot: a point-in-time, immutable read of the entity's reported
//     state. Optional numeric fields are pointers so that a legitimate zero
//     is distinguishable from an absent field.
//   - Limits / Clamp: derive the effective min/max/step/unit from a possibly
//     partial snapshot and clamp candidate temperatures into range.
//   - ResolveMode: fallback chain for the displayed operating mode.
//   - Store: the locally editable fields (target temperature, current mode,
//     expanded flag) and the reconciliation rule that re-syncs them whenever
//     a fresh snapshot arrives.
//   - Dispatcher: two independent debounced pipelines (temperature, mode)
//     that coalesce rapid edits into a single outbound command per quiet
//     period, then trigger a state refresh.
//
// # Reconciliation tradeoff
//
// A fresh snapshot always overwrites the editable fields, even while a local
// edit is still debouncing or in flight. If the post-command refresh races a
// periodic update, an in-flight edit can appear to revert momentarily. This
// is deliberate: the most recent snapshot wins, and the behavior is isolated
// in Store.ApplySnapshot so it stays visible and testable.
//
// # Concurrency
//
// Store is not synchronized; it is owned by the single goroutine running the
// UI event loop. Dispatcher is safe for concurrent use: arming is guarded by
// a mutex, sends run on their own goroutine, and sends for a given field are
// strictly serialized. Pipelines for different fields are independent and
// may execute concurrently.
package climate
