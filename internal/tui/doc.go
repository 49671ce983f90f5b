// Package tui implements the hadeck terminal dashboard.
//
// The dashboard is a Bubble Tea program built from two layers:
//
//   - AppModel: the top-level model. It fetches climate entities from Home
//     Assistant, keeps one ClimateWidget per entity, routes keyboard and
//     mouse input to the focused widget, and merges the three snapshot
//     sources (initial load, poll ticks, websocket push) into the widgets.
//   - ClimateWidget: the interactive panel for a single entity. It owns the
//     entity's reconciliation store and debounced command dispatcher.
//
// # Interaction model
//
// The focused widget reacts to:
//
//   - mouse wheel / left / right: adjust the target temperature one step at
//     a time, clamped into the entity's limits; edits are optimistic and
//     coalesced by the dispatcher before a command goes out
//   - digit keys and [ / ]: select or cycle the HVAC mode
//   - enter: expand or collapse the detail panel (modes, limits)
//
// Entities reporting an unavailable state render read-only: input is
// ignored and the detail panel is suppressed until the entity returns.
//
// # Snapshot flow
//
// Fresh state always wins. Every snapshot, regardless of source, overwrites
// the optimistic local values in the widget's store; only the expanded flag
// survives. Events produced outside the Bubble Tea loop (websocket pushes,
// post-command refetches) travel through the AppModel's event channel and
// are drained with a wait-for-event command.
package tui
