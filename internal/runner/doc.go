// Package runner drives an ordered step list through the executor one
// step at a time.
//
// ARCHITECTURE:
//
// Single-Threaded Sequential Loop:
// The runner executes all steps on one logical thread of control. This
// ensures:
// - Steps execute strictly in order (step i+1 never starts before step
//   i's outcome callback has returned and any flush wait has completed)
// - No concurrent mutation of the context
// - Reproducible report sequences for golden comparison
//
// Run Flow:
// 1. Caller-supplied steps are flattened one level (groups spliced inline)
// 2. The synthetic terminal cleanup step is appended (cannot be disabled)
// 3. Options and every descriptor are validated before any execution
// 4. Each step runs through the registry; its outcome is awaited
// 5. On success: report, optionally wait for a UI flush, optionally
//    capture a screenshot, advance
// 6. On failure: report, optionally capture a failure frame, run the
//    terminal cleanup, stop
// 7. The done callback fires exactly once on every path
//
// Suspension happens only at the four cooperative points: timed delays,
// awaited operations, UI-flush completion, and screenshot capture.
// There is no cancellation primitive beyond a step reporting failure;
// the run context is honored only at those suspension points.
package runner
