// Package harness provides a scenario-driven testing framework for the
// step runner.
//
// A scenario is a YAML file describing a component tree, a list of steps
// to run against it, and assertions over the resulting report transcript
// and trace store. Scenarios execute against the in-memory toolkit, so a
// run is fully deterministic and needs no real UI.
//
// # ARCHITECTURE
//
// Scenario loading is strict: unknown YAML fields are rejected, and the
// step list is validated before anything runs. Dynamic field values use
// two prefixes:
//
//   - "ctx.<key>" resolves the named context key at execution time
//   - "expr:<program>" evaluates an expression against the context
//
// Each run writes its reports to an in-memory trace store, which the
// trace_state assertion can query directly. Golden transcript comparison
// is available through RunWithGolden.
package harness
