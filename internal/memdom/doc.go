// Package memdom is the reference in-memory implementation of the ui
// capability surfaces.
//
// It models just enough of a document for driving the step engine without
// a browser: a Document holding mount containers, an element tree built
// from declarative Node descriptions, a Toolkit with explicit flush
// semantics, and a Recorder standing in for the screenshot mechanism.
//
// FLUSH MODEL:
//
// Interactions do not take effect immediately. A click enqueues its
// handler as a pending update on the document; Toolkit.FlushUpdates
// applies all pending updates and then runs the callbacks registered via
// AfterFlush. This mirrors toolkits that batch work until change
// detection runs, and makes the engine's flush-wait behavior observable
// in tests: a click's effect is only visible after the flush.
//
// Selectors support the simple forms the engine needs: "tag", "#id",
// ".class", and combinations like "input.field" or "div#main".
package memdom
