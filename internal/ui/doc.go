// Package ui declares the capability surfaces the step engine consumes
// from a host UI toolkit.
//
// The engine never talks to a concrete toolkit or DOM directly. Every
// effectful step goes through one of these interfaces:
//
//   - Toolkit: render a component into a container, force pending UI
//     updates to flush, schedule work after the next flush.
//   - DOM: create and destroy mount containers on the host document.
//   - Element: query and mutate rendered nodes (attributes, text, value,
//     click, change events).
//   - Capture / HUD: the screenshot side channel.
//   - Awaitable: a pending external operation a wait-promise step can
//     suspend on.
//
// Embedders bind these to a real toolkit; internal/memdom provides the
// reference in-memory implementation used by tests and the CLI.
package ui
