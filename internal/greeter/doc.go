// Package greeter connects the greetd session driver to the screen.
//
// UiManager is the bridge. It is the only writer of UiState, a pair of cells
// (what to display, and what to do with input) that the rendering loop reads
// once per frame through Snapshot. The rendering loop never calls into the
// bridge; it only reports user actions through Confirm and SubmitText, which
// hand the value to the goroutine blocked in UiManager.Run.
//
// One attempt looks like this:
//
//	blank screen, wait for confirm ─▶ username (unless configured) ─▶ loading
//	  ─▶ prompts from greetd, each answered in turn ─▶ loading, send command
//
// Login runs a greetd.ClientManager and a UiManager together for one attempt.
package greeter
