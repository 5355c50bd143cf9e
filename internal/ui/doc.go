// Package ui is the terminal front end of the greeter.
//
// It renders greeter.UiState with Bubble Tea and Lipgloss and feeds key
// presses back into it. The login attempt itself runs in the background:
// a greetd.ClientManager and a greeter.UiManager exchange packets while
// the Model only repaints when the UiManager asks it to.
//
// # Screen
//
// The login box is centered on the terminal and shows one of:
//
//   - a greetd message, optionally with an input field
//   - a spinner while greetd is working
//   - nothing, before the first interaction
//
// Secret input is never echoed. Instead a ring of segments lights a random
// segment on every keystroke, green when typing and red when deleting, so
// the user gets feedback without the length being revealed.
//
// # Attempts
//
// Run keeps the greetd connection across failed logins: when an attempt
// ends with an authentication or generic greetd error, the failure is
// shown, acknowledged with Enter, and a new attempt starts on the recovered
// connection. Transport errors end Run.
package ui
