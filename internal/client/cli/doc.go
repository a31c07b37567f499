// Package cli implements the interactive Quizdeck terminal client.
//
// The app is a small REPL in front of the session controller: commands are
// dispatched to App methods, navigation between the login view and the
// student/admin panels goes through the route gate, and the prompt reflects
// the live session state. Input/output helpers are declared as swappable
// indirections so tests can drive the loop without a terminal.
package cli
