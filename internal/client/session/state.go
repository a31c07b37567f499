package session

import "github.com/dmitrijs2005/quizdeck/internal/client/models"

// Status is the lifecycle phase of the session.
type Status string

const (
	// StatusInit is the pre-start phase before the stored credential has
	// been inspected.
	StatusInit Status = "init"
	// StatusVerifying means a verification round-trip is in flight.
	StatusVerifying Status = "verifying"
	// StatusAuthenticated means the backend confirmed the credential.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means there is no live session.
	StatusUnauthenticated Status = "unauthenticated"
)

// State is an immutable snapshot of the session handed to subscribers.
// User is non-nil only for a server-verified session.
type State struct {
	Status Status
	User   *models.User
}

// Loading reports whether the session outcome is still unresolved.
func (s State) Loading() bool {
	return s.Status == StatusInit || s.Status == StatusVerifying
}

// Authenticated is derived from User so it can never disagree with it.
func (s State) Authenticated() bool {
	return s.User != nil
}
