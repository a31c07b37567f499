// Package session owns the client's single reactive session state and the
// rules for mutating it.
//
// # State machine
//
// INIT -> VERIFYING -> AUTHENTICATED | UNAUTHENTICATED. Refresh re-enters
// VERIFYING from either terminal state; Logout reaches UNAUTHENTICATED from
// anywhere. Verification failure is fail-closed: any ambiguous outcome
// (invalid token, unreachable backend, timeout, malformed response) resolves
// to UNAUTHENTICATED and clears the stored credential.
//
// # Concurrency
//
// At most one verification round-trip is in flight; a Refresh issued while
// one is pending joins it. Every state-changing trigger bumps a generation
// counter, and any completing round-trip (verification, login, profile
// update) whose generation is stale is dropped, so an out-of-order response
// can never overwrite newer state. Subscriber notification is serialized in
// commit order, with stale snapshots dropped rather than delivered late.
//
// The controller is the only writer of the credential store; views read
// session state through State/Subscribe and mutate it through Login, Logout,
// Refresh and UpdateProfile.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizdeck/internal/client/api"
	"github.com/dmitrijs2005/quizdeck/internal/client/models"
	"github.com/dmitrijs2005/quizdeck/internal/logging"
)

// Store is the slice of the credential store the controller needs.
// *store.Store satisfies this interface.
type Store interface {
	Token(ctx context.Context) string
	SaveCredentials(ctx context.Context, token string, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	CachedUser(ctx context.Context) *models.User
	Clear(ctx context.Context) error
}

type subscriber struct {
	id int
	fn func(State)
}

// Controller owns the session state machine.
type Controller struct {
	store         Store
	api           api.Client
	log           logging.Logger
	verifyTimeout time.Duration

	mu         sync.Mutex
	status     Status
	user       *models.User
	seq        uint64 // generation; bumped by every state-changing trigger
	pendingSeq uint64 // generation of the in-flight verification, 0 if none
	subs       []subscriber
	nextSubID  int

	deliverMu sync.Mutex // serializes subscriber notification
	commitSeq uint64     // stamp of the latest committed snapshot
	delivered uint64     // stamp of the latest snapshot handed to subscribers
}

// NewController constructs a Controller in the INIT state. verifyTimeout
// bounds each verification round-trip; a hung call counts as a failure.
func NewController(s Store, client api.Client, log logging.Logger, verifyTimeout time.Duration) *Controller {
	return &Controller{
		store:         s,
		api:           client,
		log:           log.With("module", "session"),
		verifyTimeout: verifyTimeout,
		status:        StatusInit,
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Status: c.status, User: c.user}
}

// Subscribe registers fn to be called with every committed snapshot.
// The returned function unregisters it. Notifications are delivered in
// commit order while the delivery lock is held, so fn must not call the
// controller's state-changing methods; reading State is fine.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Start resolves the initial session. Without a stored credential it settles
// on UNAUTHENTICATED immediately, with no network call; otherwise it enters
// VERIFYING and verifies asynchronously.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	token := c.store.Token(ctx)
	if token == "" {
		c.commitLocked(StatusUnauthenticated, nil)
		return
	}
	c.beginVerifyLocked(ctx, token)
}

// Refresh re-runs verification on demand, e.g. after a profile edit.
// A call issued while a verification is already pending joins the pending
// round-trip instead of racing it.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.pendingSeq != 0 {
		c.mu.Unlock()
		return
	}
	token := c.store.Token(ctx)
	if token == "" {
		c.commitLocked(StatusUnauthenticated, nil)
		return
	}
	c.beginVerifyLocked(ctx, token)
}

// beginVerifyLocked enters VERIFYING and launches the round-trip. The caller
// must hold c.mu; the lock is released on return. A verified user already on
// display is kept until the new result lands, so a refresh never blanks the
// screen.
func (c *Controller) beginVerifyLocked(ctx context.Context, token string) {
	c.seq++
	mySeq := c.seq
	c.pendingSeq = mySeq
	c.commitLocked(StatusVerifying, c.user)

	go c.runVerify(ctx, mySeq, token)
}

func (c *Controller) runVerify(ctx context.Context, mySeq uint64, token string) {
	vctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	user, err := c.api.Verify(vctx, token)
	cancel()

	c.mu.Lock()
	if c.pendingSeq == mySeq {
		c.pendingSeq = 0
	}
	if mySeq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded verification result")
		return
	}

	if err != nil {
		// Fail closed: an unusable credential is removed so the next start
		// resolves offline, and the provisional cache goes with it.
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.log.Error(ctx, "failed to clear credential store", "error", clearErr)
		}
		c.commitLocked(StatusUnauthenticated, nil)

		if errors.Is(err, api.ErrUnavailable) {
			c.log.Warn(ctx, "verification failed: backend unavailable", "error", err)
		} else {
			c.log.Info(ctx, "stored credential rejected", "error", err)
		}
		return
	}

	if saveErr := c.store.SaveUser(ctx, user); saveErr != nil {
		c.log.Warn(ctx, "failed to refresh cached user", "error", saveErr)
	}
	c.commitLocked(StatusAuthenticated, user)
}

// Login exchanges credentials for a fresh token. On success the credential
// is persisted and the session goes straight to AUTHENTICATED without a
// second verify round-trip. On failure the session state is untouched and
// the error is returned for inline display.
//
// A trigger that moves the generation while the exchange is in flight owns
// the state now; the result of this call is then dropped instead of
// committed, so a Logout issued mid-login can never be overwritten.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	mySeq := c.seq
	c.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	user, token, err := c.api.Login(lctx, email, password)
	cancel()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if mySeq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded login result")
		return nil
	}
	c.seq++ // a pending verification, if any, is now superseded
	if saveErr := c.store.SaveCredentials(ctx, token, user); saveErr != nil {
		c.log.Error(ctx, "failed to persist credential", "error", saveErr)
	}
	c.commitLocked(StatusAuthenticated, user)
	return nil
}

// Register creates an account and opens a session for it, mirroring Login.
func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	c.mu.Lock()
	mySeq := c.seq
	c.mu.Unlock()

	rctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	user, token, err := c.api.Register(rctx, name, email, password)
	cancel()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if mySeq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded registration result")
		return nil
	}
	c.seq++
	if saveErr := c.store.SaveCredentials(ctx, token, user); saveErr != nil {
		c.log.Error(ctx, "failed to persist credential", "error", saveErr)
	}
	c.commitLocked(StatusAuthenticated, user)
	return nil
}

// Logout drops the session unconditionally. It is synchronous and cannot
// fail; storage problems are logged, not surfaced.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear credential store", "error", err)
	}
	c.commitLocked(StatusUnauthenticated, nil)
}

// UpdateProfile mutates name/email of the authenticated user. A validation
// rejection is returned for inline display and leaves the session alone; a
// credential rejection forces the fail-closed logout path.
//
// Like Login, the result carries the generation observed at initiation and
// is dropped if a newer trigger (a logout, another login) moved the state
// while the round-trip was in flight.
func (c *Controller) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	c.mu.Lock()
	mySeq := c.seq
	c.mu.Unlock()

	token := c.store.Token(ctx)
	if token == "" {
		return nil, api.ErrUnauthorized
	}

	uctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	user, err := c.api.UpdateProfile(uctx, token, name, email)
	cancel()

	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		if errors.Is(err, api.ErrUnauthorized) {
			c.mu.Lock()
			if mySeq == c.seq {
				c.log.Info(ctx, "credential rejected during profile update, logging out")
				c.seq++
				if clearErr := c.store.Clear(ctx); clearErr != nil {
					c.log.Error(ctx, "failed to clear credential store", "error", clearErr)
				}
				c.commitLocked(StatusUnauthenticated, nil)
			} else {
				c.mu.Unlock()
			}
		}
		return nil, err
	}

	c.mu.Lock()
	if mySeq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded profile update result")
		return user, nil
	}
	c.seq++
	if saveErr := c.store.SaveUser(ctx, user); saveErr != nil {
		c.log.Warn(ctx, "failed to refresh cached user", "error", saveErr)
	}
	c.commitLocked(StatusAuthenticated, user)
	return user, nil
}

// ProvisionalUser returns the locally cached user record for optimistic
// display before verification resolves. It is never an authorization source.
func (c *Controller) ProvisionalUser(ctx context.Context) *models.User {
	return c.store.CachedUser(ctx)
}

// commitLocked records the new state, releases the lock, and notifies
// subscribers with the committed snapshot. The caller must hold c.mu.
//
// Delivery is serialized and stamped with the commit order: when two commits
// race, the one carrying the older stamp is dropped if the newer snapshot
// has already reached subscribers, so the last notification any subscriber
// observes always matches the controller's current state.
func (c *Controller) commitLocked(status Status, user *models.User) {
	c.status = status
	c.user = user
	c.commitSeq++
	stamp := c.commitSeq

	snapshot := State{Status: status, User: user}
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	if stamp < c.delivered {
		return
	}
	c.delivered = stamp

	for _, s := range subs {
		s.fn(snapshot)
	}
}
