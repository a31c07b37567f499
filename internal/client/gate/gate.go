// Package gate decides what a navigable view renders for the current session
// state: the requested content, a loading placeholder, or a redirect.
//
// Decisions are computed by the pure Evaluate function; Gate.Watch keeps a
// mounted view in sync by re-evaluating on every session change, suppressing
// duplicate decisions so a resolved redirect fires exactly once. Cancelling a
// watch detaches the view, so a late verification result can no longer reach
// it.
package gate

import (
	"sync"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
	"github.com/dmitrijs2005/quizdeck/internal/client/session"
)

// Route names a navigable destination.
type Route string

const (
	RouteLogin       Route = "/login"
	RouteStudentHome Route = "/"
	RouteAdminHome   Route = "/admin"
)

// Outcome is what the view should do right now.
type Outcome int

const (
	// OutcomeRender shows the requested content.
	OutcomeRender Outcome = iota
	// OutcomePlaceholder shows a loading placeholder; no content, no redirect.
	OutcomePlaceholder
	// OutcomeRedirect navigates to Target instead of rendering.
	OutcomeRedirect
)

// Decision is the gate's verdict for one policy against one session state.
type Decision struct {
	Outcome Outcome
	Target  Route
}

// Policy describes who may see a route.
type Policy struct {
	publicOnly bool
	roles      []models.Role
}

// Protected returns the policy for routes requiring an authenticated session.
// With roles given, the session's role must additionally be one of them;
// otherwise the user is sent to their own landing page.
func Protected(roles ...models.Role) Policy {
	return Policy{roles: roles}
}

// PublicOnly returns the policy for routes that only make sense without a
// session, such as the login page.
func PublicOnly() Policy {
	return Policy{publicOnly: true}
}

// LandingFor is the role-specific landing destination of a verified user.
func LandingFor(u *models.User) Route {
	if u.IsAdmin() {
		return RouteAdminHome
	}
	return RouteStudentHome
}

// Evaluate computes the decision for policy p against session state st.
// While the session is unresolved the only verdict is a placeholder; content
// is never rendered and no redirect is issued on a provisional state.
func Evaluate(p Policy, st session.State) Decision {
	if st.Loading() {
		return Decision{Outcome: OutcomePlaceholder}
	}

	if p.publicOnly {
		if st.Authenticated() {
			return Decision{Outcome: OutcomeRedirect, Target: LandingFor(st.User)}
		}
		return Decision{Outcome: OutcomeRender}
	}

	if !st.Authenticated() {
		return Decision{Outcome: OutcomeRedirect, Target: RouteLogin}
	}
	if len(p.roles) > 0 && !roleAllowed(p.roles, st.User.Role) {
		return Decision{Outcome: OutcomeRedirect, Target: LandingFor(st.User)}
	}
	return Decision{Outcome: OutcomeRender}
}

func roleAllowed(roles []models.Role, r models.Role) bool {
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}

// Session is the slice of the session controller the gate reads.
// *session.Controller satisfies this interface.
type Session interface {
	State() session.State
	Subscribe(fn func(session.State)) func()
}

// Gate evaluates policies against a live session.
type Gate struct {
	session Session
}

func New(s Session) *Gate {
	return &Gate{session: s}
}

// Check evaluates p against the current session state once.
func (g *Gate) Check(p Policy) Decision {
	return Evaluate(p, g.session.State())
}

// Watch emits the decision for p now and again after every session change,
// skipping consecutive duplicates. The returned cancel function detaches the
// watcher; after cancel no further decisions are delivered.
func (g *Gate) Watch(p Policy, fn func(Decision)) func() {
	var mu sync.Mutex
	var last Decision
	seen := false

	emit := func(st session.State) {
		d := Evaluate(p, st)
		mu.Lock()
		if seen && d == last {
			mu.Unlock()
			return
		}
		last = d
		seen = true
		mu.Unlock()
		fn(d)
	}

	emit(g.session.State())
	return g.session.Subscribe(emit)
}
