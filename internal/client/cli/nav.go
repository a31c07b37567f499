package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quizdeck/internal/client/gate"
	"github.com/dmitrijs2005/quizdeck/internal/client/models"
	"github.com/dmitrijs2005/quizdeck/internal/client/session"
)

// policyFor maps a route to its access policy.
func policyFor(r gate.Route) gate.Policy {
	switch r {
	case gate.RouteLogin:
		return gate.PublicOnly()
	case gate.RouteAdminHome:
		return gate.Protected(models.RoleAdmin)
	default:
		return gate.Protected()
	}
}

// navigate moves the UI to route r, honoring the gate's decision. While the
// session is still resolving it shows a placeholder and waits; redirects are
// followed until a route renders. The loop is bounded because redirect
// targets form a two-level hierarchy (login and the role landings).
func (a *App) navigate(ctx context.Context, r gate.Route) {
	for i := 0; i < 3; i++ {
		a.waitResolved(ctx)

		d := a.gate.Check(policyFor(r))
		switch d.Outcome {
		case gate.OutcomeRedirect:
			r = d.Target
			continue
		case gate.OutcomePlaceholder:
			// ctx cancelled mid-wait; leave the route untouched.
			return
		default:
			a.route = r
			a.render(r)
			return
		}
	}
}

// waitResolved blocks until the session leaves its loading states or ctx is
// cancelled. A placeholder line is printed only when an actual wait happens.
func (a *App) waitResolved(ctx context.Context) {
	if !a.session.State().Loading() {
		return
	}

	fmt.Fprintln(a.out, "Checking session...")

	resolved := make(chan struct{}, 1)
	cancel := a.session.Subscribe(func(st session.State) {
		if !st.Loading() {
			select {
			case resolved <- struct{}{}:
			default:
			}
		}
	})
	defer cancel()

	// Re-check after subscribing: the state may have settled in between.
	if !a.session.State().Loading() {
		return
	}

	select {
	case <-resolved:
	case <-ctx.Done():
	}
}

// render paints the view for route r.
func (a *App) render(r gate.Route) {
	switch r {
	case gate.RouteLogin:
		fmt.Fprintln(a.out, "You are not signed in. Use 'login' or 'register' to continue.")
	case gate.RouteAdminHome:
		st := a.session.State()
		fmt.Fprintf(a.out, "Admin panel. Signed in as %s.\n", st.User.Email)
		fmt.Fprintln(a.out, "Quiz and user management commands will appear here.")
	default:
		st := a.session.State()
		fmt.Fprintf(a.out, "Hello, %s! Your quizzes are waiting.\n", st.User.Name)
	}
}
