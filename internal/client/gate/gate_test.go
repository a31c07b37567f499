package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
	"github.com/dmitrijs2005/quizdeck/internal/client/session"
)

func studentState() session.State {
	return session.State{Status: session.StatusAuthenticated,
		User: &models.User{ID: "u-1", Role: models.RoleStudent}}
}

func adminState() session.State {
	return session.State{Status: session.StatusAuthenticated,
		User: &models.User{ID: "u-2", Role: models.RoleAdmin}}
}

func TestEvaluate(t *testing.T) {
	loading := session.State{Status: session.StatusVerifying}
	anon := session.State{Status: session.StatusUnauthenticated}

	tests := []struct {
		name   string
		policy Policy
		state  session.State
		want   Decision
	}{
		{"protected while loading shows placeholder", Protected(), loading,
			Decision{Outcome: OutcomePlaceholder}},
		{"protected while init shows placeholder", Protected(), session.State{Status: session.StatusInit},
			Decision{Outcome: OutcomePlaceholder}},
		{"protected without session redirects to login", Protected(), anon,
			Decision{Outcome: OutcomeRedirect, Target: RouteLogin}},
		{"protected renders for a verified session", Protected(), studentState(),
			Decision{Outcome: OutcomeRender}},
		{"admin-only renders for admin", Protected(models.RoleAdmin), adminState(),
			Decision{Outcome: OutcomeRender}},
		{"admin-only bounces student to their landing", Protected(models.RoleAdmin), studentState(),
			Decision{Outcome: OutcomeRedirect, Target: RouteStudentHome}},
		{"public-only while loading shows placeholder", PublicOnly(), loading,
			Decision{Outcome: OutcomePlaceholder}},
		{"public-only renders without session", PublicOnly(), anon,
			Decision{Outcome: OutcomeRender}},
		{"public-only sends student to student landing", PublicOnly(), studentState(),
			Decision{Outcome: OutcomeRedirect, Target: RouteStudentHome}},
		{"public-only sends admin to admin landing", PublicOnly(), adminState(),
			Decision{Outcome: OutcomeRedirect, Target: RouteAdminHome}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.policy, tt.state))
		})
	}
}

// fakeSession is a hand-driven Session for watcher tests.
type fakeSession struct {
	state session.State
	subs  []func(session.State)
}

func (f *fakeSession) State() session.State { return f.state }

func (f *fakeSession) Subscribe(fn func(session.State)) func() {
	f.subs = append(f.subs, fn)
	return func() { f.subs = nil }
}

func (f *fakeSession) set(st session.State) {
	f.state = st
	for _, fn := range f.subs {
		fn(st)
	}
}

func TestWatch_RedirectsExactlyOnce(t *testing.T) {
	fs := &fakeSession{state: session.State{Status: session.StatusVerifying}}
	g := New(fs)

	var got []Decision
	g.Watch(Protected(), func(d Decision) { got = append(got, d) })

	require.Equal(t, []Decision{{Outcome: OutcomePlaceholder}}, got)

	// resolution to unauthenticated redirects once...
	fs.set(session.State{Status: session.StatusUnauthenticated})
	// ...and a repeated identical state adds nothing
	fs.set(session.State{Status: session.StatusUnauthenticated})

	require.Len(t, got, 2)
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: RouteLogin}, got[1])
}

func TestWatch_ReactsToLoginAndLogout(t *testing.T) {
	fs := &fakeSession{state: session.State{Status: session.StatusUnauthenticated}}
	g := New(fs)

	var got []Decision
	g.Watch(PublicOnly(), func(d Decision) { got = append(got, d) })
	require.Equal(t, []Decision{{Outcome: OutcomeRender}}, got)

	fs.set(adminState())
	require.Len(t, got, 2)
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: RouteAdminHome}, got[1])

	fs.set(session.State{Status: session.StatusUnauthenticated})
	require.Len(t, got, 3)
	assert.Equal(t, Decision{Outcome: OutcomeRender}, got[2])
}

func TestWatch_CancelStopsDelivery(t *testing.T) {
	fs := &fakeSession{state: session.State{Status: session.StatusVerifying}}
	g := New(fs)

	var got []Decision
	cancel := g.Watch(Protected(), func(d Decision) { got = append(got, d) })
	cancel()

	fs.set(studentState())
	assert.Len(t, got, 1, "a cancelled watcher must not receive late results")
}

func TestCheck_UsesCurrentState(t *testing.T) {
	fs := &fakeSession{state: studentState()}
	g := New(fs)

	assert.Equal(t, Decision{Outcome: OutcomeRender}, g.Check(Protected()))
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: RouteStudentHome}, g.Check(PublicOnly()))
}
