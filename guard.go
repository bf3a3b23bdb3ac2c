package gitforum

// Default guard destinations, matching the web client's routes.
const (
	DefaultLoginRoute   = "/login"
	DefaultLandingRoute = "/feed"
)

// GuardResult is a routing decision derived from session state.
type GuardResult int

const (
	// GuardPending means the session is still resolving; render a neutral
	// loading state and make no routing decision yet.
	GuardPending GuardResult = iota
	// GuardAllow means the guarded content may be shown.
	GuardAllow
	// GuardRedirect means navigate to the decision's Target and render
	// nothing in the meantime.
	GuardRedirect
)

func (r GuardResult) String() string {
	switch r {
	case GuardPending:
		return "pending"
	case GuardAllow:
		return "allow"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a guard check. Target is only set for
// GuardRedirect.
type Decision struct {
	Result GuardResult
	Target string
}

// Guard gates a route on session state. It holds no state of its own: every
// Check reads the session afresh, so a guard constructed once stays correct
// as the session changes underneath it.
type Guard struct {
	session     *Session
	requireAuth bool
	redirectTo  string
}

// NewAuthGuard guards a route that requires a signed-in user. Anonymous
// visitors are redirected to redirectTo (DefaultLoginRoute when empty).
func NewAuthGuard(session *Session, redirectTo string) *Guard {
	if redirectTo == "" {
		redirectTo = DefaultLoginRoute
	}
	return &Guard{session: session, requireAuth: true, redirectTo: redirectTo}
}

// NewGuestGuard guards a route meant only for anonymous visitors, such as
// the login and registration pages. Signed-in users are redirected to
// redirectTo (DefaultLandingRoute when empty).
func NewGuestGuard(session *Session, redirectTo string) *Guard {
	if redirectTo == "" {
		redirectTo = DefaultLandingRoute
	}
	return &Guard{session: session, requireAuth: false, redirectTo: redirectTo}
}

// Check derives the routing decision from the current session state. While
// the session is loading the decision is withheld, avoiding a flash of the
// wrong content before the session has resolved.
func (g *Guard) Check() Decision {
	if g.session.IsLoading() {
		return Decision{Result: GuardPending}
	}
	if g.session.IsAuthenticated() != g.requireAuth {
		return Decision{Result: GuardRedirect, Target: g.redirectTo}
	}
	return Decision{Result: GuardAllow}
}
