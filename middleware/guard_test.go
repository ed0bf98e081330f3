package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmaplex/farmaplex-go/internal/faketime"
	"github.com/farmaplex/farmaplex-go/session"
)

func seedAuthenticated(t *testing.T) *session.Memory {
	t.Helper()
	mem := session.NewMemory()
	seed := session.NewStore(mem, "", "", nil)
	id := session.Identity{UserID: 7, Email: "ana@farmacia.pe", Name: "Ana", Role: "ADMIN"}
	if err := seed.SetUser(id, "tok-1"); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return mem
}

func newGuardTest(t *testing.T, mem *session.Memory) (*Guard, *faketime.Clock) {
	t.Helper()
	clock := faketime.New(time.Unix(1700000000, 0))
	store := session.NewStore(mem, "", "", nil)
	return NewGuard(store, "/login", 100*time.Millisecond, clock), clock
}

func protectedOK() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret"))
	})
}

func TestPendingUntilSettled(t *testing.T) {
	// Loading must be shown while settling regardless of the eventual
	// verdict, so protected content never renders before initialization.
	for name, mem := range map[string]*session.Memory{
		"authenticated":   seedAuthenticated(t),
		"unauthenticated": session.NewMemory(),
	} {
		guard, clock := newGuardTest(t, mem)
		handler := guard.Protect(protectedOK())

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("%s: request %d before settle: status %d", name, i, rec.Code)
			}
			if !guard.Pending() {
				t.Fatalf("%s: guard not pending before settle", name)
			}
		}

		clock.Advance(100 * time.Millisecond)
		if guard.Pending() {
			t.Fatalf("%s: still pending after settle delay", name)
		}
	}
}

func TestAllowsAuthenticatedAfterSettle(t *testing.T) {
	guard, clock := newGuardTest(t, seedAuthenticated(t))
	handler := guard.Protect(protectedOK())

	// First touch starts settling.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	clock.Advance(100 * time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "secret" {
		t.Fatalf("expected protected content, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRedirectsUnauthenticatedAfterSettle(t *testing.T) {
	guard, clock := newGuardTest(t, session.NewMemory())
	handler := guard.Protect(protectedOK())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	clock.Advance(100 * time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect target %q", loc)
	}
}

func TestEvaluateBlocksUntilSettle(t *testing.T) {
	guard, clock := newGuardTest(t, seedAuthenticated(t))

	if !guard.Pending() {
		t.Fatal("expected pending before settle")
	}

	type result struct {
		decision Decision
		err      error
	}
	done := make(chan result, 1)
	go func() {
		d, err := guard.Evaluate(context.Background())
		done <- result{d, err}
	}()

	select {
	case <-done:
		t.Fatal("Evaluate returned before settle")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(100 * time.Millisecond)
	res := <-done
	if res.err != nil || res.decision != DecisionAllow {
		t.Fatalf("evaluate: %v %v", res.decision, res.err)
	}
}

func TestEvaluateHonorsContext(t *testing.T) {
	guard, _ := newGuardTest(t, seedAuthenticated(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	decision, err := guard.Evaluate(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if decision != DecisionRedirect {
		t.Fatalf("cancelled evaluate must fail toward login, got %v", decision)
	}
}

func TestGuardFailsClosedOnCorruptMirror(t *testing.T) {
	mem := session.NewMemory()
	if err := mem.SetAll(map[string]string{
		session.DefaultTokenKey:    "tok",
		session.DefaultIdentityKey: "{broken",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	guard, clock := newGuardTest(t, mem)
	if !guard.Pending() {
		t.Fatal("expected pending before settle")
	}
	clock.Advance(100 * time.Millisecond)
	// No panic, no allow: corrupt storage is "no session".
	decision, err := guard.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision != DecisionRedirect {
		t.Fatalf("expected redirect for corrupt mirror, got %v", decision)
	}
}
