package session

import (
	"errors"
	"testing"
)

func testIdentity() Identity {
	return Identity{UserID: 7, Email: "ana@farmacia.pe", Name: "Ana Quispe", Role: "GERENTE"}
}

func newStoreTest(t *testing.T) (*Store, *Memory) {
	t.Helper()
	mem := NewMemory()
	return NewStore(mem, "", "", nil), mem
}

func TestSetUserAtomicWithStorage(t *testing.T) {
	store, mem := newStoreTest(t)

	if err := store.SetUser(testIdentity(), "tok-1"); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if !store.Authenticated() {
		t.Fatal("expected authenticated after SetUser")
	}

	tok, ok, err := mem.Get(DefaultTokenKey)
	if err != nil || !ok || tok != "tok-1" {
		t.Fatalf("token not mirrored: %q ok=%v err=%v", tok, ok, err)
	}
	if _, ok, _ := mem.Get(DefaultIdentityKey); !ok {
		t.Fatal("identity not mirrored")
	}
}

func TestSetUserRejectsPartialState(t *testing.T) {
	store, mem := newStoreTest(t)

	cases := []struct {
		name  string
		id    Identity
		token string
	}{
		{"missing token", testIdentity(), ""},
		{"missing identity", Identity{}, "tok-1"},
		{"both missing", Identity{}, ""},
	}
	for _, tc := range cases {
		if err := store.SetUser(tc.id, tc.token); !errors.Is(err, ErrIncompleteSession) {
			t.Fatalf("%s: expected ErrIncompleteSession, got %v", tc.name, err)
		}
		if store.Authenticated() {
			t.Fatalf("%s: store authenticated after rejected write", tc.name)
		}
		if _, ok, _ := mem.Get(DefaultTokenKey); ok {
			t.Fatalf("%s: token leaked into storage", tc.name)
		}
		if _, ok, _ := mem.Get(DefaultIdentityKey); ok {
			t.Fatalf("%s: identity leaked into storage", tc.name)
		}
	}
}

func TestAuthenticatedIffBothPresent(t *testing.T) {
	// Authenticated must track "token AND identity" through an arbitrary
	// SetUser/Logout sequence.
	store, _ := newStoreTest(t)

	steps := []struct {
		op   func() error
		want bool
	}{
		{func() error { return store.SetUser(testIdentity(), "a") }, true},
		{store.Logout, false},
		{store.Logout, false},
		{func() error { return store.SetUser(testIdentity(), "b") }, true},
		{func() error { return store.SetUser(testIdentity(), "c") }, true},
		{store.Logout, false},
	}
	for i, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		sess := store.Current()
		derived := sess.Token != "" && !sess.Identity.isZero()
		if sess.Authenticated() != derived || sess.Authenticated() != step.want {
			t.Fatalf("step %d: authenticated=%v derived=%v want=%v", i, sess.Authenticated(), derived, step.want)
		}
	}
}

func TestLogoutIdempotent(t *testing.T) {
	store, mem := newStoreTest(t)

	if err := store.SetUser(testIdentity(), "tok-1"); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if store.Authenticated() {
		t.Fatal("authenticated after logout")
	}
	for _, key := range []string{DefaultTokenKey, DefaultIdentityKey} {
		if _, ok, _ := mem.Get(key); ok {
			t.Fatalf("key %q still present after logout", key)
		}
	}
}

func TestInitializeRestoresSession(t *testing.T) {
	mem := NewMemory()
	first := NewStore(mem, "", "", nil)
	if err := first.SetUser(testIdentity(), "tok-1"); err != nil {
		t.Fatalf("set user: %v", err)
	}

	// Fresh store over the same mirror, as after a process restart.
	second := NewStore(mem, "", "", nil)
	if second.Initialized() {
		t.Fatal("initialized before Initialize")
	}
	if err := second.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !second.Authenticated() {
		t.Fatal("expected restored session")
	}
	if got := second.Current().Identity; got != testIdentity() {
		t.Fatalf("restored identity mismatch: %+v", got)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	mem := NewMemory()
	seed := NewStore(mem, "", "", nil)
	if err := seed.SetUser(testIdentity(), "tok-1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewStore(mem, "", "", nil)
	var prev Session
	for i := 0; i < 3; i++ {
		if err := store.Initialize(); err != nil {
			t.Fatalf("initialize %d: %v", i, err)
		}
		cur := store.Current()
		if i > 0 && cur != prev {
			t.Fatalf("initialize %d changed state: %+v vs %+v", i, cur, prev)
		}
		prev = cur
	}
}

func TestInitializeFailsClosedOnCorruptIdentity(t *testing.T) {
	cases := []struct {
		name  string
		seed  map[string]string
	}{
		{"corrupt json", map[string]string{DefaultTokenKey: "tok", DefaultIdentityKey: "{not json"}},
		{"empty identity", map[string]string{DefaultTokenKey: "tok", DefaultIdentityKey: "{}"}},
		{"token only", map[string]string{DefaultTokenKey: "tok"}},
		{"identity only", map[string]string{DefaultIdentityKey: `{"usuarioId":7,"email":"a@b","nombre":"A","rol":"ADMIN"}`}},
	}
	for _, tc := range cases {
		mem := NewMemory()
		if err := mem.SetAll(tc.seed); err != nil {
			t.Fatalf("%s: seed: %v", tc.name, err)
		}
		store := NewStore(mem, "", "", nil)
		if err := store.Initialize(); err != nil {
			t.Fatalf("%s: initialize returned error: %v", tc.name, err)
		}
		if store.Authenticated() {
			t.Fatalf("%s: authenticated from bad mirror", tc.name)
		}
		// Leftover partial state must be scrubbed.
		for _, key := range []string{DefaultTokenKey, DefaultIdentityKey} {
			if _, ok, _ := mem.Get(key); ok {
				t.Fatalf("%s: key %q survived scrub", tc.name, key)
			}
		}
	}
}

func TestSubscribeObservesTransitions(t *testing.T) {
	store, _ := newStoreTest(t)

	var seen []bool
	cancel := store.Subscribe(func(sess Session) {
		seen = append(seen, sess.Authenticated())
	})

	if err := store.SetUser(testIdentity(), "tok-1"); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// Logout when already out is not a transition.
	if err := store.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	want := []bool{true, false}
	if len(seen) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d: got %v want %v", i, seen[i], want[i])
		}
	}

	cancel()
	if err := store.SetUser(testIdentity(), "tok-2"); err != nil {
		t.Fatalf("set user after cancel: %v", err)
	}
	if len(seen) != len(want) {
		t.Fatal("subscriber notified after cancel")
	}
}
