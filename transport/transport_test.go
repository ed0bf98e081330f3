package transport

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/farmaplex/farmaplex-go/internal/faketime"
	"github.com/farmaplex/farmaplex-go/notify"
	"github.com/farmaplex/farmaplex-go/session"
)

// stubRoundTripper answers every request with a fixed status and records
// what it saw.
type stubRoundTripper struct {
	mu     sync.Mutex
	status int
	reqs   []*http.Request
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	status := s.status
	s.mu.Unlock()
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}, nil
}

func (s *stubRoundTripper) last(t *testing.T) *http.Request {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		t.Fatal("no requests recorded")
	}
	return s.reqs[len(s.reqs)-1]
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingNavigator) Redirect(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingNavigator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

type fixture struct {
	transport *Transport
	base      *stubRoundTripper
	storage   *session.Memory
	notices   *notify.Recorder
	nav       *recordingNavigator
	clock     *faketime.Clock
}

func newTransportTest(t *testing.T, status int) *fixture {
	t.Helper()
	f := &fixture{
		base:    &stubRoundTripper{status: status},
		storage: session.NewMemory(),
		notices: notify.NewRecorder(),
		nav:     &recordingNavigator{},
		clock:   faketime.New(time.Unix(1700000000, 0)),
	}
	tr, err := New(Config{
		Base:          f.base,
		Storage:       f.storage,
		LoginPath:     "/login",
		RedirectDelay: 2500 * time.Millisecond,
		Notifier:      f.notices,
		Navigator:     f.nav,
		Clock:         f.clock,
	})
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	f.transport = tr
	return f
}

func doGet(t *testing.T, tr *Transport) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://api.local/productos", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return tr.RoundTrip(req)
}

func TestAttachesStoredCredentialExactly(t *testing.T) {
	f := newTransportTest(t, http.StatusOK)
	token := "eyJ.stored.token"
	if err := f.storage.SetAll(map[string]string{session.DefaultTokenKey: token}); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	resp, err := doGet(t, f.transport)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	got := f.base.last(t).Header.Get("Authorization")
	if got != "Bearer "+token {
		t.Fatalf("authorization header: %q", got)
	}
	if f.base.last(t).Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
}

func TestNoCredentialNoHeader(t *testing.T) {
	f := newTransportTest(t, http.StatusOK)

	resp, err := doGet(t, f.transport)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	if got := f.base.last(t).Header.Get("Authorization"); got != "" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
}

func TestDoesNotMutateCallerRequest(t *testing.T) {
	f := newTransportTest(t, http.StatusOK)
	if err := f.storage.SetAll(map[string]string{session.DefaultTokenKey: "tok"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, "http://api.local/ventas", nil)
	resp, err := f.transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Fatal("caller's request was mutated")
	}
}

func TestPassThroughNonAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError} {
		f := newTransportTest(t, status)
		resp, err := doGet(t, f.transport)
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
		if resp.StatusCode != status {
			t.Fatalf("status %d: got %d", status, resp.StatusCode)
		}
		resp.Body.Close()
		if f.notices.Count() != 0 || f.nav.count() != 0 {
			t.Fatalf("status %d: side effects on pass-through", status)
		}
	}
}

type failingRoundTripper struct{ err error }

func (f failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestTransportErrorPassesThroughUnchanged(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	f := newTransportTest(t, http.StatusOK)
	f.transport.cfg.Base = failingRoundTripper{err: netErr}

	_, err := doGet(t, f.transport)
	if !errors.Is(err, netErr) {
		t.Fatalf("expected base error, got %v", err)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Fatal("transport error misclassified as session expiry")
	}
	if f.notices.Count() != 0 {
		t.Fatal("notice shown for transport error")
	}
}

func TestAuthFailureSequence(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		f := newTransportTest(t, status)
		if err := f.storage.SetAll(map[string]string{
			session.DefaultTokenKey:    "stale",
			session.DefaultIdentityKey: "{}",
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}

		_, err := doGet(t, f.transport)
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("status %d: expected ErrSessionExpired, got %v", status, err)
		}

		// Storage cleared immediately, before the redirect delay elapses.
		if _, ok, _ := f.storage.Get(session.DefaultTokenKey); ok {
			t.Fatalf("status %d: stale credential still stored", status)
		}
		if _, ok, _ := f.storage.Get(session.DefaultIdentityKey); ok {
			t.Fatalf("status %d: stale identity still stored", status)
		}

		if f.notices.Count() != 1 {
			t.Fatalf("status %d: expected 1 notice, got %d", status, f.notices.Count())
		}
		if n := f.notices.Notices()[0]; n.Kind != notify.KindError || n.Duration != 2500*time.Millisecond {
			t.Fatalf("status %d: unexpected notice %+v", status, n)
		}

		// Redirect waits for the notice to be readable.
		if f.nav.count() != 0 {
			t.Fatalf("status %d: redirect fired before delay", status)
		}
		f.clock.Advance(2500 * time.Millisecond)
		if f.nav.count() != 1 || f.nav.paths[0] != "/login" {
			t.Fatalf("status %d: redirects %v", status, f.nav.paths)
		}
	}
}

func TestConcurrentAuthFailuresSingleNotice(t *testing.T) {
	f := newTransportTest(t, http.StatusUnauthorized)

	var hooks int
	f.transport.cfg.OnAuthFailure = func() { hooks++ }

	const inflight = 3
	errs := make(chan error, inflight)
	var wg sync.WaitGroup
	for i := 0; i < inflight; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := doGet(t, f.transport)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	}

	if f.notices.Count() != 1 {
		t.Fatalf("expected exactly 1 notice, got %d", f.notices.Count())
	}
	if hooks != 1 {
		t.Fatalf("expected OnAuthFailure once, got %d", hooks)
	}

	f.clock.Advance(time.Hour)
	if f.nav.count() != 1 {
		t.Fatalf("expected exactly 1 scheduled redirect, got %d", f.nav.count())
	}
}
