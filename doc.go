// Package farmaplex is the session core for FarmaPlex terminal clients.
// It owns the authenticated session's whole lifecycle: durable storage of
// the credential and identity, credential attachment and expiry detection
// on every API call, an inactivity watchdog, a route guard for the settle
// window after startup, and role-based capability resolution.
//
// Build a client with the builder:
//
//	fp, err := farmaplex.New().
//		WithStorage(store).
//		WithBaseURL("https://api.farmaplex.pe/api").
//		Build()
//
// then drive it through Login, Logout, and the typed API services under
// fp.API(). Everything in between (credential headers, 401 handling, idle
// expiry, the redirect to the login route) happens inside.
package farmaplex
