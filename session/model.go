package session

// Identity is the non-secret profile of the logged-in user, as returned by
// the platform's login and registration endpoints. JSON field names follow
// the FarmaPlex wire contract.
type Identity struct {
	UserID int64  `json:"usuarioId"`
	Email  string `json:"email"`
	Name   string `json:"nombre"`
	Role   string `json:"rol"`
}

func (i Identity) isZero() bool {
	return i.UserID == 0 && i.Email == "" && i.Name == "" && i.Role == ""
}

// Session combines the bearer credential with the identity it belongs to.
// The zero value is the logged-out state.
type Session struct {
	Token    string
	Identity Identity
}

// Authenticated reports whether both credential and identity are present.
// This is the only definition of "logged in" in the client; partial state
// is never authenticated.
func (s Session) Authenticated() bool {
	return s.Token != "" && !s.Identity.isZero()
}
