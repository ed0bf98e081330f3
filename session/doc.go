// Package session owns the authenticated identity of a FarmaPlex client.
//
// A [Store] is the single source of truth for "who is logged in". Durable
// storage (a [Storage] backend) is a synchronized mirror of the in-memory
// state, never a second owner: every mutation writes through atomically, and
// Initialize reconciles from the mirror before the session is considered
// known. Malformed or partial storage content is treated as "no session" and
// scrubbed, so partial state never survives a restart.
//
// Three backends ship with the package: [Memory] for tests and ephemeral
// use, [Bolt] for single-workstation deployments (a local bbolt file), and
// [Redis] for shared-terminal deployments where several kiosks present one
// operator session.
package session
