// Package permission maps a role name to its fixed set of dashboard
// capabilities. The table is static and compiled in: resolution is a pure
// function with no storage or network dependency, recomputed on every read
// from the current session's role.
//
// Unknown or absent roles resolve to the seller set, the most restrictive
// role in the table. Authorization always fails toward least privilege.
package permission

import "sort"

// Capability is one gated area of the dashboard.
type Capability uint8

const (
	// Dashboard is the landing view.
	Dashboard Capability = iota
	// Usuarios is user administration.
	Usuarios
	// Suscripciones is subscription management.
	Suscripciones
	// Productos is the product catalog.
	Productos
	// Ventas is sales capture and history.
	Ventas
	// Inventario is stock movements and kardex.
	Inventario
	// Reportes is reporting.
	Reportes
	// Configuracion is tenant configuration.
	Configuracion

	numCapabilities
)

var capabilityNames = [numCapabilities]string{
	Dashboard:     "dashboard",
	Usuarios:      "usuarios",
	Suscripciones: "suscripciones",
	Productos:     "productos",
	Ventas:        "ventas",
	Inventario:    "inventario",
	Reportes:      "reportes",
	Configuracion: "configuracion",
}

// String returns the capability tag used across the platform.
func (c Capability) String() string {
	if int(c) < len(capabilityNames) {
		return capabilityNames[c]
	}
	return "unknown"
}

// Parse returns the capability for a tag, or false for an unknown tag.
func Parse(tag string) (Capability, bool) {
	for c, name := range capabilityNames {
		if name == tag {
			return Capability(c), true
		}
	}
	return 0, false
}

// Set is a bitmask of capabilities. The zero Set is empty.
type Set uint16

// NewSet builds a Set from the given capabilities.
func NewSet(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s |= 1 << c
	}
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	return s&(1<<c) != 0
}

// List returns the set's capabilities in declaration order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, numCapabilities)
	for c := Capability(0); c < numCapabilities; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Tags returns the sorted capability tags in the set.
func (s Set) Tags() []string {
	caps := s.List()
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = c.String()
	}
	sort.Strings(out)
	return out
}

// Role names as the platform's role catalog defines them.
const (
	RoleAdmin      = "ADMIN"
	RoleGerente    = "GERENTE"
	RoleVendedor   = "VENDEDOR"
	RoleAlmacenero = "ALMACENERO"
)

var roleSets = map[string]Set{
	RoleAdmin: NewSet(Dashboard, Usuarios, Suscripciones, Productos,
		Ventas, Inventario, Reportes, Configuracion),
	RoleGerente: NewSet(Dashboard, Usuarios, Suscripciones, Productos,
		Ventas, Inventario, Reportes),
	RoleVendedor:   NewSet(Dashboard, Productos, Ventas, Inventario),
	RoleAlmacenero: NewSet(Dashboard, Productos, Ventas, Inventario),
}

// ForRole returns the capability set for a role name. Roles outside the
// table get the seller set, never an empty or elevated one.
func ForRole(role string) Set {
	if s, ok := roleSets[role]; ok {
		return s
	}
	return roleSets[RoleVendedor]
}

// Resolver answers capability questions for one role. It holds no state
// beyond the role name; both predicates are pure.
type Resolver struct {
	Role string
}

// Capabilities returns the role's set.
func (r Resolver) Capabilities() Set {
	return ForRole(r.Role)
}

// Can reports whether the role holds the capability.
func (r Resolver) Can(c Capability) bool {
	return ForRole(r.Role).Has(c)
}

// Denied is the negation of Can.
func (r Resolver) Denied(c Capability) bool {
	return !r.Can(c)
}
