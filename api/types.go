package api

// Wire types for the FarmaPlex REST contract. JSON field names are the
// backend's (Spanish) names; Go names follow the SDK's conventions.

// TokenResponse is the payload of a successful login or registration. It
// carries both the credential and the identity it belongs to.
type TokenResponse struct {
	ID     int64  `json:"id,omitempty"`
	Token  string `json:"token"`
	Type   string `json:"tipo"`
	UserID int64  `json:"usuarioId"`
	Email  string `json:"email"`
	Name   string `json:"nombre"`
	Role   string `json:"rol"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contraseña"`
}

// User is a platform account.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"nombre"`
	Password  string `json:"contraseña,omitempty"`
	RoleName  string `json:"rolNombre"`
	Active    *bool  `json:"activo,omitempty"`
	TenantID  string `json:"tenantId"`
	LastLogin string `json:"ultimoLogin,omitempty"`
}

// Product is a catalog item with its stock levels.
type Product struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"nombre"`
	Barcode      string  `json:"codigoBarras"`
	Category     string  `json:"categoria"`
	CurrentStock int     `json:"stockActual"`
	MinStock     int     `json:"stockMinimo"`
	MaxStock     int     `json:"stockMaximo"`
	UnitCost     float64 `json:"costoUnitario"`
	SalePrice    float64 `json:"precioVenta"`
	ExpiryDate   string  `json:"fechaVencimiento,omitempty"`
	Batch        string  `json:"lote,omitempty"`
	Active       *bool   `json:"activo,omitempty"`
	TenantID     string  `json:"tenantId"`
}

// Sale status and payment method values the backend accepts.
const (
	SaleCompleted = "COMPLETADA"
	PaymentCash   = "EFECTIVO"
)

// SaleLine is one product line inside a sale.
type SaleLine struct {
	ID        int64   `json:"id,omitempty"`
	ProductID int64   `json:"productoId"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
	Subtotal  float64 `json:"subtotal,omitempty"`
}

// Sale is a completed or pending sale with its line items.
type Sale struct {
	ID            int64      `json:"id,omitempty"`
	VendorID      int64      `json:"vendedorId"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"metodoPago"`
	Status        string     `json:"estado"`
	TenantID      string     `json:"tenantId"`
	Lines         []SaleLine `json:"detalles"`
}

// Subscription is a tenant's billing subscription.
type Subscription struct {
	ID              int64   `json:"id,omitempty"`
	PrincipalUserID int64   `json:"usuarioPrincipalId"`
	PlanID          string  `json:"planId"`
	MonthlyPrice    float64 `json:"precioMensual"`
	PreapprovalID   string  `json:"preapprovalId,omitempty"`
	Status          string  `json:"estado"`
	PaymentMethod   string  `json:"metodoPago,omitempty"`
	CardLast4       string  `json:"ultimos4Digitos,omitempty"`
}

// Stock movement types.
const (
	MovementEntry  = "ENTRADA"
	MovementExit   = "SALIDA"
	MovementAdjust = "AJUSTE"
	MovementReturn = "DEVOLUCION"
)

// StockMovement records one inventory change.
type StockMovement struct {
	ID          int64  `json:"id,omitempty"`
	ProductID   int64  `json:"productoId"`
	Type        string `json:"tipo"`
	Quantity    int    `json:"cantidad"`
	Description string `json:"descripcion"`
	Reference   string `json:"referencia,omitempty"`
	UserID      int64  `json:"usuarioId,omitempty"`
	TenantID    string `json:"tenantId"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Kardex is the movement history of one product together with its current
// stock levels.
type Kardex struct {
	ProductID    int64           `json:"productoId"`
	ProductName  string          `json:"productoNombre,omitempty"`
	Movements    []StockMovement `json:"movimientos"`
	CurrentStock int             `json:"stockActual"`
	MinStock     int             `json:"stockMinimo"`
	MaxStock     int             `json:"stockMaximo"`
}

// Role is an entry in the platform's role catalog.
type Role struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

// Supplier is a product supplier.
type Supplier struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"nombre"`
	RUC      string `json:"ruc"`
	Phone    string `json:"telefono,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"direccion,omitempty"`
	Active   *bool  `json:"activo,omitempty"`
	TenantID string `json:"tenantId"`
}
