package enum

// ── Terminal roles (terminal_role enum in DB) ──

const (
	RoleManager = "MANAGER"
	RoleCounter = "COUNTER"
	RoleKitchen = "KITCHEN"
)

// ── Defaults ──

const (
	DefaultTableCapacity = 4
	DefaultPrepMinutes   = 15
)

// ── Number prefixes ──

const (
	OrderNumberPrefix = "ORD"
	BillNumberPrefix  = "BILL"
)
