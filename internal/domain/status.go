package domain

// Diner-facing order lifecycle. The back office tracks orders with a
// payment-centric vocabulary (PAID, REFUNDED); those map onto this set
// through NormalizeStatus rather than being treated as equivalent.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// NormalizeStatus maps a server-reported status onto the diner lifecycle.
// Unknown values pass through unchanged so a new server status degrades to
// "not active, not terminal" instead of being misclassified.
func NormalizeStatus(status string) string {
	switch status {
	case "PAID":
		return StatusConfirmed
	case "REFUNDED":
		return StatusCancelled
	default:
		return status
	}
}

// IsActiveStatus reports whether an order still demands the diner's
// attention (shown in the "current order" panel).
func IsActiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusPending, StatusConfirmed, StatusPreparing:
		return true
	}
	return false
}

// IsTerminalStatus reports whether an order reached a final state.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
