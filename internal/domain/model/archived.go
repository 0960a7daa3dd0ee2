package model

// ArchivedOrder is a verbatim copy of a terminal Order retired from the
// active store, kept under the same id for audit.
type ArchivedOrder Order

// Archived produces the archive copy of an order.
func (o Order) Archived() ArchivedOrder {
	return ArchivedOrder(o)
}
