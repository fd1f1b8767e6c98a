package order

// transitions is the authoritative state graph for Order.Status. A
// status missing from a target list is unreachable from that source.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether moving an order from one status to
// another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RestocksOnTransition reports whether the transition must return the
// order's line quantities to product stock as a compensating action.
// Only cancellation before shipment restocks; a shipped order has left
// the warehouse.
func RestocksOnTransition(from, to OrderStatus) bool {
	if to != StatusCancelled {
		return false
	}
	return from == StatusPending || from == StatusConfirmed
}

// IsTerminal reports whether no further transitions exist.
func IsTerminal(s OrderStatus) bool {
	return len(transitions[s]) == 0
}
