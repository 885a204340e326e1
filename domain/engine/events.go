package engine

// Reject reasons. These strings are part of the wire contract with
// downstream consumers; do not reword them.
const (
	ReasonIDExists    = "Id already exists"
	ReasonNoLiquidity = "Not enough liquidity"
	ReasonIDNotFound  = "Id not found"
)

// Fill reports one participant's side of a single match. Every match
// produces exactly two fills: the resting order's first, then the
// taker's, both at the resting price.
type Fill struct {
	OrderID uint64
	Qty     int64
	Price   int64
}

type Reject struct {
	OrderID uint64
	Reason  string
}

type Cancel struct {
	OrderID uint64
}

type OrderAck struct {
	OrderID uint64
}

// Hub receives every event the engine emits, synchronously and in
// emission order. All notifications for one request are delivered
// before the engine returns, so a hub never sees two requests
// interleaved.
type Hub interface {
	Fill(Fill)
	Reject(Reject)
	Cancel(Cancel)
	Ack(OrderAck)
}

// NopHub discards everything. Useful when replaying a command log
// whose events were already published the first time around.
type NopHub struct{}

func (NopHub) Fill(Fill)     {}
func (NopHub) Reject(Reject) {}
func (NopHub) Cancel(Cancel) {}
func (NopHub) Ack(OrderAck)  {}
