package book

type Side int
type OrderType int

const (
	Buy Side = iota
	Sell
)

const (
	Limit OrderType = iota
	Market
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the side a taker order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (t OrderType) String() string {
	if t == Market {
		return "market"
	}
	return "limit"
}

// Order is a single request to trade. Qty is fixed at submission;
// only CumQty moves, and only inside the engine's fill step.
type Order struct {
	ID     uint64
	Side   Side
	Type   OrderType
	Price  int64
	Qty    int64
	CumQty int64

	// Intrusive FIFO links, owned by the price level the order rests in.
	next  *Order
	prev  *Order
	level *PriceLevel
}

// Leaves is the quantity still seeking a match or rest.
func (o *Order) Leaves() int64 { return o.Qty - o.CumQty }

// Next returns the order queued behind o at the same price level.
func (o *Order) Next() *Order { return o.next }
