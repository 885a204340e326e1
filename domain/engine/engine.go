package engine

import "mako/domain/book"

/*
Engine is the matching core: a sequential state machine that drives
each submitted order against the opposite side of the book under
price-time priority and reports every outcome through the hub.

It owns no locks and no goroutines. Callers that want concurrent
intake must serialize in front of it (see service.OrderService).
*/
type Engine struct {
	book *book.Book
	ids  map[uint64]*book.Order
	hub  Hub
}

func New(b *book.Book, hub Hub) *Engine {
	return &Engine{
		book: b,
		ids:  make(map[uint64]*book.Order),
		hub:  hub,
	}
}

func (e *Engine) Book() *book.Book { return e.book }

// Resting reports whether an order with this id currently rests in
// the book. The id index holds exactly the resting orders: rejected
// submissions never enter it, consumed and cancelled orders leave it
// the moment they leave the book.
func (e *Engine) Resting(id uint64) bool {
	_, ok := e.ids[id]
	return ok
}

// Submit runs a new order to its terminal disposition: fully filled,
// resting (limit), or cancelled remainder (market). The order value
// is mutated in place (CumQty) and, for a resting limit order, is
// retained by the book, so the caller must not reuse it.
func (e *Engine) Submit(o *book.Order) {
	if _, ok := e.ids[o.ID]; ok {
		e.hub.Reject(Reject{OrderID: o.ID, Reason: ReasonIDExists})
		return
	}

	o.CumQty = 0

	opp := e.book.Opposite(o.Side)
	if o.Type == book.Market && opp.Empty() {
		e.hub.Reject(Reject{OrderID: o.ID, Reason: ReasonNoLiquidity})
		return
	}

	for o.Leaves() > 0 && e.matchOne(o, opp) {
	}

	if o.Leaves() == 0 {
		return
	}
	switch o.Type {
	case book.Limit:
		e.book.SideOf(o.Side).Insert(o)
		e.ids[o.ID] = o
		e.hub.Ack(OrderAck{OrderID: o.ID})
	case book.Market:
		// A market order that exhausts the book mid-loop cancels its
		// remainder; only the empty-book case at entry is a reject.
		e.hub.Cancel(Cancel{OrderID: o.ID})
	}
}

// CancelOrder removes a resting order. Ids that never rested, already
// filled, or were already cancelled are indistinguishable here: all
// reject with "Id not found".
func (e *Engine) CancelOrder(id uint64) {
	o, ok := e.ids[id]
	if !ok {
		e.hub.Reject(Reject{OrderID: id, Reason: ReasonIDNotFound})
		return
	}
	e.book.SideOf(o.Side).Remove(o)
	delete(e.ids, id)
	e.hub.Cancel(Cancel{OrderID: id})
}

// matchOne attempts a single trade against the opposite side's best
// resting order. The trade always prints at the resting price.
func (e *Engine) matchOne(taker *book.Order, opp *book.BookSide) bool {
	if !opp.Crosses(taker) {
		return false
	}
	resting := opp.Best()

	qty := min(taker.Leaves(), resting.Leaves())
	e.fill(resting, qty, resting.Price)
	e.fill(taker, qty, resting.Price)

	if resting.Leaves() == 0 {
		opp.Remove(resting)
		delete(e.ids, resting.ID)
	}
	return true
}

func (e *Engine) fill(o *book.Order, qty, price int64) {
	o.CumQty += qty
	e.hub.Fill(Fill{OrderID: o.ID, Qty: qty, Price: price})
}
