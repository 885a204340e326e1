package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mako/domain/book"
)

// recordingHub captures every notification in emission order so tests
// can assert the exact event sequence per request.
type recordingHub struct {
	events []any
}

func (h *recordingHub) Fill(f Fill)     { h.events = append(h.events, f) }
func (h *recordingHub) Reject(r Reject) { h.events = append(h.events, r) }
func (h *recordingHub) Cancel(c Cancel) { h.events = append(h.events, c) }
func (h *recordingHub) Ack(a OrderAck)  { h.events = append(h.events, a) }

func (h *recordingHub) drain() []any {
	out := h.events
	h.events = nil
	return out
}

func newTestEngine() (*Engine, *recordingHub) {
	hub := &recordingHub{}
	return New(book.New(), hub), hub
}

func submit(e *Engine, id uint64, side book.Side, typ book.OrderType, price, qty int64) *book.Order {
	o := &book.Order{ID: id, Side: side, Type: typ, Price: price, Qty: qty}
	e.Submit(o)
	return o
}

func TestLimitOrderRestsWithAck(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Buy, book.Limit, 123, 100)
	require.Equal(t, []any{OrderAck{OrderID: 1}}, hub.drain())
	assert.True(t, e.Resting(1))

	submit(e, 2, book.Sell, book.Limit, 132, 100)
	require.Equal(t, []any{OrderAck{OrderID: 2}}, hub.drain())
	assert.True(t, e.Resting(2))
}

func TestDuplicateIDRejectedWithoutSideEffects(t *testing.T) {
	e, hub := newTestEngine()
	resting := submit(e, 1, book.Sell, book.Limit, 50, 100)
	hub.drain()

	// Same id, crossing price: must reject before any matching runs.
	submit(e, 1, book.Buy, book.Limit, 60, 100)

	require.Equal(t, []any{Reject{OrderID: 1, Reason: ReasonIDExists}}, hub.drain())
	assert.True(t, e.Resting(1))
	assert.Zero(t, resting.CumQty, "resting order must be untouched by a rejected duplicate")
	assert.Equal(t, int64(100), resting.Leaves())
}

func TestMarketOrderRejectedOnEmptyOppositeSide(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Sell, book.Limit, 50, 100)
	hub.drain()

	// No resting buys: a sell market order has nothing to hit.
	submit(e, 2, book.Sell, book.Market, 0, 100)

	require.Equal(t, []any{Reject{OrderID: 2, Reason: ReasonNoLiquidity}}, hub.drain())
	assert.False(t, e.Resting(2))
}

func TestAggressorTradesAtRestingPrice(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Sell, book.Limit, 50, 100)
	hub.drain()

	// Buy limit at 51 crosses the ask at 50: both fills print at 50,
	// resting participant first. The 100 leaves rest at 51.
	taker := submit(e, 3, book.Buy, book.Limit, 51, 200)

	require.Equal(t, []any{
		Fill{OrderID: 1, Qty: 100, Price: 50},
		Fill{OrderID: 3, Qty: 100, Price: 50},
		OrderAck{OrderID: 3},
	}, hub.drain())

	assert.Equal(t, int64(100), taker.Leaves())
	assert.True(t, e.Resting(3))
	assert.False(t, e.Resting(1), "consumed order must leave the index")
}

func TestMarketOrderSweepsByPricePriority(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 11, book.Buy, book.Limit, 123, 40)
	submit(e, 12, book.Buy, book.Limit, 130, 60)
	hub.drain()

	// Better-priced bid 130 goes first, then 123; taker fully fills
	// so no terminal event follows the fills.
	submit(e, 2, book.Sell, book.Market, 0, 100)

	require.Equal(t, []any{
		Fill{OrderID: 12, Qty: 60, Price: 130},
		Fill{OrderID: 2, Qty: 60, Price: 130},
		Fill{OrderID: 11, Qty: 40, Price: 123},
		Fill{OrderID: 2, Qty: 40, Price: 123},
	}, hub.drain())

	assert.False(t, e.Resting(11))
	assert.False(t, e.Resting(12))
	assert.False(t, e.Resting(2))
}

func TestTimePriorityWithinPriceLevel(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Sell, book.Limit, 100, 30)
	submit(e, 2, book.Sell, book.Limit, 100, 30)
	hub.drain()

	// Order 1 arrived first and must be exhausted before order 2
	// trades at the same price.
	submit(e, 3, book.Buy, book.Limit, 100, 40)

	require.Equal(t, []any{
		Fill{OrderID: 1, Qty: 30, Price: 100},
		Fill{OrderID: 3, Qty: 30, Price: 100},
		Fill{OrderID: 2, Qty: 10, Price: 100},
		Fill{OrderID: 3, Qty: 10, Price: 100},
	}, hub.drain())
}

func TestMarketRemainderCancelledAfterPartialFill(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Buy, book.Limit, 100, 60)
	hub.drain()

	// Liquidity exists at entry but runs out mid-loop: the remainder
	// cancels, it does not reject.
	m := submit(e, 2, book.Sell, book.Market, 0, 100)

	require.Equal(t, []any{
		Fill{OrderID: 1, Qty: 60, Price: 100},
		Fill{OrderID: 2, Qty: 60, Price: 100},
		Cancel{OrderID: 2},
	}, hub.drain())

	assert.Equal(t, int64(60), m.CumQty)
	assert.False(t, e.Resting(2), "market orders never rest")
}

func TestLimitOrderDoesNotCrossWorsePrice(t *testing.T) {
	e, hub := newTestEngine()

	submit(e, 1, book.Sell, book.Limit, 100, 50)
	hub.drain()

	// Buy at 99 is below the best ask: no trade, rests on the bid side.
	submit(e, 2, book.Buy, book.Limit, 99, 50)

	require.Equal(t, []any{OrderAck{OrderID: 2}}, hub.drain())
	assert.True(t, e.Resting(1))
	assert.True(t, e.Resting(2))
}

func TestCancelRestingOrder(t *testing.T) {
	e, hub := newTestEngine()
	submit(e, 1, book.Buy, book.Limit, 100, 50)
	hub.drain()

	e.CancelOrder(1)
	require.Equal(t, []any{Cancel{OrderID: 1}}, hub.drain())
	assert.False(t, e.Resting(1))

	// Second cancel of the same id: the order is simply unknown now.
	e.CancelOrder(1)
	require.Equal(t, []any{Reject{OrderID: 1, Reason: ReasonIDNotFound}}, hub.drain())
}

func TestCancelWorksOnBothSides(t *testing.T) {
	e, hub := newTestEngine()
	submit(e, 1, book.Buy, book.Limit, 100, 10)
	submit(e, 2, book.Sell, book.Limit, 200, 10)
	hub.drain()

	e.CancelOrder(2)
	require.Equal(t, []any{Cancel{OrderID: 2}}, hub.drain())
	e.CancelOrder(1)
	require.Equal(t, []any{Cancel{OrderID: 1}}, hub.drain())

	assert.True(t, e.Book().Bids.Empty())
	assert.True(t, e.Book().Asks.Empty())
}

func TestCancelFullyFilledOrderNotFound(t *testing.T) {
	e, hub := newTestEngine()
	submit(e, 1, book.Sell, book.Limit, 50, 100)
	submit(e, 2, book.Buy, book.Limit, 50, 100)
	hub.drain()

	e.CancelOrder(1)
	require.Equal(t, []any{Reject{OrderID: 1, Reason: ReasonIDNotFound}}, hub.drain())
	assert.True(t, e.Book().Bids.Empty())
	assert.True(t, e.Book().Asks.Empty())
}

func TestCancelledIDCanBeReused(t *testing.T) {
	e, hub := newTestEngine()
	submit(e, 1, book.Buy, book.Limit, 100, 10)
	hub.drain()
	e.CancelOrder(1)
	hub.drain()

	// The id left the index with the cancel, so resubmission is a
	// fresh order, not a duplicate.
	submit(e, 1, book.Buy, book.Limit, 101, 10)
	require.Equal(t, []any{OrderAck{OrderID: 1}}, hub.drain())
}

func TestRejectedDuplicateNeverCancellable(t *testing.T) {
	e, hub := newTestEngine()
	submit(e, 1, book.Buy, book.Limit, 100, 10)
	hub.drain()
	submit(e, 1, book.Sell, book.Limit, 200, 10)
	hub.drain()

	// Only the original rests; cancelling removes it from the bid
	// side, and the rejected duplicate left no trace to cancel.
	e.CancelOrder(1)
	require.Equal(t, []any{Cancel{OrderID: 1}}, hub.drain())
	assert.True(t, e.Book().Asks.Empty())

	e.CancelOrder(1)
	require.Equal(t, []any{Reject{OrderID: 1, Reason: ReasonIDNotFound}}, hub.drain())
}

func TestQuantityConservation(t *testing.T) {
	e, hub := newTestEngine()

	makers := []*book.Order{
		submit(e, 1, book.Sell, book.Limit, 100, 30),
		submit(e, 2, book.Sell, book.Limit, 101, 30),
		submit(e, 3, book.Sell, book.Limit, 102, 30),
	}
	hub.drain()

	taker := submit(e, 4, book.Buy, book.Limit, 101, 70)

	var traded int64
	for _, ev := range hub.drain() {
		if f, ok := ev.(Fill); ok && f.OrderID == 4 {
			traded += f.Qty
		}
	}
	require.Equal(t, int64(60), traded)

	var cum int64
	for _, o := range append(makers, taker) {
		assert.LessOrEqual(t, o.CumQty, o.Qty)
		cum += o.CumQty
	}
	assert.Equal(t, 2*traded, cum, "each traded unit fills exactly two orders")
}

func TestCumQtyResetOnSubmit(t *testing.T) {
	e, hub := newTestEngine()

	// A caller-populated CumQty must be ignored.
	o := &book.Order{ID: 1, Side: book.Buy, Type: book.Limit, Price: 100, Qty: 10, CumQty: 7}
	e.Submit(o)

	require.Equal(t, []any{OrderAck{OrderID: 1}}, hub.drain())
	assert.Zero(t, o.CumQty)
	assert.Equal(t, int64(10), o.Leaves())
}
