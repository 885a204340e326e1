package book

import "testing"

func limit(id uint64, side Side, price, qty int64) *Order {
	return &Order{ID: id, Side: side, Type: Limit, Price: price, Qty: qty}
}

func TestBestBidIsHighestPrice(t *testing.T) {
	bids := NewSide(Buy)
	bids.Insert(limit(1, Buy, 100, 5))
	bids.Insert(limit(2, Buy, 102, 5))
	bids.Insert(limit(3, Buy, 101, 5))

	if best := bids.Best(); best == nil || best.Price != 102 {
		t.Fatalf("best bid should be 102, got %+v", best)
	}
}

func TestBestAskIsLowestPrice(t *testing.T) {
	asks := NewSide(Sell)
	asks.Insert(limit(1, Sell, 100, 5))
	asks.Insert(limit(2, Sell, 98, 5))
	asks.Insert(limit(3, Sell, 99, 5))

	if best := asks.Best(); best == nil || best.Price != 98 {
		t.Fatalf("best ask should be 98, got %+v", best)
	}
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	asks := NewSide(Sell)
	asks.Insert(limit(1, Sell, 100, 5))
	asks.Insert(limit(2, Sell, 100, 5))
	asks.Insert(limit(3, Sell, 100, 5))

	want := []uint64{1, 2, 3}
	o := asks.Best()
	for i, id := range want {
		if o == nil || o.ID != id {
			t.Fatalf("position %d: want order %d, got %+v", i, id, o)
		}
		o = o.Next()
	}
	if o != nil {
		t.Fatal("level should hold exactly three orders")
	}
}

func TestFIFOSurvivesSiblingRemoval(t *testing.T) {
	bids := NewSide(Buy)
	a := limit(1, Buy, 100, 5)
	b := limit(2, Buy, 100, 5)
	c := limit(3, Buy, 100, 5)
	bids.Insert(a)
	bids.Insert(b)
	bids.Insert(c)

	bids.Remove(b)

	if best := bids.Best(); best != a {
		t.Fatalf("head should still be order 1, got %+v", best)
	}
	if next := a.Next(); next != c {
		t.Fatalf("order 3 should follow order 1, got %+v", next)
	}
}

func TestRemoveLastOrderDeletesLevel(t *testing.T) {
	bids := NewSide(Buy)
	o := limit(1, Buy, 100, 5)
	bids.Insert(o)
	bids.Insert(limit(2, Buy, 99, 5))

	bids.Remove(o)

	if bids.Levels() != 1 {
		t.Fatalf("expected 1 level left, got %d", bids.Levels())
	}
	if best := bids.Best(); best == nil || best.Price != 99 {
		t.Fatalf("best should fall back to 99, got %+v", best)
	}
}

func TestCrossesBuyLimitAgainstAsks(t *testing.T) {
	asks := NewSide(Sell)
	asks.Insert(limit(1, Sell, 100, 5))

	cases := []struct {
		price int64
		want  bool
	}{
		{99, false},
		{100, true},
		{101, true},
	}
	for _, tc := range cases {
		taker := limit(9, Buy, tc.price, 5)
		if got := asks.Crosses(taker); got != tc.want {
			t.Errorf("buy limit %d vs ask 100: crosses=%v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestCrossesSellLimitAgainstBids(t *testing.T) {
	bids := NewSide(Buy)
	bids.Insert(limit(1, Buy, 100, 5))

	cases := []struct {
		price int64
		want  bool
	}{
		{101, false},
		{100, true},
		{99, true},
	}
	for _, tc := range cases {
		taker := limit(9, Sell, tc.price, 5)
		if got := bids.Crosses(taker); got != tc.want {
			t.Errorf("sell limit %d vs bid 100: crosses=%v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestMarketAlwaysCrossesNonEmptySide(t *testing.T) {
	asks := NewSide(Sell)
	taker := &Order{ID: 9, Side: Buy, Type: Market, Qty: 5}

	if asks.Crosses(taker) {
		t.Fatal("market order must not cross an empty side")
	}
	asks.Insert(limit(1, Sell, 1_000_000, 5))
	if !asks.Crosses(taker) {
		t.Fatal("market order must cross any non-empty side")
	}
}

func TestWalkBestFirst(t *testing.T) {
	asks := NewSide(Sell)
	for _, p := range []int64{105, 101, 103, 102, 104} {
		asks.Insert(limit(uint64(p), Sell, p, 1))
	}

	var got []int64
	asks.Walk(func(lvl *PriceLevel) bool {
		got = append(got, lvl.Price)
		return true
	})

	want := []int64{101, 102, 103, 104, 105}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk order %v, want %v", got, want)
		}
	}
}

func TestLevelTotalLeaves(t *testing.T) {
	bids := NewSide(Buy)
	a := limit(1, Buy, 100, 10)
	a.CumQty = 4
	bids.Insert(a)
	bids.Insert(limit(2, Buy, 100, 7))

	lvl := bids.Best()
	if total := lvlOf(lvl).TotalLeaves(); total != 13 {
		t.Fatalf("level leaves = %d, want 13", total)
	}
}

func lvlOf(o *Order) *PriceLevel { return o.level }

func TestManyLevelsInsertDelete(t *testing.T) {
	// Exercise tree rebalancing across a spread of prices.
	asks := NewSide(Sell)
	orders := make([]*Order, 0, 64)
	for i := int64(0); i < 64; i++ {
		price := (i*37)%64 + 1
		o := limit(uint64(i+1), Sell, price, 1)
		asks.Insert(o)
		orders = append(orders, o)
	}
	if asks.Levels() != 64 {
		t.Fatalf("expected 64 levels, got %d", asks.Levels())
	}

	for _, o := range orders {
		if asks.Best() == nil {
			t.Fatal("side emptied early")
		}
		asks.Remove(o)
	}
	if !asks.Empty() {
		t.Fatal("side should be empty after removing everything")
	}
}
