package book

// BookSide holds the resting orders of one side, best price first.
// The ordering predicate is bound once at construction, so "better
// price" is a property of the side, not a branch in the hot path.
type BookSide struct {
	side   Side
	levels *rbTree
	better better
}

func NewSide(side Side) *BookSide {
	pred := better(func(a, b int64) bool { return a < b })
	if side == Buy {
		pred = func(a, b int64) bool { return a > b }
	}
	return &BookSide{
		side:   side,
		levels: newRBTree(pred),
		better: pred,
	}
}

func (s *BookSide) Side() Side  { return s.side }
func (s *BookSide) Empty() bool { return s.levels.Size() == 0 }
func (s *BookSide) Levels() int { return s.levels.Size() }

// Best returns the resting order with the best price, oldest first at
// that price, or nil when the side is empty.
func (s *BookSide) Best() *Order {
	lvl := s.levels.BestLevel()
	if lvl == nil {
		return nil
	}
	return lvl.head
}

// Insert queues the order behind all existing entries at its price.
func (s *BookSide) Insert(o *Order) {
	s.levels.UpsertLevel(o.Price).Enqueue(o)
}

// Remove unlinks a resting order. The caller must only remove orders
// it previously inserted into this side.
func (s *BookSide) Remove(o *Order) {
	lvl := o.level
	lvl.unlink(o)
	if lvl.head == nil {
		s.levels.DeleteLevel(lvl.Price)
	}
}

// Crosses reports whether the taker can trade against this side's
// best resting order. A market taker crosses whenever the side is
// non-empty; a limit taker crosses unless its own price is strictly
// better (for this side's ordering) than the best resting price.
func (s *BookSide) Crosses(taker *Order) bool {
	best := s.levels.BestLevel()
	if best == nil {
		return false
	}
	return taker.Type == Market || !s.better(taker.Price, best.Price)
}

// Walk visits price levels from best to worst until fn returns false.
func (s *BookSide) Walk(fn func(*PriceLevel) bool) {
	s.levels.ForEachBestFirst(fn)
}

// Book pairs the two sides of a single instrument.
type Book struct {
	Bids *BookSide
	Asks *BookSide
}

func New() *Book {
	return &Book{
		Bids: NewSide(Buy),
		Asks: NewSide(Sell),
	}
}

// SideOf returns the side orders of s rest on.
func (b *Book) SideOf(s Side) *BookSide {
	if s == Buy {
		return b.Bids
	}
	return b.Asks
}

// Opposite returns the side a taker of s matches against.
func (b *Book) Opposite(s Side) *BookSide {
	return b.SideOf(s.Opposite())
}
