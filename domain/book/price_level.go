package book

// PriceLevel is a FIFO queue of resting orders at one price.
// Enqueue always appends at the tail: arrival order is the
// time-priority rule and must never be disturbed.
type PriceLevel struct {
	Price      int64
	head       *Order
	tail       *Order
	OrderCount int
}

func (p *PriceLevel) Head() *Order { return p.head }

func (p *PriceLevel) Enqueue(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	o.level = p
	p.OrderCount++
}

func (p *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	o.level = nil
	p.OrderCount--
}

// TotalLeaves sums the unfilled quantity queued at this level.
func (p *PriceLevel) TotalLeaves() int64 {
	var total int64
	for o := p.head; o != nil; o = o.next {
		total += o.Leaves()
	}
	return total
}
