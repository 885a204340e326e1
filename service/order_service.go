package service

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"mako/domain/book"
	"mako/domain/engine"
	"mako/infra/codec"
	"mako/infra/kafka"
	"mako/infra/outbox"
	"mako/infra/sequence"
	entrywal "mako/infra/wal/entry"
)

/*
OrderService is the ONLY write entry point into the system.

The engine is a bare sequential state machine; the mutex here is the
serialization it requires. Each command is logged to the entry WAL
before the engine sees it, and every event the engine emits flows
through the dispatcher to the log, the outbox, and the live feed.
*/
type OrderService struct {
	mu sync.Mutex

	engine   *engine.Engine
	cmdSeq   *sequence.Sequencer
	eventSeq *sequence.Sequencer
	wal      *entrywal.WAL
	outbox   *outbox.Outbox
	live     *kafka.Producer
	log      *logrus.Logger
	disp     *dispatcher
}

// Options carries the optional infrastructure. Nil fields disable the
// corresponding output; the engine itself always runs.
type Options struct {
	WAL    *entrywal.WAL
	Outbox *outbox.Outbox
	Live   *kafka.Producer
}

func New(log *logrus.Logger, opts Options) *OrderService {
	s := &OrderService{
		cmdSeq:   sequence.New(0),
		eventSeq: sequence.New(0),
		wal:      opts.WAL,
		outbox:   opts.Outbox,
		live:     opts.Live,
		log:      log,
	}
	if s.outbox != nil {
		if maxSeq, err := s.outbox.MaxSeq(); err == nil {
			s.eventSeq.Reset(maxSeq)
		}
	}
	s.disp = &dispatcher{svc: s}
	s.engine = engine.New(book.New(), s.disp)
	return s
}

// Submit runs one new order through the engine and returns the events
// it produced, in emission order, plus the command's sequence id.
func (s *OrderService) Submit(o *book.Order) ([]EventRecord, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.cmdSeq.Next()
	if s.wal != nil {
		rec := entrywal.NewRecord(entrywal.RecordSubmit, seq, codec.EncodeNewOrder(nil, o))
		if err := s.wal.Append(rec); err != nil {
			return nil, 0, fmt.Errorf("append submit: %w", err)
		}
	}

	s.disp.begin()
	s.engine.Submit(o)
	return s.disp.end(), seq, nil
}

// Cancel removes a resting order by id.
func (s *OrderService) Cancel(id uint64) ([]EventRecord, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.cmdSeq.Next()
	if s.wal != nil {
		rec := entrywal.NewRecord(entrywal.RecordCancel, seq, codec.EncodeCancelOrder(nil, id))
		if err := s.wal.Append(rec); err != nil {
			return nil, 0, fmt.Errorf("append cancel: %w", err)
		}
	}

	s.disp.begin()
	s.engine.CancelOrder(id)
	return s.disp.end(), seq, nil
}

// DepthLevel is one aggregated price level of the depth snapshot.
type DepthLevel struct {
	Price  int64 `json:"price"`
	Qty    int64 `json:"qty"`
	Orders int   `json:"orders"`
}

// Depth walks both sides best-to-worst and aggregates resting
// quantity per level. Caller gets a copy; nothing escapes the book.
func (s *OrderService) Depth() (bids, asks []DepthLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collect := func(side *book.BookSide) []DepthLevel {
		var out []DepthLevel
		side.Walk(func(lvl *book.PriceLevel) bool {
			out = append(out, DepthLevel{
				Price:  lvl.Price,
				Qty:    lvl.TotalLeaves(),
				Orders: lvl.OrderCount,
			})
			return true
		})
		return out
	}
	return collect(s.engine.Book().Bids), collect(s.engine.Book().Asks)
}

// Resting reports whether id currently rests in the book.
func (s *OrderService) Resting(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Resting(id)
}
