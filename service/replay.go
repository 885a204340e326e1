package service

import (
	"fmt"

	"mako/infra/codec"
	entrywal "mako/infra/wal/entry"
)

/*
Replay rebuilds the book by re-running every logged command through
the engine with event publication suppressed.

IMPORTANT:
- This MUST run before accepting traffic.
- The outbox is NOT replayed; its records survive on their own.
*/
func (s *OrderService) Replay(walDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disp.replaying = true
	defer func() { s.disp.replaying = false }()

	lastSeq, err := entrywal.Replay(walDir, func(rec *entrywal.Record) error {
		switch rec.Type {
		case entrywal.RecordSubmit:
			o, ok := codec.DecodeNewOrder(rec.Data)
			if !ok {
				return fmt.Errorf("malformed submit payload at seq %d", rec.Seq)
			}
			s.engine.Submit(&o)
		case entrywal.RecordCancel:
			id, ok := codec.DecodeCancelOrder(rec.Data)
			if !ok {
				return fmt.Errorf("malformed cancel payload at seq %d", rec.Seq)
			}
			s.engine.CancelOrder(id)
		default:
			return fmt.Errorf("unknown record type %d at seq %d", rec.Type, rec.Seq)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Resume sequencing AFTER replay.
	s.cmdSeq.Reset(lastSeq)
	s.log.WithField("last_seq", lastSeq).Info("WAL replay completed")
	return nil
}
