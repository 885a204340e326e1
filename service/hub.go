package service

import (
	"context"
	"encoding/binary"

	"github.com/sirupsen/logrus"

	"mako/domain/engine"
	"mako/infra/codec"
)

// EventRecord is the caller-facing shape of one engine event, in
// emission order. Zero-valued optional fields are dropped from JSON.
type EventRecord struct {
	Type    string `json:"type"`
	OrderID uint64 `json:"order_id"`
	Qty     int64  `json:"qty,omitempty"`
	Price   int64  `json:"price,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// dispatcher is the single engine.Hub of the service. For each event
// it collects the caller's copy, logs it, and publishes it: durably
// into the outbox under the next event seq, and fire-and-forget onto
// the live topic. During WAL replay all of that is suppressed; the
// events already went out the first time.
//
// The dispatcher is only ever touched under the service mutex.
type dispatcher struct {
	svc       *OrderService
	collected []EventRecord
	replaying bool
}

func (d *dispatcher) begin() {
	d.collected = d.collected[:0]
}

func (d *dispatcher) end() []EventRecord {
	out := make([]EventRecord, len(d.collected))
	copy(out, d.collected)
	return out
}

func (d *dispatcher) Fill(f engine.Fill) {
	if d.replaying {
		return
	}
	d.collected = append(d.collected, EventRecord{
		Type:    codec.KindFill.String(),
		OrderID: f.OrderID,
		Qty:     f.Qty,
		Price:   f.Price,
	})
	d.svc.log.WithFields(logrus.Fields{
		"order_id": f.OrderID,
		"qty":      f.Qty,
		"price":    f.Price,
	}).Info("fill")
	d.publish(f.OrderID, codec.EncodeFill(nil, f))
}

func (d *dispatcher) Reject(r engine.Reject) {
	if d.replaying {
		return
	}
	d.collected = append(d.collected, EventRecord{
		Type:    codec.KindReject.String(),
		OrderID: r.OrderID,
		Reason:  r.Reason,
	})
	d.svc.log.WithFields(logrus.Fields{
		"order_id": r.OrderID,
		"reason":   r.Reason,
	}).Info("reject")
	d.publish(r.OrderID, codec.EncodeReject(nil, r))
}

func (d *dispatcher) Cancel(c engine.Cancel) {
	if d.replaying {
		return
	}
	d.collected = append(d.collected, EventRecord{
		Type:    codec.KindCancel.String(),
		OrderID: c.OrderID,
	})
	d.svc.log.WithField("order_id", c.OrderID).Info("cancel")
	d.publish(c.OrderID, codec.EncodeCancel(nil, c))
}

func (d *dispatcher) Ack(a engine.OrderAck) {
	if d.replaying {
		return
	}
	d.collected = append(d.collected, EventRecord{
		Type:    codec.KindAck.String(),
		OrderID: a.OrderID,
	})
	d.svc.log.WithField("order_id", a.OrderID).Info("order ack")
	d.publish(a.OrderID, codec.EncodeAck(nil, a))
}

func (d *dispatcher) publish(orderID uint64, payload []byte) {
	s := d.svc
	if s.outbox != nil {
		seq := s.eventSeq.Next()
		if err := s.outbox.Append(seq, payload); err != nil {
			s.log.WithError(err).WithField("seq", seq).Error("outbox append failed")
		}
	}
	if s.live != nil {
		// Key by order id so one order's events share a partition.
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, orderID)
		if err := s.live.Send(context.Background(), key, payload); err != nil {
			s.log.WithError(err).Error("live publish failed")
		}
	}
}
