package codec

import (
	"encoding/binary"

	"mako/domain/engine"
)

// EventKind tags an encoded event payload.
type EventKind uint8

const (
	KindFill EventKind = iota + 1
	KindReject
	KindCancel
	KindAck
)

func (k EventKind) String() string {
	switch k {
	case KindFill:
		return "fill"
	case KindReject:
		return "reject"
	case KindCancel:
		return "cancel"
	case KindAck:
		return "order_ack"
	default:
		return "unknown"
	}
}

// Reject reasons travel as one byte. The set is closed: the engine
// emits exactly these three strings.
const (
	reasonCodeIDExists    uint8 = 1
	reasonCodeNoLiquidity uint8 = 2
	reasonCodeIDNotFound  uint8 = 3
)

const (
	FillPayloadSize   = 25
	RejectPayloadSize = 10
	CancelPayloadSize = 9
	AckPayloadSize    = 9
)

// Kind returns the kind tag of an encoded event payload.
func Kind(payload []byte) EventKind {
	if len(payload) == 0 {
		return 0
	}
	return EventKind(payload[0])
}

// EncodeFill serializes a fill event.
// Layout: [kind:1][orderID:8][qty:8][price:8]
func EncodeFill(dst []byte, f engine.Fill) []byte {
	if cap(dst) < FillPayloadSize {
		dst = make([]byte, FillPayloadSize)
	} else {
		dst = dst[:FillPayloadSize]
	}
	dst[0] = byte(KindFill)
	binary.LittleEndian.PutUint64(dst[1:9], f.OrderID)
	binary.LittleEndian.PutUint64(dst[9:17], uint64(f.Qty))
	binary.LittleEndian.PutUint64(dst[17:25], uint64(f.Price))
	return dst
}

// DecodeFill parses a fill event payload.
func DecodeFill(src []byte) (engine.Fill, bool) {
	if len(src) < FillPayloadSize || Kind(src) != KindFill {
		return engine.Fill{}, false
	}
	return engine.Fill{
		OrderID: binary.LittleEndian.Uint64(src[1:9]),
		Qty:     int64(binary.LittleEndian.Uint64(src[9:17])),
		Price:   int64(binary.LittleEndian.Uint64(src[17:25])),
	}, true
}

// EncodeReject serializes a reject event.
// Layout: [kind:1][orderID:8][reason:1]
func EncodeReject(dst []byte, r engine.Reject) []byte {
	if cap(dst) < RejectPayloadSize {
		dst = make([]byte, RejectPayloadSize)
	} else {
		dst = dst[:RejectPayloadSize]
	}
	dst[0] = byte(KindReject)
	binary.LittleEndian.PutUint64(dst[1:9], r.OrderID)
	dst[9] = reasonCode(r.Reason)
	return dst
}

// DecodeReject parses a reject event payload.
func DecodeReject(src []byte) (engine.Reject, bool) {
	if len(src) < RejectPayloadSize || Kind(src) != KindReject {
		return engine.Reject{}, false
	}
	reason, ok := reasonString(src[9])
	if !ok {
		return engine.Reject{}, false
	}
	return engine.Reject{
		OrderID: binary.LittleEndian.Uint64(src[1:9]),
		Reason:  reason,
	}, true
}

// EncodeCancel serializes a cancel event.
// Layout: [kind:1][orderID:8]
func EncodeCancel(dst []byte, c engine.Cancel) []byte {
	return encodeIDOnly(dst, KindCancel, c.OrderID, CancelPayloadSize)
}

// DecodeCancel parses a cancel event payload.
func DecodeCancel(src []byte) (engine.Cancel, bool) {
	if len(src) < CancelPayloadSize || Kind(src) != KindCancel {
		return engine.Cancel{}, false
	}
	return engine.Cancel{OrderID: binary.LittleEndian.Uint64(src[1:9])}, true
}

// EncodeAck serializes an order-ack event.
// Layout: [kind:1][orderID:8]
func EncodeAck(dst []byte, a engine.OrderAck) []byte {
	return encodeIDOnly(dst, KindAck, a.OrderID, AckPayloadSize)
}

// DecodeAck parses an order-ack event payload.
func DecodeAck(src []byte) (engine.OrderAck, bool) {
	if len(src) < AckPayloadSize || Kind(src) != KindAck {
		return engine.OrderAck{}, false
	}
	return engine.OrderAck{OrderID: binary.LittleEndian.Uint64(src[1:9])}, true
}

func encodeIDOnly(dst []byte, kind EventKind, id uint64, size int) []byte {
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
	}
	dst[0] = byte(kind)
	binary.LittleEndian.PutUint64(dst[1:9], id)
	return dst
}

func reasonCode(reason string) uint8 {
	switch reason {
	case engine.ReasonIDExists:
		return reasonCodeIDExists
	case engine.ReasonNoLiquidity:
		return reasonCodeNoLiquidity
	case engine.ReasonIDNotFound:
		return reasonCodeIDNotFound
	default:
		return 0
	}
}

func reasonString(code uint8) (string, bool) {
	switch code {
	case reasonCodeIDExists:
		return engine.ReasonIDExists, true
	case reasonCodeNoLiquidity:
		return engine.ReasonNoLiquidity, true
	case reasonCodeIDNotFound:
		return engine.ReasonIDNotFound, true
	default:
		return "", false
	}
}
