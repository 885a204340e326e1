package codec

import (
	"encoding/binary"

	"mako/domain/book"
)

// Command payloads written to the entry WAL. Fixed-size little-endian
// frames: replay must decode exactly what was accepted.

const (
	NewOrderPayloadSize    = 26
	CancelOrderPayloadSize = 8
)

// EncodeNewOrder serializes a submit command.
// Layout: [id:8][side:1][type:1][price:8][qty:8]
func EncodeNewOrder(dst []byte, o *book.Order) []byte {
	if cap(dst) < NewOrderPayloadSize {
		dst = make([]byte, NewOrderPayloadSize)
	} else {
		dst = dst[:NewOrderPayloadSize]
	}
	binary.LittleEndian.PutUint64(dst[0:8], o.ID)
	dst[8] = byte(o.Side)
	dst[9] = byte(o.Type)
	binary.LittleEndian.PutUint64(dst[10:18], uint64(o.Price))
	binary.LittleEndian.PutUint64(dst[18:26], uint64(o.Qty))
	return dst
}

// DecodeNewOrder parses a submit command payload.
func DecodeNewOrder(src []byte) (book.Order, bool) {
	if len(src) < NewOrderPayloadSize {
		return book.Order{}, false
	}
	return book.Order{
		ID:    binary.LittleEndian.Uint64(src[0:8]),
		Side:  book.Side(src[8]),
		Type:  book.OrderType(src[9]),
		Price: int64(binary.LittleEndian.Uint64(src[10:18])),
		Qty:   int64(binary.LittleEndian.Uint64(src[18:26])),
	}, true
}

// EncodeCancelOrder serializes a cancel command.
// Layout: [id:8]
func EncodeCancelOrder(dst []byte, id uint64) []byte {
	if cap(dst) < CancelOrderPayloadSize {
		dst = make([]byte, CancelOrderPayloadSize)
	} else {
		dst = dst[:CancelOrderPayloadSize]
	}
	binary.LittleEndian.PutUint64(dst[0:8], id)
	return dst
}

// DecodeCancelOrder parses a cancel command payload.
func DecodeCancelOrder(src []byte) (uint64, bool) {
	if len(src) < CancelOrderPayloadSize {
		return 0, false
	}
	return binary.LittleEndian.Uint64(src[0:8]), true
}
