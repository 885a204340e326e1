package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"mako/domain/book"
	"mako/service"
)

// Handler adapts OrderService to HTTP. Protocol failures (rejects)
// are 200s carrying the reject event; only malformed requests 400.
type Handler struct {
	svc *service.OrderService
	log *logrus.Logger
}

func NewHandler(svc *service.OrderService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/health", h.health).Methods("GET")
	r.HandleFunc("/api/orders", h.submitOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.cancelOrder).Methods("DELETE")
	r.HandleFunc("/api/depth", h.depth).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type orderRequest struct {
	OrderID uint64 `json:"order_id"`
	Side    string `json:"side"`
	Type    string `json:"type"`
	Price   int64  `json:"price"`
	Qty     int64  `json:"qty"`
}

type commandResponse struct {
	Seq    uint64                `json:"seq"`
	Events []service.EventRecord `json:"events"`
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Error("failed to decode order request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o := book.Order{
		ID:    req.OrderID,
		Price: req.Price,
		Qty:   req.Qty,
	}
	switch req.Side {
	case "buy":
		o.Side = book.Buy
	case "sell":
		o.Side = book.Sell
	default:
		http.Error(w, "side must be \"buy\" or \"sell\"", http.StatusBadRequest)
		return
	}
	if req.Type == "market" {
		o.Type = book.Market
	} else {
		o.Type = book.Limit
	}

	events, seq, err := h.svc.Submit(&o)
	if err != nil {
		h.log.WithError(err).Error("submit failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, commandResponse{Seq: seq, Events: events})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	events, seq, err := h.svc.Cancel(id)
	if err != nil {
		h.log.WithError(err).Error("cancel failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, commandResponse{Seq: seq, Events: events})
}

func (h *Handler) depth(w http.ResponseWriter, r *http.Request) {
	bids, asks := h.svc.Depth()
	writeJSON(w, map[string][]service.DepthLevel{
		"bids": bids,
		"asks": asks,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
