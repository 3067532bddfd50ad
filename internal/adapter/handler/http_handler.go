package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

const eventSource = "gateway"

// HTTPHandler is the customer- and supplier-facing surface of the gateway.
// It validates the basics, forwards over gRPC with a deadline comfortably
// above the coordinator's reply window, and emits an analytics event for
// every request it handles.
type HTTPHandler struct {
	inventory rpc.InventoryClient
	events    port.EventPublisher
	timeout   time.Duration
}

type orderHTTPRequest struct {
	CustomerID string     `json:"customer_id"`
	SupplierID string     `json:"supplier_id"`
	Items      []rpc.Line `json:"items"`
}

type errorHTTPResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(inventory rpc.InventoryClient, events port.EventPublisher, timeout time.Duration) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		events:    events,
		timeout:   timeout,
	}
}

// PlaceOrder handles POST /api/orders: customers taking items off shelves.
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.OrderKindFetch)
}

// PlaceRestock handles POST /api/restocks: suppliers putting items on shelves.
func (h *HTTPHandler) PlaceRestock(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.OrderKindRestock)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) submit(w http.ResponseWriter, r *http.Request, kind domain.OrderKind) {
	started := time.Now()

	var req orderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, r, kind, "invalid request body")
		return
	}

	requester := req.CustomerID
	missing := "missing customer_id"
	if kind == domain.OrderKindRestock {
		requester = req.SupplierID
		missing = "missing supplier_id"
	}
	if requester == "" {
		h.reject(w, r, kind, missing)
		return
	}
	if len(req.Items) == 0 {
		h.reject(w, r, kind, "order has no items")
		return
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			h.reject(w, r, kind, "quantity must be at least 1")
			return
		}
	}

	h.event(r.Context(), domain.ReceivedEvent(kind), 0, true)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reply, err := h.inventory.ProcessOrder(ctx, &rpc.OrderRequest{
		Kind:      string(kind),
		Requester: requester,
		Lines:     req.Items,
	})
	if err != nil {
		httpStatus := http.StatusBadGateway
		message := "inventory unavailable"
		if s, ok := status.FromError(err); ok && s.Code() == codes.InvalidArgument {
			httpStatus = http.StatusBadRequest
			message = s.Message()
		}
		log.Error().Err(err).Str("kind", string(kind)).Msg("order forwarding failed")
		h.event(r.Context(), domain.FailedEvent(kind), time.Since(started), false)
		writeJSON(w, httpStatus, errorHTTPResponse{Error: message})
		return
	}

	h.event(r.Context(), domain.CompletedEvent(kind), time.Since(started), true)
	writeJSON(w, http.StatusOK, reply)
}

// reject answers a request that never made it past validation. Rejections
// count as failed events with zero latency.
func (h *HTTPHandler) reject(w http.ResponseWriter, r *http.Request, kind domain.OrderKind, message string) {
	h.event(r.Context(), domain.FailedEvent(kind), 0, false)
	writeJSON(w, http.StatusBadRequest, errorHTTPResponse{Error: message})
}

func (h *HTTPHandler) event(ctx context.Context, typ domain.EventType, latency time.Duration, success bool) {
	if h.events == nil {
		return
	}
	ev := domain.Event{
		ID:          uuid.New().String(),
		Source:      eventSource,
		Type:        typ,
		TimestampMS: time.Now().UnixMilli(),
		LatencyMS:   latency.Milliseconds(),
		Success:     success,
	}
	if err := h.events.PublishEvent(ctx, ev); err != nil {
		log.Warn().Err(err).Str("type", string(typ)).Msg("analytics publish failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
