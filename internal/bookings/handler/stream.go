package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"equipbook/internal/bookings/store"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
)

// StreamHandler serves the live snapshot feed as server-sent events. Every
// remote change pushes the full current snapshot; a client never has to
// diff, it just replaces its view.
type StreamHandler struct {
	store store.Store
	log   *logger.Logger
}

func NewStreamHandler(st store.Store, log *logger.Logger) *StreamHandler {
	return &StreamHandler{store: st, log: log}
}

func (h *StreamHandler) Watch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscription callbacks run under the store lock, so the callback only
	// hands the snapshot off. Latest wins: a slow client skips intermediate
	// snapshots instead of falling behind.
	updates := make(chan []model.Booking, 1)
	sub, err := h.store.Subscribe(func(snapshot []model.Booking) {
		for {
			select {
			case updates <- snapshot:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	if err != nil {
		h.log.Warn("Stream subscription rejected", "error", err)
		http.Error(w, "snapshot feed unavailable", http.StatusServiceUnavailable)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.log.Debug("Stream client connected", "remote_addr", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("Stream client disconnected", "remote_addr", r.RemoteAddr)
			return

		case <-sub.Done():
			if err := sub.Err(); err != nil {
				h.log.Error("Snapshot feed lost", "error", err)
				fmt.Fprintf(w, "event: sync-lost\ndata: %q\n\n", err.Error())
				flusher.Flush()
			}
			return

		case snapshot := <-updates:
			payload, err := json.Marshal(redactAll(snapshot))
			if err != nil {
				h.log.Error("Failed to encode snapshot", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
				h.log.Debug("Stream write failed", "remote_addr", r.RemoteAddr, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/watch", h.Watch)
}
