package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/movewatch/backend/tracking"
)

const maxDetectionPayload = 1 << 20 // 1 MiB

// MessageProcessor consumes one raw detection payload.
type MessageProcessor interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

// DetectionHandler exposes the detection ingest path over HTTP for
// validator nodes that cannot reach the broker and for operator replay.
// The payload is identical to the queue payload.
type DetectionHandler struct {
	Processor MessageProcessor
}

// IngestDetections accepts one detection message.
func (h *DetectionHandler) IngestDetections(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxDetectionPayload))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "unreadable_body", "failed to read request body")
		return
	}

	err = h.Processor.HandleMessage(r.Context(), payload)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, tracking.ErrMalformedMessage):
		WriteAPIError(w, http.StatusBadRequest, "malformed_message", err.Error())
	case errors.Is(err, tracking.ErrInvalidTimestamp):
		WriteAPIError(w, http.StatusBadRequest, "invalid_timestamp", err.Error())
	case errors.Is(err, tracking.ErrUnknownCamera):
		WriteAPIError(w, http.StatusNotFound, "unknown_camera", err.Error())
	default:
		log.Printf("handlers: detection ingest failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "ingest_failed", "failed to process detection message")
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
