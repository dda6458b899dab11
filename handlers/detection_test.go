package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/movewatch/backend/tracking"
)

// mockProcessor is a mock implementation for testing
type mockProcessor struct {
	handleCalled bool
	lastPayload  []byte
	returnError  error
}

func (m *mockProcessor) HandleMessage(ctx context.Context, payload []byte) error {
	m.handleCalled = true
	m.lastPayload = payload
	return m.returnError
}

// Ensure mock implements the interface
var _ MessageProcessor = (*mockProcessor)(nil)

func TestIngestDetections(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		returnError    error
		wantStatusCode int
	}{
		{
			name:           "accepted",
			body:           `{"SourceId":"1","Time":"2025-03-01-12.00.00.000000","DetectedPersons":[]}`,
			wantStatusCode: http.StatusAccepted,
		},
		{
			name:           "malformed message",
			body:           `not json`,
			returnError:    tracking.ErrMalformedMessage,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid timestamp",
			body:           `{"SourceId":"1","Time":"bad","DetectedPersons":[]}`,
			returnError:    tracking.ErrInvalidTimestamp,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown camera",
			body:           `{"SourceId":"99","Time":"2025-03-01-12.00.00.000000","DetectedPersons":[]}`,
			returnError:    tracking.ErrUnknownCamera,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockProcessor{returnError: tt.returnError}
			handler := &DetectionHandler{Processor: mock}

			req := httptest.NewRequest(http.MethodPost, "/api/detections", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.IngestDetections(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatusCode)
			}
			if !mock.handleCalled {
				t.Error("processor was not invoked")
			}
			if string(mock.lastPayload) != tt.body {
				t.Errorf("payload = %q, want %q", mock.lastPayload, tt.body)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}
