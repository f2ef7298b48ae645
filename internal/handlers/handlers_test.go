package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRooms struct {
	url string
	err error
}

func (s stubRooms) CreateRoom(context.Context) (string, error) { return s.url, s.err }

type stubMail struct {
	to  string
	at  time.Time
	err error
}

func (s *stubMail) SendConfirmation(_ context.Context, email string, at time.Time) error {
	s.to, s.at = email, at
	return s.err
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestCreateRoom(t *testing.T) {
	tests := []struct {
		name     string
		rooms    stubRooms
		wantCode int
		wantKey  string
		wantVal  any
	}{
		{"ok", stubRooms{url: "https://x.daily.co/r"}, http.StatusOK, "roomUrl", "https://x.daily.co/r"},
		{"upstream down", stubRooms{err: errors.New("boom")}, http.StatusInternalServerError, "error", "Room creation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewIntegrationHandler(tt.rooms, &stubMail{}, zap.NewNop())
			r := gin.New()
			r.POST("/create-room", h.CreateRoom)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/create-room", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d", w.Code)
			}
			if got := decode(t, w)[tt.wantKey]; got != tt.wantVal {
				t.Fatalf("%s = %v", tt.wantKey, got)
			}
		})
	}
}

func TestSendConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mailErr  error
		wantCode int
	}{
		{"ok", `{"email":"ann@example.com","time":"2025-01-01T10:00:00Z"}`, nil, http.StatusOK},
		{"mail fails", `{"email":"ann@example.com","time":"2025-01-01T10:00:00Z"}`, errors.New("down"), http.StatusInternalServerError},
		{"missing time", `{"email":"ann@example.com"}`, nil, http.StatusBadRequest},
		{"bad email", `{"email":"ann","time":"2025-01-01T10:00:00Z"}`, nil, http.StatusBadRequest},
		{"bad time", `{"email":"ann@example.com","time":"noon"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &stubMail{err: tt.mailErr}
			h := NewIntegrationHandler(stubRooms{}, mail, zap.NewNop())
			r := gin.New()
			r.POST("/send-confirmation", h.SendConfirmation)

			req := httptest.NewRequest(http.MethodPost, "/send-confirmation", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
			}
			body := decode(t, w)
			switch tt.wantCode {
			case http.StatusOK:
				if body["success"] != true || mail.to != "ann@example.com" {
					t.Fatalf("body = %v, sent to %q", body, mail.to)
				}
			case http.StatusInternalServerError:
				if body["error"] != "Email failed" {
					t.Fatalf("body = %v", body)
				}
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code string
	}{
		{httperr.ErrBusiness("slot_in_past"), http.StatusBadRequest, "slot_in_past"},
		{httperr.ErrBusiness("forbidden"), http.StatusForbidden, "forbidden"},
		{httperr.ErrBusiness("booking_not_found"), http.StatusNotFound, "booking_not_found"},
		{httperr.ErrBusiness("slot_already_booked"), http.StatusConflict, "slot_already_booked"},
		{httperr.ErrBusiness("room_provision_failed"), http.StatusBadGateway, "room_provision_failed"},
		{httperr.ErrBusiness("something_new"), http.StatusBadRequest, "something_new"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { writeError(c, zap.NewNop(), tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if got := decode(t, w)["error_code"]; got != tt.code {
				t.Fatalf("error_code = %v", got)
			}
		})
	}
}

type stubHub struct {
	changes []realtime.Change
	userID  string
}

func (h *stubHub) Publish(context.Context, string, realtime.Change) error { return nil }

func (h *stubHub) Subscribe(_ context.Context, userID string) (<-chan realtime.Change, func(), error) {
	h.userID = userID
	ch := make(chan realtime.Change, len(h.changes))
	for _, c := range h.changes {
		ch <- c
	}
	close(ch)
	return ch, func() {}, nil
}

func TestStreamWritesChangesUntilClosed(t *testing.T) {
	hub := &stubHub{changes: []realtime.Change{{Type: "booking.accepted", BookingID: "b1"}}}
	h := NewStreamHandler(hub, zap.NewNop())

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		h.Stream(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if hub.userID != "u1" {
		t.Fatalf("subscribed as %q", hub.userID)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event:ready") || !strings.Contains(body, "event:change") || !strings.Contains(body, `"bookingId":"b1"`) {
		t.Fatalf("body = %q", body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestStreamStopsOnClientDisconnect(t *testing.T) {
	hub := realtime.NewMemoryHub()
	h := NewStreamHandler(hub, zap.NewNop())

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		h.Stream(c)
	})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the client went away")
	}
}
