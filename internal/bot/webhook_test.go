package bot

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func newTestWebhook(secret string) (*WebhookServer, *[]Incoming) {
	var (
		mu  sync.Mutex
		got []Incoming
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewWebhookServer("/webhook", secret, func(in Incoming) {
		mu.Lock()
		got = append(got, in)
		mu.Unlock()
	}, logger)
	return s, &got
}

const messageUpdate = `{"update_id":1,"message":{"message_id":5,"date":1704276000,
	"from":{"id":42,"is_bot":false,"first_name":"Ivan","username":"ivan","language_code":"en"},
	"chat":{"id":42,"type":"private"},"text":"62,5"}}`

const callbackUpdate = `{"update_id":2,"callback_query":{"id":"cb-9","data":"confirm_weight",
	"from":{"id":42,"is_bot":false,"first_name":"Ivan"},
	"message":{"message_id":6,"date":1704276000,"chat":{"id":42,"type":"private"}}}}`

func TestWebhook_Message(t *testing.T) {
	s, got := newTestWebhook("")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(messageUpdate))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(*got) != 1 {
		t.Fatalf("submitted %d events, want 1", len(*got))
	}
	in := (*got)[0]
	if in.ChatID != 42 || in.Text != "62,5" || in.Username != "ivan" || in.Lang != "en" {
		t.Errorf("incoming = %+v", in)
	}
}

func TestWebhook_Callback(t *testing.T) {
	s, got := newTestWebhook("")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(callbackUpdate))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if len(*got) != 1 {
		t.Fatalf("submitted %d events, want 1", len(*got))
	}
	in := (*got)[0]
	if in.ChatID != 42 || in.Choice != "confirm_weight" || in.ChoiceID != "cb-9" {
		t.Errorf("incoming = %+v", in)
	}
}

func TestWebhook_Secret(t *testing.T) {
	s, got := newTestWebhook("s3cret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusForbidden},
		{"wrong", "nope", http.StatusForbidden},
		{"valid", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(messageUpdate))
			if tt.header != "" {
				req.Header.Set(SecretHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if len(*got) != 1 {
		t.Errorf("submitted %d events, want 1", len(*got))
	}
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	s, got := newTestWebhook("")

	body := `{"update_id":3,"message":{"message_id":7,"date":1704276000,"chat":{"id":42,"type":"private"},"text":"` +
		strings.Repeat("а", maxUpdateSize) + `"}}`
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if len(*got) != 0 {
		t.Errorf("submitted %d events, want 0", len(*got))
	}
}

func TestWebhook_BadBodyAndRoutes(t *testing.T) {
	s, got := newTestWebhook("")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /webhook status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	if len(*got) != 0 {
		t.Errorf("submitted %d events, want 0", len(*got))
	}
}
