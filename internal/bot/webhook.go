package bot

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader: заголовок, в котором Telegram передаёт secret_token вебхука
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateSize ограничивает тело запроса с обновлением
const maxUpdateSize = 1 << 20

// DecodeUpdate читает обновление Telegram из тела запроса
func DecodeUpdate(r *http.Request) (*tgbotapi.Update, error) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, fmt.Errorf("разбор обновления: %w", err)
	}
	return &update, nil
}

// WebhookServer принимает обновления Telegram по HTTP
type WebhookServer struct {
	router chi.Router
	submit func(Incoming)
	log    *slog.Logger
}

// NewWebhookServer создаёт сервер с маршрутами вебхука и проверки здоровья
func NewWebhookServer(path, secret string, submit func(Incoming), log *slog.Logger) *WebhookServer {
	s := &WebhookServer{
		router: chi.NewRouter(),
		submit: submit,
		log:    log,
	}
	s.router.Use(RequestLogging(log))
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	s.router.With(SecretAuth(secret)).Post(path, s.handleUpdate)
	return s
}

func (s *WebhookServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *WebhookServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateSize)
	update, err := DecodeUpdate(r)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.log.Warn("слишком большое обновление", "limit", tooLarge.Limit)
		http.Error(w, "update too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		s.log.Warn("некорректное обновление", "error", err)
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if in, ok := IncomingFromUpdate(*update); ok {
		s.submit(in)
	}
	w.WriteHeader(http.StatusOK)
}

// Serve слушает addr до закрытия сервера
func (s *WebhookServer) Serve(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("сервер вебхука остановлен", "error", err)
		}
	}()
	s.log.Info("сервер вебхука запущен", "addr", addr)
	return srv
}

// SecretAuth проверяет secret_token вебхука; пустой secret отключает проверку
func SecretAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogging логирует каждый запрос
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// statusWriter запоминает код ответа
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
