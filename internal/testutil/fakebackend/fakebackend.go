// Package fakebackend serves the subset of the rehabilitation API the client
// talks to, with in-memory users and assessment records.
package fakebackend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"rehab/internal/testutil/pdffixture"
)

type user struct {
	ID       int64
	Email    string
	Username string
	Password string
}

type Record struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type Backend struct {
	server *httptest.Server

	mu         sync.Mutex
	users      map[string]user
	tokens     map[string]int64
	records    []Record
	nextID     int64
	failRecord bool
	hits       map[string]int
	lastBody   map[string]map[string]any
	series     map[string][]float64
}

// New starts a backend that is shut down when t finishes.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		users:    map[string]user{},
		tokens:   map[string]int64{},
		hits:     map[string]int{},
		lastBody: map[string]map[string]any{},
		series:   map[string][]float64{},
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string { return b.server.URL }

func (b *Backend) AddUser(email, username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = user{ID: int64(len(b.users) + 1), Email: email, Username: username, Password: password}
}

// FailRecords makes POST /assessments answer 500 until called with false.
func (b *Backend) FailRecords(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failRecord = fail
}

func (b *Backend) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Record(nil), b.records...)
}

// Hits counts requests by "METHOD /path".
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// LastBody is the most recent JSON body posted to path.
func (b *Backend) LastBody(path string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody[path]
}

// Series is the last systolic series or PHQ-9 score list posted to path.
func (b *Backend) Series(path string) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.series[path]
}

// ─── routes ──────────────────────────────────────────────────────────────────

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.count)

	r.Post("/auth/login", b.login)
	r.Post("/phq/analyze", b.scorer(scorePHQ9))
	r.Post("/nihss/analyze", b.scorer(scoreNIHSS))
	r.Post("/bp/analyze", b.scorer(scoreBP))
	r.Post("/assessment/movement", b.scorer(scoreMovement))
	r.Post("/assessment/speech-hearing", b.scorer(scoreSpeech))
	r.Post("/chat/patient-chat", b.reply("How are you feeling today?"))
	r.Post("/chat/assessment-advice", b.reply("Keep a regular sleep schedule."))
	r.Post("/ai/rehabilitation/analysis", b.reply("Progress is steady."))
	r.Post("/ai/chat/completion", b.reply("Sure."))
	r.Post("/export/assessment", b.export)
	r.Post("/bp/trend", b.bpTrend)
	r.Post("/alerts/analyze-bp", b.bpAlert)
	r.Post("/alerts/phq-trend", b.phqTrend)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticated)
		r.Get("/auth/me", b.me)
		r.Get("/auth/me/profile", b.profile)
		r.Post("/assessments", b.record)
		r.Get("/assessments/history", b.history)
		r.Get("/assessments/{id}", b.detail)
		r.Delete("/assessments/{id}", b.remove)
		r.Get("/report/pdf/{patient}", b.pdf)
	})
	return r
}

type userKey struct{}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		id, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, id)))
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		detail(w, http.StatusBadRequest, "bad form")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[r.PostForm.Get("username")]
	if !ok || u.Password != r.PostForm.Get("password") {
		detail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	token := fmt.Sprintf("tok-%d-%d", u.ID, len(b.tokens)+1)
	b.tokens[token] = u.ID
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "email": u.Email, "username": u.Username, "is_verified": true, "role": "patient"})
			return
		}
	}
	detail(w, http.StatusNotFound, "User not found")
}

func (b *Backend) profile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"affected_side": "left", "stroke_type": "ischemic", "height": 172})
}

func (b *Backend) scorer(score func(map[string]any) map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := b.decode(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, score(body))
	}
}

func (b *Backend) record(w http.ResponseWriter, r *http.Request) {
	body, ok := b.decode(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failRecord {
		detail(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	b.nextID++
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	data, _ := body["data"].(map[string]any)
	typ, _ := body["type"].(string)
	rec := Record{ID: b.nextID, UserID: userID(r), Type: typ, Data: data, CreatedAt: now, UpdatedAt: now}
	b.records = append(b.records, rec)
	writeJSON(w, http.StatusOK, rec)
}

func (b *Backend) history(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, 0, len(b.records))
	for i := len(b.records) - 1; i >= 0; i-- {
		if b.records[i].UserID != userID(r) {
			continue
		}
		out = append(out, b.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) find(r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	for i, rec := range b.records {
		if rec.ID == id && rec.UserID == userID(r) {
			return i, true
		}
	}
	return 0, false
}

func (b *Backend) detail(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(r)
	if !ok {
		detail(w, http.StatusNotFound, "Assessment not found")
		return
	}
	writeJSON(w, http.StatusOK, b.records[i])
}

func (b *Backend) remove(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(r)
	if !ok {
		detail(w, http.StatusNotFound, "Assessment not found")
		return
	}
	b.records = append(b.records[:i], b.records[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *Backend) reply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := b.decode(w, r); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"response": text})
	}
}

func (b *Backend) export(w http.ResponseWriter, r *http.Request) {
	body, ok := b.decode(w, r)
	if !ok {
		return
	}
	name, _ := body["patient_name"].(string)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"file_path": "/reports/" + strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".pdf",
		"message":   "Report generated",
	})
}

func (b *Backend) pdf(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "patient") == "broken" {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("not a pdf"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(pdffixture.Pages(3))
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (b *Backend) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return nil, false
	}
	b.mu.Lock()
	b.lastBody[r.URL.Path] = body
	b.mu.Unlock()
	return body, true
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey{}).(int64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
