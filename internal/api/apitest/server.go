// Package apitest provides an in-process stand-in for the exam-coaching
// service, for tests of the gateway and everything built on it.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/examcoach/examcoach/internal/api"
)

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	RequestID     string
	Body          []byte
}

// failure is a canned error response for a path.
type failure struct {
	status int
	body   string
}

// State holds the canned data the server answers with.
type State struct {
	mu sync.Mutex

	NextTestID      int
	Analyses        map[int]*api.Analysis
	Plans           map[int]*api.StudyPlanEnvelope
	Recommendations map[int]*api.RecommendationEnvelope
	Progress        map[int]*api.Progress
	Accounts        map[string]api.Token // keyed by e-mail
	Requests        []Request

	failures map[string]failure // keyed by "METHOD path"
}

// Server is the fake service.
type Server struct {
	*State
	srv *httptest.Server
}

// NewServer starts a fake service that is shut down when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{State: &State{
		NextTestID:      1,
		Analyses:        make(map[int]*api.Analysis),
		Plans:           make(map[int]*api.StudyPlanEnvelope),
		Recommendations: make(map[int]*api.RecommendationEnvelope),
		Progress:        make(map[int]*api.Progress),
		Accounts:        make(map[string]api.Token),
		failures:        make(map[string]failure),
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tests/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/analysis/{id}", s.handleAnalysis)
	mux.HandleFunc("POST /api/study-plan/{id}", s.handlePlan)
	mux.HandleFunc("GET /api/study-plan/{id}/latest", s.handlePlan)
	mux.HandleFunc("POST /api/recommendations/{id}", s.handleRecommendations)
	mux.HandleFunc("GET /api/recommendations/{id}/latest", s.handleRecommendations)
	mux.HandleFunc("GET /api/progress/{id}", s.handleProgress)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)

	s.srv = httptest.NewServer(s.record(mux))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the base URL of the fake service.
func (s *Server) URL() string { return s.srv.URL }

// Client returns a gateway pointed at the fake service.
func (s *Server) Client(opts ...api.Option) *api.Client {
	return api.NewClient(s.srv.URL, opts...)
}

// Fail makes every request for method+path answer with status and a raw body.
// An empty body means no body at all.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Reply makes method+path answer 200 with the raw body, bypassing the
// typed handlers.
func (s *Server) Reply(method, path, body string) {
	s.Fail(method, path, http.StatusOK, body)
}

// Recorded returns a copy of the requests seen so far.
func (s *Server) Recorded() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.Requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.Requests = append(s.Requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failing {
			if f.body != "" {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.MockTest
	if !readJSON(w, r, &req) {
		return
	}

	correct := 0
	for _, q := range req.Questions {
		if strings.EqualFold(strings.TrimSpace(q.StudentAnswer), strings.TrimSpace(q.CorrectAnswer)) {
			correct++
		}
	}
	total := len(req.Questions)
	accuracy := 0.0
	if total > 0 {
		accuracy = math.Round(float64(correct)/float64(total)*1000) / 10
	}

	s.mu.Lock()
	id := s.NextTestID
	s.NextTestID++
	s.mu.Unlock()

	writeJSON(w, api.SubmitResult{
		Message:        "Test submitted and analysed successfully.",
		MockTestID:     id,
		TotalQuestions: total,
		Correct:        correct,
		Accuracy:       accuracy,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	a := s.Analyses[id]
	s.mu.Unlock()
	if a == nil {
		a = &api.Analysis{StudentID: id}
	}
	writeJSON(w, a)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	p := s.Plans[id]
	s.mu.Unlock()
	if p == nil {
		p = &api.StudyPlanEnvelope{StudentID: id}
	}
	writeJSON(w, p)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	rec := s.Recommendations[id]
	s.mu.Unlock()
	if rec == nil {
		rec = &api.RecommendationEnvelope{StudentID: id}
	}
	writeJSON(w, rec)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	p := s.Progress[id]
	s.mu.Unlock()
	if p == nil {
		p = &api.Progress{StudentID: id}
	}
	writeJSON(w, p)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if !readJSON(w, r, &req) {
		return
	}
	s.mu.Lock()
	tok, found := s.Accounts[req.Email]
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	writeJSON(w, tok)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.Registration
	if !readJSON(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Accounts[req.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	tok := api.Token{
		AccessToken: "token-" + strconv.Itoa(len(s.Accounts)+1),
		TokenType:   "bearer",
		StudentID:   len(s.Accounts) + 1,
	}
	s.Accounts[req.Email] = tok
	writeJSON(w, tok)
}

// --- Helpers ---

func studentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "student id must be an integer")
		return 0, false
	}
	return id, true
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err), http.StatusInternalServerError)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
