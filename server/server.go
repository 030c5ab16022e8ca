package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"caveman_article_agent/export"
	"caveman_article_agent/generator"
)

//go:embed web
var embeddedStatic embed.FS

const (
	defaultTimeout     = 5 * time.Minute
	defaultMaxSessions = 100
)

// Options tunes a Server. Zero values pick the defaults.
type Options struct {
	Timeout     time.Duration
	MaxSessions int
	Logger      *log.Logger
}

type Server struct {
	genAgent *generator.Agent
	store    *sessionStore
	staticFS http.Handler
	timeout  time.Duration
	logger   *log.Logger
}

// sessionStore keeps the newest sessions in memory and drops the oldest
// once the limit is reached.
type sessionStore struct {
	mu       sync.Mutex
	limit    int
	order    []string
	sessions map[string]*entry
}

type entry struct {
	sess *generator.Session
	err  error
}

func newStore(limit int) *sessionStore {
	return &sessionStore{limit: limit, sessions: make(map[string]*entry)}
}

func (s *sessionStore) set(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		s.order = append(s.order, id)
	}
	s.sessions[id] = e
	for len(s.order) > s.limit {
		delete(s.sessions, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *sessionStore) get(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func New(genAgent *generator.Agent, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		genAgent: genAgent,
		store:    newStore(opts.MaxSessions),
		staticFS: http.FileServer(http.FS(sub)),
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/articles", s.handleArticleCreate)
	mux.HandleFunc("GET /api/articles/{id}", s.handleArticleGet)
	mux.HandleFunc("GET /api/articles/{id}/download", s.handleArticleDownload)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /", s.staticFS)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type articleCreateReq struct {
	Title     string `json:"title"`
	WordRange string `json:"word_range"`
}

type articleResp struct {
	ID        string             `json:"id"`
	Request   generator.Request  `json:"request"`
	Steps     []generator.Step   `json:"steps"`
	Article   *generator.Article `json:"article,omitempty"`
	HTML      string             `json:"html,omitempty"`
	Markdown  string             `json:"markdown,omitempty"`
	Filename  string             `json:"filename,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type errorResp struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	var body articleCreateReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON body: " + err.Error()})
		return
	}
	req, err := generator.NewRequest(body.Title, body.WordRange)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}

	id := uuid.NewString()
	sess := generator.NewSession(id, req, s.genAgent)
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	s.logger.Printf("[server] session %s title=%q range=%s", id, req.Title, req.WordRange())
	_, err = sess.Generate(ctx)
	s.store.set(id, &entry{sess: sess, err: err})
	if err != nil {
		s.logger.Printf("[server] session %s failed: %v", id, err)
		writeJSON(w, statusFor(err), errorResp{Error: err.Error(), ID: id})
		return
	}
	resp, err := s.render(&entry{sess: sess})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error(), ID: id})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleArticleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "session not found"})
		return
	}
	resp, err := s.render(e)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArticleDownload(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "session not found"})
		return
	}
	if e.sess.Article == nil {
		writeJSON(w, http.StatusConflict, errorResp{Error: "session has no article", ID: e.sess.ID})
		return
	}
	art := *e.sess.Article
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename(art.Title)}))
	_, _ = w.Write([]byte(export.Markdown(art)))
}

// --- Helpers ---

func (s *Server) render(e *entry) (articleResp, error) {
	resp := articleResp{
		ID:        e.sess.ID,
		Request:   e.sess.Request,
		Steps:     e.sess.Steps,
		Article:   e.sess.Article,
		CreatedAt: e.sess.CreatedAt,
	}
	if e.err != nil {
		resp.Error = e.err.Error()
	}
	if e.sess.Article != nil {
		html, err := export.HTML(*e.sess.Article)
		if err != nil {
			return articleResp{}, err
		}
		resp.HTML = html
		resp.Markdown = export.Markdown(*e.sess.Article)
		resp.Filename = export.Filename(e.sess.Article.Title)
	}
	return resp, nil
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *generator.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("[http] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
