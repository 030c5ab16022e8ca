package generator

import (
	"context"
	"time"
)

// Session holds one generation run: its input, its steps and, on success,
// the article.
type Session struct {
	ID        string    `json:"id"`
	Request   Request   `json:"request"`
	Article   *Article  `json:"article,omitempty"`
	Steps     []Step    `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
	agent     *Agent
}

// NewSession creates a session; nothing is generated yet.
func NewSession(id string, req Request, agent *Agent) *Session {
	return &Session{
		ID:        id,
		Request:   req,
		CreatedAt: time.Now(),
		agent:     agent,
	}
}

// Generate runs the pipeline. On failure the session keeps its steps but no article.
func (s *Session) Generate(ctx context.Context) (Article, error) {
	s.Steps = nil
	s.Article = nil
	art, err := s.agent.Generate(ctx, s.Request, func(step Step) {
		s.Steps = append(s.Steps, step)
	})
	if err != nil {
		return Article{}, err
	}
	s.Article = &art
	return art, nil
}
