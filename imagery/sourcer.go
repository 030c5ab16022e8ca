// Package imagery picks a header image: a cheap stock-photo search first and
// a generated image only when the search comes back empty or fails.
package imagery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"caveman_article_agent/generator"
)

// Searcher queries a stock image provider. An empty slice with a nil error
// means the provider had nothing for the query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]string, error)
}

// Generator creates an image from a text prompt and returns its URL.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// State is a step of the image state machine.
type State string

const (
	StateTryPrimary       State = "try-primary"
	StateFallbackGenerate State = "fallback-generate"
	StateDone             State = "done"
)

// Sourcer implements generator.ImageSourcer.
//
// Transitions:
//
//	TryPrimary --(>=1 result)--> Done
//	TryPrimary --(empty result or error)--> FallbackGenerate
//	FallbackGenerate --(ok)--> Done
//	FallbackGenerate --(error)--> failure carrying both errors
//
// With a nil primary the machine starts in FallbackGenerate.
type Sourcer struct {
	primary  Searcher
	fallback Generator
	logger   *log.Logger
}

// NewSourcer builds the state machine. primary may be nil when its credential
// is not configured.
func NewSourcer(primary Searcher, fallback Generator, logger *log.Logger) (*Sourcer, error) {
	if fallback == nil {
		return nil, errors.New("fallback image generator is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sourcer{primary: primary, fallback: fallback, logger: logger}, nil
}

// HeaderPrompt is the generative prompt derived from the title.
func HeaderPrompt(title string) string {
	return fmt.Sprintf("Create a modern, professional header image for an article titled '%s'. "+
		"The image should be visually appealing and relevant to the topic.", title)
}

// Source runs the machine to Done or returns the failure.
func (s *Sourcer) Source(ctx context.Context, title string) (generator.ImageReference, error) {
	state := StateTryPrimary
	if s.primary == nil {
		s.logger.Printf("[image] no search credential, generating directly")
		state = StateFallbackGenerate
	}

	var primaryErr error
	var ref generator.ImageReference
	for state != StateDone {
		switch state {
		case StateTryPrimary:
			urls, err := s.primary.Search(ctx, title)
			switch {
			case err != nil:
				primaryErr = fmt.Errorf("%s search: %w", s.primary.Name(), err)
				s.logger.Printf("[image] warning: %v; falling back to %s", primaryErr, s.fallback.Name())
				state = StateFallbackGenerate
			case len(urls) == 0:
				s.logger.Printf("[image] %s returned no results; falling back to %s", s.primary.Name(), s.fallback.Name())
				state = StateFallbackGenerate
			default:
				ref = generator.ImageReference{URL: urls[0], Source: s.primary.Name()}
				state = StateDone
			}
		case StateFallbackGenerate:
			if err := ctx.Err(); err != nil {
				return generator.ImageReference{}, err
			}
			u, err := s.fallback.Generate(ctx, HeaderPrompt(title))
			if err != nil {
				return generator.ImageReference{}, errors.Join(primaryErr, fmt.Errorf("%s generate: %w", s.fallback.Name(), err))
			}
			ref = generator.ImageReference{URL: u, Source: s.fallback.Name()}
			state = StateDone
		}
	}
	return ref, nil
}
