package generator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// ImageSourcer finds or generates a header image for a title.
type ImageSourcer interface {
	Source(ctx context.Context, title string) (ImageReference, error)
}

// Agent runs the outline, article, image and resource stages in order.
type Agent struct {
	llm     LLMClient
	images  ImageSourcer
	verbose bool
	logger  *log.Logger
}

func NewAgent(llm LLMClient, images ImageSourcer, verbose bool, logger *log.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if images == nil {
		return nil, errors.New("image sourcer is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{llm: llm, images: images, verbose: verbose, logger: logger}, nil
}

func (a *Agent) infof(format string, args ...interface{}) {
	if !a.verbose {
		return
	}
	a.logger.Printf("[INFO] "+format, args...)
}

// Outline asks the model for section headings.
func (a *Agent) Outline(ctx context.Context, req Request) (Outline, error) {
	raw, err := a.llm.Complete(ctx, BuildOutlinePrompt(req))
	if err != nil {
		return nil, &UpstreamError{Stage: StageOutline, Err: err}
	}
	outline := ParseOutline(raw, req.Title)
	if len(outline) == 0 {
		return nil, &DataQualityError{Stage: StageOutline, Detail: "model returned no headings"}
	}
	a.infof("outline has %d headings", len(outline))
	return outline, nil
}

// Write asks the model for the article body. Length is steered by the prompt
// only; a count outside the tolerance band is logged, not rejected.
func (a *Agent) Write(ctx context.Context, req Request, outline Outline) (string, error) {
	raw, err := a.llm.Complete(ctx, BuildArticlePrompt(req, outline))
	if err != nil {
		return "", &UpstreamError{Stage: StageArticle, Err: err}
	}
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", &DataQualityError{Stage: StageArticle, Detail: "model returned an empty article"}
	}
	if n := CountWords(body); !withinTolerance(n, req.MinWords, req.MaxWords) {
		a.logger.Printf("[article] warning: %d words for requested range %s", n, req.WordRange())
	}
	return body, nil
}

// Resources asks the model for exactly ResourceCount reference links.
func (a *Agent) Resources(ctx context.Context, req Request) ([]Resource, error) {
	raw, err := a.llm.Complete(ctx, BuildResourcesPrompt(req))
	if err != nil {
		return nil, &UpstreamError{Stage: StageResources, Err: err}
	}
	return ParseResources(raw)
}

// Generate runs every stage and returns the assembled article. Any failure
// aborts the run and no partial article is returned. onStep may be nil.
func (a *Agent) Generate(ctx context.Context, req Request, onStep func(Step)) (Article, error) {
	track := func(stage Stage, fn func() error) error {
		start := time.Now()
		a.logger.Printf("[%s] start title=%q", stage, req.Title)
		err := fn()
		step := Step{Stage: stage, StartedAt: start, Duration: time.Since(start)}
		if err != nil {
			a.logger.Printf("[%s] failed after %s: %v", stage, step.Duration, err)
			return err
		}
		a.infof("%s done in %s", stage, step.Duration)
		if onStep != nil {
			onStep(step)
		}
		return nil
	}

	art := Article{Title: req.Title}
	if err := track(StageOutline, func() (err error) {
		art.Outline, err = a.Outline(ctx, req)
		return err
	}); err != nil {
		return Article{}, err
	}
	if err := track(StageArticle, func() (err error) {
		art.Body, err = a.Write(ctx, req, art.Outline)
		return err
	}); err != nil {
		return Article{}, err
	}
	art.WordCount = CountWords(art.Body)
	if err := track(StageImage, func() error {
		img, err := a.images.Source(ctx, req.Title)
		if err != nil {
			return &UpstreamError{Stage: StageImage, Err: err}
		}
		art.Image = &img
		return nil
	}); err != nil {
		return Article{}, err
	}
	if err := track(StageResources, func() (err error) {
		art.Resources, err = a.Resources(ctx, req)
		return err
	}); err != nil {
		return Article{}, err
	}
	return art, nil
}
