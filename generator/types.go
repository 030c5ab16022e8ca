package generator

import (
	"fmt"
	"strings"
	"time"
)

// ResourceCount is the exact number of reference links an article carries.
const ResourceCount = 5

// Request is the validated user input for one generation run.
type Request struct {
	Title    string `json:"title"`
	MinWords int    `json:"min_words"`
	MaxWords int    `json:"max_words"`
}

// WordRange renders the range the way it is phrased in prompts.
func (r Request) WordRange() string {
	return fmt.Sprintf("%d-%d", r.MinWords, r.MaxWords)
}

// Outline is the ordered list of section headings.
type Outline []string

// Markdown renders the outline as a numbered list, one heading per line.
func (o Outline) Markdown() string {
	var sb strings.Builder
	for i, h := range o {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, h)
	}
	return sb.String()
}

// ImageReference points at the header image and names where it came from.
type ImageReference struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Resource is one suggested reference link.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Article is the full output of one run.
type Article struct {
	Title     string          `json:"title"`
	Outline   Outline         `json:"outline"`
	Body      string          `json:"body"`
	WordCount int             `json:"word_count"`
	Image     *ImageReference `json:"image,omitempty"`
	Resources []Resource      `json:"resources"`
}

// Stage names one step of the pipeline.
type Stage string

const (
	StageOutline   Stage = "outline"
	StageArticle   Stage = "article"
	StageImage     Stage = "image"
	StageResources Stage = "resources"
)

// Step records how long a stage took.
type Step struct {
	Stage     Stage         `json:"stage"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
