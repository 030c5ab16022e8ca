package generator

import (
	"fmt"
	"strings"
)

// PromptKind tells which stage a prompt belongs to.
type PromptKind string

const (
	KindOutline   PromptKind = "outline"
	KindArticle   PromptKind = "article"
	KindResources PromptKind = "resources"
)

// Prompt is the message set sent to the LLM.
type Prompt struct {
	Kind        PromptKind
	System      string
	User        string
	Temperature float64
}

// BuildOutlinePrompt asks for a hierarchical outline sized to the word range.
func BuildOutlinePrompt(req Request) Prompt {
	user := fmt.Sprintf("Create a detailed, structured outline for an article titled '%s' that should be approximately %s words. "+
		"Format it as a clear, hierarchical outline with main sections and subsections. "+
		"Put each heading on its own line and output only the outline.", req.Title, req.WordRange())
	return Prompt{
		Kind:        KindOutline,
		User:        user,
		Temperature: 0.7,
	}
}

// BuildArticlePrompt asks for the full body following the outline.
func BuildArticlePrompt(req Request, outline Outline) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a complete, well-researched article titled '%s' using this outline:\n\n", req.Title)
	sb.WriteString(outline.Markdown())
	fmt.Fprintf(&sb, "\n\nThe article should be approximately %s words. ", req.WordRange())
	sb.WriteString("Make it engaging, informative, and professional. ")
	sb.WriteString("Include an introduction, well-structured body paragraphs, and a conclusion.")
	return Prompt{
		Kind:        KindArticle,
		User:        sb.String(),
		Temperature: 0.8,
	}
}

// BuildResourcesPrompt asks for exactly five links as JSON.
func BuildResourcesPrompt(req Request) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Provide %d authoritative online resources (websites, articles, studies, or references) related to '%s'.\n", ResourceCount, req.Title)
	sb.WriteString("Respond with a JSON object only, no prose, in this shape:\n")
	sb.WriteString(`{"resources": [{"label": "Resource title - why it is valuable", "url": "https://..."}]}`)
	fmt.Fprintf(&sb, "\nThe array must contain exactly %d entries and every url must be an absolute https link.", ResourceCount)
	return Prompt{
		Kind:        KindResources,
		System:      "You output strict JSON.",
		User:        sb.String(),
		Temperature: 0.7,
	}
}
