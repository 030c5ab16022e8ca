package generator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// MockLLM is a placeholder for local debugging; it never calls a model.
type MockLLM struct {
	// Words is the body length to produce. Zero means 300.
	Words int
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch prompt.Kind {
	case KindOutline:
		return "1. Introduction\n2. Background\n   a. Early history\n3. Key ideas\n4. Conclusion", nil
	case KindArticle:
		n := m.Words
		if n <= 0 {
			n = 300
		}
		var sb strings.Builder
		sb.WriteString("## Introduction\n\n")
		for i := 0; i < n-2; i++ {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("lorem")
		}
		return sb.String(), nil
	case KindResources:
		var sb strings.Builder
		sb.WriteString(`{"resources": [`)
		for i := 1; i <= ResourceCount; i++ {
			if i > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"label": "Example resource %d", "url": "https://example.com/resource-%d"}`, i, i)
		}
		sb.WriteString("]}")
		return sb.String(), nil
	default:
		return "", fmt.Errorf("mock llm: unknown prompt kind %q", prompt.Kind)
	}
}

// MockImages returns a fixed placeholder image.
type MockImages struct{}

func (MockImages) Source(_ context.Context, title string) (ImageReference, error) {
	return ImageReference{URL: "https://placehold.co/1024x1024?text=" + url.QueryEscape(title), Source: "Mock"}, nil
}
