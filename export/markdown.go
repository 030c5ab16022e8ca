// Package export renders a finished article as a Markdown document, parses
// such a document back, and converts it to HTML for display.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"caveman_article_agent/generator"
)

const (
	outlineHeading   = "## Outline"
	articleHeading   = "## Article"
	imageHeading     = "## Header Image"
	resourcesHeading = "## Resources"
)

var (
	numberedPattern = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	resourcePattern = regexp.MustCompile(`^\d+\.\s+\[(.*)\]\((\S+)\)$`)
	imagePattern    = regexp.MustCompile(`^!\[.*\]\((\S+)\)$`)
	captionPattern  = regexp.MustCompile(`^\*Source: (.+)\*$`)
)

// Markdown renders a in a fixed section order. The body is written verbatim.
func Markdown(a generator.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)

	b.WriteString(outlineHeading + "\n\n")
	b.WriteString(a.Outline.Markdown())
	b.WriteString("\n\n")

	b.WriteString(articleHeading + "\n\n")
	b.WriteString(a.Body)
	b.WriteString("\n\n")

	if a.Image != nil {
		b.WriteString(imageHeading + "\n\n")
		fmt.Fprintf(&b, "![%s](%s)\n\n", altText(a.Title), a.Image.URL)
		if a.Image.Source != "" {
			fmt.Fprintf(&b, "*Source: %s*\n\n", a.Image.Source)
		}
	}

	b.WriteString(resourcesHeading + "\n\n")
	for i, r := range a.Resources {
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, r.Label, r.URL)
	}
	return b.String()
}

func altText(title string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(title)
}

// Parse reads a document produced by Markdown. Outline, body and resources
// come back exactly as rendered; WordCount is recomputed from the body.
func Parse(doc string) (generator.Article, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	first, rest, _ := strings.Cut(doc, "\n")
	if !strings.HasPrefix(first, "# ") {
		return generator.Article{}, errors.New("export: missing title heading")
	}
	a := generator.Article{Title: strings.TrimSpace(strings.TrimPrefix(first, "# "))}

	outlineStart := strings.Index(rest, outlineHeading+"\n")
	articleStart := strings.Index(rest, "\n"+articleHeading+"\n")
	resourcesStart := strings.LastIndex(rest, "\n"+resourcesHeading+"\n")
	if outlineStart < 0 || articleStart < 0 || resourcesStart < 0 || articleStart < outlineStart || resourcesStart < articleStart {
		return generator.Article{}, errors.New("export: missing section")
	}

	for _, line := range strings.Split(rest[outlineStart+len(outlineHeading):articleStart], "\n") {
		if m := numberedPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			a.Outline = append(a.Outline, m[1])
		}
	}

	bodyEnd := resourcesStart
	bodyStart := articleStart + len("\n"+articleHeading+"\n")
	if imageStart := strings.LastIndex(rest[:resourcesStart], "\n"+imageHeading+"\n"); imageStart >= bodyStart {
		bodyEnd = imageStart
		ref, err := parseImage(rest[imageStart+len("\n"+imageHeading+"\n") : resourcesStart])
		if err != nil {
			return generator.Article{}, err
		}
		a.Image = ref
	}
	a.Body = strings.TrimPrefix(rest[bodyStart:bodyEnd], "\n")
	a.Body = strings.TrimSuffix(a.Body, "\n")
	a.WordCount = generator.CountWords(a.Body)

	for i, line := range strings.Split(rest[resourcesStart+len("\n"+resourcesHeading+"\n"):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := resourcePattern.FindStringSubmatch(line)
		if m == nil {
			return generator.Article{}, fmt.Errorf("export: resource line %d: %q", i+1, line)
		}
		a.Resources = append(a.Resources, generator.Resource{Label: m[1], URL: m[2]})
	}
	return a, nil
}

func parseImage(section string) (*generator.ImageReference, error) {
	var ref generator.ImageReference
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if m := imagePattern.FindStringSubmatch(line); m != nil {
			ref.URL = m[1]
		} else if m := captionPattern.FindStringSubmatch(line); m != nil {
			ref.Source = m[1]
		}
	}
	if ref.URL == "" {
		return nil, errors.New("export: header image section without image")
	}
	return &ref, nil
}

// Filename turns a title into a download name: spaces become underscores
// and anything outside letters, digits, '-', '_' and '.' is dropped.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		name = "article"
	}
	return name + ".md"
}
