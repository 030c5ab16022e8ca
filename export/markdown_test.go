package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caveman_article_agent/generator"
)

func sampleArticle() generator.Article {
	body := "## Introduction\n\nCoffee began in Ethiopia.\n\n## Spread\n\nIt reached Yemen, then Europe (via Venice)."
	return generator.Article{
		Title:   "The History of Coffee",
		Outline: generator.Outline{"Introduction", "Spread", "Conclusion"},
		Body:    body,
		Image:   &generator.ImageReference{URL: "https://img.example/coffee.jpg", Source: "Freepik"},
		Resources: []generator.Resource{
			{Label: "Coffee (Wikipedia)", URL: "https://en.wikipedia.org/wiki/Coffee"},
			{Label: "NCA History", URL: "https://www.ncausa.org/about-coffee/history-of-coffee"},
			{Label: "Britannica", URL: "https://www.britannica.com/topic/coffee"},
			{Label: "Smithsonian", URL: "https://www.smithsonianmag.com/coffee"},
			{Label: "BBC", URL: "https://www.bbc.co.uk/coffee"},
		},
		WordCount: generator.CountWords(body),
	}
}

func TestMarkdownSectionOrder(t *testing.T) {
	doc := Markdown(sampleArticle())

	require.True(t, strings.HasPrefix(doc, "# The History of Coffee\n"))
	order := []string{"## Outline", "1. Introduction", "## Article", "Coffee began", "## Header Image",
		"![The History of Coffee](https://img.example/coffee.jpg)", "*Source: Freepik*", "## Resources",
		"1. [Coffee (Wikipedia)](https://en.wikipedia.org/wiki/Coffee)", "5. [BBC](https://www.bbc.co.uk/coffee)"}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		require.GreaterOrEqual(t, i, 0, "missing %q", s)
		assert.Greater(t, i, last, "%q out of order", s)
		last = i
	}
}

func TestMarkdownWithoutImage(t *testing.T) {
	a := sampleArticle()
	a.Image = nil
	doc := Markdown(a)
	assert.NotContains(t, doc, "## Header Image")
	assert.Contains(t, doc, "## Resources")
}

func TestParseRoundTrip(t *testing.T) {
	want := sampleArticle()
	got, err := Parse(Markdown(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Image = nil
	got, err = Parse(Markdown(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseBodyContainingSectionNames(t *testing.T) {
	a := sampleArticle()
	a.Body = "Intro.\n\n## Resources\n\nSee below.\n\n## Outline\n\nDone."
	a.WordCount = generator.CountWords(a.Body)

	got, err := Parse(Markdown(a))
	require.NoError(t, err)
	assert.Equal(t, a.Body, got.Body)
	assert.Equal(t, a.Outline, got.Outline)
	assert.Equal(t, a.Resources, got.Resources)
}

func TestParseRoundTripsValidatedResources(t *testing.T) {
	raw := `{"resources": [
  {"label": "  Coffee (drink)  ", "url": "https://en.wikipedia.org/wiki/Coffee_(drink)"},
  {"label": "Coffee: a history", "url": "https://example.com/a?b=c&d=e"},
  {"label": "Café culture", "url": "https://example.com/caf%C3%A9"},
  {"label": "NCA", "url": "https://www.ncausa.org"},
  {"label": "Britannica", "url": "https://www.britannica.com/topic/coffee"}
]}`
	resources, err := generator.ParseResources(raw)
	require.NoError(t, err)

	a := sampleArticle()
	a.Resources = resources
	got, err := Parse(Markdown(a))
	require.NoError(t, err)
	assert.Equal(t, resources, got.Resources)
}

func TestParseRoundTripsValidatedTitle(t *testing.T) {
	req, err := generator.NewRequest("  Coffee: From Ethiopia [to] the World  ", "800-1000")
	require.NoError(t, err)

	a := sampleArticle()
	a.Title = req.Title
	got, err := Parse(Markdown(a))
	require.NoError(t, err)
	assert.Equal(t, req.Title, got.Title)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("no title here")
	assert.Error(t, err)

	_, err = Parse("# T\n\n## Article\n\nbody\n")
	assert.Error(t, err)

	_, err = Parse("# T\n\n## Outline\n\n1. a\n\n## Article\n\nbody\n\n## Resources\n\nnot a link\n")
	assert.ErrorContains(t, err, "resource line")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The History of Coffee", "The_History_of_Coffee.md"},
		{"Intro to Quantum Computing", "Intro_to_Quantum_Computing.md"},
		{"a/b\\c: d?", "abc_d.md"},
		{"../etc/passwd", "etcpasswd.md"},
		{"   ", "article.md"},
		{"", "article.md"},
		{"Café au lait", "Café_au_lait.md"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Filename(tt.title)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
		})
	}
}
