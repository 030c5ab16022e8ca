package generator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers per prompt kind and records the prompts it saw.
type fakeLLM struct {
	replies map[PromptKind]string
	errs    map[PromptKind]error
	prompts []Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	if err := f.errs[p.Kind]; err != nil {
		return "", err
	}
	return f.replies[p.Kind], nil
}

func (f *fakeLLM) kinds() []PromptKind {
	var out []PromptKind
	for _, p := range f.prompts {
		out = append(out, p.Kind)
	}
	return out
}

type fakeImages struct {
	ref   ImageReference
	err   error
	calls int
}

func (f *fakeImages) Source(_ context.Context, _ string) (ImageReference, error) {
	f.calls++
	return f.ref, f.err
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func newTestAgent(t *testing.T, llm LLMClient, images ImageSourcer) (*Agent, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	a, err := NewAgent(llm, images, true, log.New(&buf, "", 0))
	require.NoError(t, err)
	return a, &buf
}

func happyLLM(bodyWords int) *fakeLLM {
	return &fakeLLM{replies: map[PromptKind]string{
		KindOutline:   "1. What is a qubit\n2. Superposition\n3. Entanglement\n4. Applications",
		KindArticle:   words(bodyWords),
		KindResources: fiveResources(),
	}}
}

func TestNewAgentRequiresDependencies(t *testing.T) {
	_, err := NewAgent(nil, &fakeImages{}, false, nil)
	assert.Error(t, err)
	_, err = NewAgent(MockLLM{}, nil, false, nil)
	assert.Error(t, err)
}

func TestGenerateEndToEnd(t *testing.T) {
	req, err := NewRequest("Intro to Quantum Computing", "800-1000")
	require.NoError(t, err)

	llm := happyLLM(900)
	images := &fakeImages{ref: ImageReference{URL: "https://img.example/q.png", Source: "Freepik"}}
	a, _ := newTestAgent(t, llm, images)

	var steps []Stage
	art, err := a.Generate(context.Background(), req, func(s Step) { steps = append(steps, s.Stage) })
	require.NoError(t, err)

	assert.Equal(t, "Intro to Quantum Computing", art.Title)
	assert.Equal(t, Outline{"What is a qubit", "Superposition", "Entanglement", "Applications"}, art.Outline)
	assert.Equal(t, 900, art.WordCount)
	assert.True(t, withinTolerance(art.WordCount, req.MinWords, req.MaxWords))
	require.NotNil(t, art.Image)
	assert.Equal(t, "https://img.example/q.png", art.Image.URL)
	assert.Len(t, art.Resources, ResourceCount)

	assert.Equal(t, []Stage{StageOutline, StageArticle, StageImage, StageResources}, steps)
	assert.Equal(t, []PromptKind{KindOutline, KindArticle, KindResources}, llm.kinds())
	assert.Equal(t, 1, images.calls)
}

func TestGeneratePromptsCarryInputs(t *testing.T) {
	req := Request{Title: "The History of Coffee", MinWords: 500, MaxWords: 700}
	llm := happyLLM(600)
	a, _ := newTestAgent(t, llm, &fakeImages{})

	_, err := a.Generate(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, llm.prompts, 3)
	assert.Contains(t, llm.prompts[0].User, "'The History of Coffee'")
	assert.Contains(t, llm.prompts[0].User, "500-700 words")
	assert.InDelta(t, 0.7, llm.prompts[0].Temperature, 1e-9)
	assert.Contains(t, llm.prompts[1].User, "1. What is a qubit\n2. Superposition")
	assert.Contains(t, llm.prompts[1].User, "500-700 words")
	assert.InDelta(t, 0.8, llm.prompts[1].Temperature, 1e-9)
	assert.Contains(t, llm.prompts[2].User, "exactly 5 entries")
}

func TestGenerateHistoryOfCoffeeHasFiveResources(t *testing.T) {
	req, err := NewRequest("The History of Coffee", "600-800")
	require.NoError(t, err)
	a, _ := newTestAgent(t, happyLLM(700), &fakeImages{})

	art, err := a.Generate(context.Background(), req, nil)
	require.NoError(t, err)
	require.Len(t, art.Resources, 5)
	for _, r := range art.Resources {
		assert.NotEmpty(t, r.Label)
		assert.True(t, strings.HasPrefix(r.URL, "https://"))
	}
}

func TestGenerateStopsOnUpstreamFailure(t *testing.T) {
	boom := errors.New("401 unauthorized")
	llm := happyLLM(900)
	llm.errs = map[PromptKind]error{KindArticle: boom}
	images := &fakeImages{}
	a, _ := newTestAgent(t, llm, images)

	art, err := a.Generate(context.Background(), Request{Title: "T", MinWords: 1, MaxWords: 2}, nil)
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, StageArticle, up.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Article{}, art)
	assert.Equal(t, 0, images.calls, "no later stage may run")
	assert.Equal(t, []PromptKind{KindOutline, KindArticle}, llm.kinds())
}

func TestGenerateImageFailureSurfaces(t *testing.T) {
	images := &fakeImages{err: errors.New("both providers down")}
	llm := happyLLM(10)
	a, _ := newTestAgent(t, llm, images)

	_, err := a.Generate(context.Background(), Request{Title: "T", MinWords: 1, MaxWords: 20}, nil)
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, StageImage, up.Stage)
	assert.NotContains(t, llm.kinds(), KindResources)
}

func TestGenerateShortResourceListIsAnError(t *testing.T) {
	llm := happyLLM(10)
	llm.replies[KindResources] = `{"resources":[{"label":"only","url":"https://one.example"}]}`
	a, _ := newTestAgent(t, llm, &fakeImages{})

	art, err := a.Generate(context.Background(), Request{Title: "T", MinWords: 1, MaxWords: 20}, nil)
	var dq *DataQualityError
	require.ErrorAs(t, err, &dq)
	assert.Equal(t, StageResources, dq.Stage)
	assert.Nil(t, art.Resources)
}

func TestOutlineWithoutHeadingsIsAnError(t *testing.T) {
	llm := &fakeLLM{replies: map[PromptKind]string{KindOutline: "\n---\n"}}
	a, _ := newTestAgent(t, llm, &fakeImages{})

	_, err := a.Outline(context.Background(), Request{Title: "T", MinWords: 1, MaxWords: 2})
	var dq *DataQualityError
	require.ErrorAs(t, err, &dq)
	assert.Equal(t, StageOutline, dq.Stage)
}

func TestWriteRejectsEmptyBody(t *testing.T) {
	llm := &fakeLLM{replies: map[PromptKind]string{KindArticle: "   \n"}}
	a, _ := newTestAgent(t, llm, &fakeImages{})

	_, err := a.Write(context.Background(), Request{Title: "T", MinWords: 1, MaxWords: 2}, Outline{"A"})
	var dq *DataQualityError
	require.ErrorAs(t, err, &dq)
}

func TestWriteLengthIsAdvisory(t *testing.T) {
	llm := &fakeLLM{replies: map[PromptKind]string{KindArticle: words(50)}}
	a, logs := newTestAgent(t, llm, &fakeImages{})

	body, err := a.Write(context.Background(), Request{Title: "T", MinWords: 800, MaxWords: 1000}, Outline{"A"})
	require.NoError(t, err)
	assert.Equal(t, 50, CountWords(body))
	assert.Contains(t, logs.String(), "warning: 50 words")
}

func TestSessionGenerate(t *testing.T) {
	a, err := NewAgent(MockLLM{Words: 900}, MockImages{}, false, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	sess := NewSession("abc", Request{Title: "Intro to Quantum Computing", MinWords: 800, MaxWords: 1000}, a)
	art, err := sess.Generate(context.Background())
	require.NoError(t, err)

	require.NotNil(t, sess.Article)
	assert.Equal(t, art, *sess.Article)
	assert.Equal(t, 900, art.WordCount)
	assert.Equal(t, "Mock", art.Image.Source)
	assert.Len(t, sess.Steps, 4)
	assert.Equal(t, Outline{"Introduction", "Background", "Early history", "Key ideas", "Conclusion"}, art.Outline)
}

func TestSessionFailureKeepsNoArticle(t *testing.T) {
	llm := &fakeLLM{errs: map[PromptKind]error{KindOutline: errors.New("timeout")}}
	a, _ := newTestAgent(t, llm, &fakeImages{})

	sess := NewSession("x", Request{Title: "T", MinWords: 1, MaxWords: 2}, a)
	_, err := sess.Generate(context.Background())
	require.Error(t, err)
	assert.Nil(t, sess.Article)
	assert.Empty(t, sess.Steps)
}
