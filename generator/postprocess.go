package generator

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// outlineMarkerPattern strips list bullets and numbering such as "1.", "2)",
// "IV.", "a." and "-" from the start of an outline line.
var outlineMarkerPattern = regexp.MustCompile(`^(?:[-*+•]|\d+(?:\.\d+)+[.)]?|(?:\d+|[IVXLCivxlc]+|[A-Za-z])[.)])\s+`)

// ParseOutline turns the model's outline text into an ordered heading list.
func ParseOutline(raw, title string) Outline {
	var out Outline
	for _, line := range strings.Split(raw, "\n") {
		h := strings.TrimSpace(line)
		h = strings.TrimLeft(h, "#")
		h = strings.TrimSpace(strings.ReplaceAll(h, "**", ""))
		for {
			stripped := outlineMarkerPattern.ReplaceAllString(h, "")
			if stripped == h {
				break
			}
			h = strings.TrimSpace(stripped)
		}
		h = strings.TrimSpace(strings.Trim(h, "*_"))
		if h == "" || strings.Trim(h, "-=_*") == "" {
			continue
		}
		if strings.EqualFold(h, title) || strings.EqualFold(strings.TrimSuffix(h, ":"), "outline") {
			continue
		}
		out = append(out, h)
	}
	return out
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// withinTolerance reports whether n falls in [min*0.8, max*1.2].
func withinTolerance(n, min, max int) bool {
	return float64(n) >= float64(min)*0.8 && float64(n) <= float64(max)*1.2
}

type resourceEnvelope struct {
	Resources []Resource `json:"resources"`
}

// ParseResources extracts and validates exactly ResourceCount links from the
// model response. Anything else is a DataQualityError.
func ParseResources(raw string) ([]Resource, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, &DataQualityError{Stage: StageResources, Detail: "response contains no JSON"}
	}

	var resources []Resource
	if strings.HasPrefix(payload, "[") {
		if err := json.Unmarshal([]byte(payload), &resources); err != nil {
			return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("malformed JSON: %v", err)}
		}
	} else {
		var env resourceEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("malformed JSON: %v", err)}
		}
		resources = env.Resources
	}

	if len(resources) != ResourceCount {
		return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("got %d resources, want %d", len(resources), ResourceCount)}
	}
	for i := range resources {
		resources[i].Label = strings.TrimSpace(resources[i].Label)
		resources[i].URL = strings.TrimSpace(resources[i].URL)
		if resources[i].Label == "" {
			return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("resource %d has no label", i+1)}
		}
		if strings.ContainsFunc(resources[i].Label, badLabelRune) {
			return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("resource %d label %q has line breaks or brackets", i+1, resources[i].Label)}
		}
		if strings.ContainsFunc(resources[i].URL, unicode.IsSpace) || !isWebURL(resources[i].URL) {
			return nil, &DataQualityError{Stage: StageResources, Detail: fmt.Sprintf("resource %d has invalid url %q", i+1, resources[i].URL)}
		}
	}
	return resources, nil
}

// badLabelRune reports runes that would break a "[label](url)" link line.
func badLabelRune(r rune) bool {
	return r == '[' || r == ']' || unicode.IsControl(r)
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var (
	fencePattern    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	envelopePattern = regexp.MustCompile(`\{\s*"resources"\s*:`)
)

// extractJSON narrows the response to a fenced block when there is one, then
// returns the {"resources": ...} object if present, otherwise the span from
// the first opening bracket to the matching last closing one.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if loc := envelopePattern.FindStringIndex(s); loc != nil {
		end := strings.LastIndex(s, "}")
		if end < loc[0] {
			return ""
		}
		return s[loc[0] : end+1]
	}

	obj := strings.Index(s, "{")
	arr := strings.Index(s, "[")
	switch {
	case obj < 0 && arr < 0:
		return ""
	case arr >= 0 && (obj < 0 || arr < obj):
		end := strings.LastIndex(s, "]")
		if end < arr {
			return ""
		}
		return s[arr : end+1]
	default:
		end := strings.LastIndex(s, "}")
		if end < obj {
			return ""
		}
		return s[obj : end+1]
	}
}
