package imagery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFreepikURL = "https://api.freepik.com/v1/resources"

// HTTPError is a non-200 reply from an image provider.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Freepik searches the Freepik stock photo catalogue.
type Freepik struct {
	APIKey   string
	Endpoint string
	client   *http.Client
}

// NewFreepik returns a searcher. endpoint may be empty for the public API.
func NewFreepik(apiKey, endpoint string, client *http.Client) (*Freepik, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("freepik api key is required")
	}
	if endpoint == "" {
		endpoint = defaultFreepikURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Freepik{APIKey: apiKey, Endpoint: endpoint, client: client}, nil
}

func (f *Freepik) Name() string { return "Freepik" }

type urlRef struct {
	URL string `json:"url"`
}

type freepikItem struct {
	Attributes *struct {
		Preview *urlRef `json:"preview"`
	} `json:"attributes"`
	Images *struct {
		Preview *urlRef `json:"preview"`
	} `json:"images"`
	Image *struct {
		Source *urlRef `json:"source"`
	} `json:"image"`
}

type freepikResp struct {
	Data []freepikItem `json:"data"`
}

// previewURL picks the first preview URL the item carries.
func (it freepikItem) previewURL() string {
	switch {
	case it.Attributes != nil && it.Attributes.Preview != nil && it.Attributes.Preview.URL != "":
		return it.Attributes.Preview.URL
	case it.Images != nil && it.Images.Preview != nil && it.Images.Preview.URL != "":
		return it.Images.Preview.URL
	case it.Image != nil && it.Image.Source != nil && it.Image.Source.URL != "":
		return it.Image.Source.URL
	}
	return ""
}

// Search returns preview URLs for photos matching query. Items without a
// usable URL are skipped, so an all-unusable page counts as empty.
func (f *Freepik) Search(ctx context.Context, query string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("term", query)
	q.Set("limit", "1")
	q.Set("filters[content_type]", "photo")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+f.APIKey)
	req.Header.Set("x-freepik-api-key", f.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: f.Endpoint, Body: strings.TrimSpace(string(body))}
	}

	var data freepikResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding freepik response: %w", err)
	}
	var urls []string
	for _, it := range data.Data {
		if u := it.previewURL(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
