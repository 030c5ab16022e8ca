package imagery

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DallE generates header images through the OpenAI images API.
type DallE struct {
	Model  string
	client openai.Client
}

// NewDallE builds a generator with SDK retries disabled.
func NewDallE(apiKey, model, baseURL string, extra ...option.RequestOption) (*DallE, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &DallE{Model: model, client: openai.NewClient(opts...)}, nil
}

func (d *DallE) Name() string { return "DALL-E" }

func (d *DallE) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := d.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(d.Model),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		Quality:        openai.ImageGenerateParamsQualityStandard,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
		N:              openai.Int(1),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("openai images: empty response")
	}
	return resp.Data[0].URL, nil
}
