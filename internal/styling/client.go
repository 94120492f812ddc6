// internal/styling/client.go
package styling

import (
	"context"
	"fmt"
	"strings"

	commonerrors "adserve-core/internal/common/errors"
	httpclient "adserve-core/internal/common/http"
)

type editRequest struct {
	ImageURL string `json:"image_url"`
	Prompt   string `json:"prompt"`
}

type editResponse struct {
	ImageURL string `json:"image_url"`
}

// RestyleClient calls the external image styling service. One call carries a
// source image URL and a prompt; a successful response carries the hosted URL
// of the restyled image.
type RestyleClient struct {
	cfg        Config
	httpClient *httpclient.Client
}

func NewRestyleClient(cfg Config) *RestyleClient {
	return &RestyleClient{
		cfg:        cfg,
		httpClient: httpclient.NewClient(cfg.Timeout),
	}
}

// Restyle requests a styled variant of imageURL and returns its hosted URL.
func (c *RestyleClient) Restyle(ctx context.Context, imageURL, prompt string) (string, error) {
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/edits"

	var headers map[string]string
	if c.cfg.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	}

	var resp editResponse
	err := c.httpClient.PostJSON(ctx, endpoint, headers, editRequest{ImageURL: imageURL, Prompt: prompt}, &resp)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", commonerrors.NewStylingTimeoutError(imageURL)
		}
		return "", commonerrors.NewStylingFailedError(imageURL, err)
	}

	if resp.ImageURL == "" {
		return "", commonerrors.NewStylingFailedError(imageURL, fmt.Errorf("service returned no image url"))
	}

	return resp.ImageURL, nil
}
