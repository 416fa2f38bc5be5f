package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client used for
// outbound calls to media hosts.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient rooted at baseURL. A zero timeout
// leaves resty's default in place.
//
//	client := utils.NewHTTPClient("https://api.cloudinary.com", 30*time.Second)
//	resp, err := client.R().Post("/v1_1/demo/auto/upload")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{Client: client}
}
