package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HTTP resolves through the streaming backend:
// GET {BaseURL}/tracks/{id}/stream answers {"url": "..."}.
type HTTP struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type streamResponse struct {
	URL string `json:"url"`
}

func (h *HTTP) Resolve(ctx context.Context, id string) (string, error) {
	endpoint := strings.TrimRight(h.BaseURL, "/") + "/tracks/" + url.PathEscape(id) + "/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNoStream
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("stream backend: %s", resp.Status)
	}

	var body streamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode stream response: %w", err)
	}
	if strings.TrimSpace(body.URL) == "" {
		return "", ErrNoStream
	}
	return body.URL, nil
}
