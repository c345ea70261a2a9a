package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ngrokAPIBase      = "http://ngrok:4040"
	ngrokAttempts     = 10
	ngrokRetryBackoff = 3 * time.Second
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// detectNgrokURL queries the ngrok local API and returns the first HTTPS tunnel URL.
// ngrok may still be starting, so it retries with a fixed backoff.
func detectNgrokURL(ctx context.Context, apiBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= ngrokAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokRetryBackoff):
			}
		}

		tunnels, err := listNgrokTunnels(ctx, client, apiBase+"/api/tunnels")
		if err != nil {
			lastErr = err
			continue
		}

		// Prefer HTTPS tunnels
		for _, t := range tunnels {
			if t.Proto == "https" {
				return t.PublicURL, nil
			}
		}
		if len(tunnels) > 0 {
			return tunnels[0].PublicURL, nil
		}
		lastErr = fmt.Errorf("no active tunnels")
	}

	return "", fmt.Errorf("ngrok: giving up after %d attempts: %w", ngrokAttempts, lastErr)
}

func listNgrokTunnels(ctx context.Context, client *http.Client, url string) ([]ngrokTunnel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ngrok API not reachable: %w", err)
	}
	defer resp.Body.Close()

	var out ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode ngrok API response: %w", err)
	}
	return out.Tunnels, nil
}
