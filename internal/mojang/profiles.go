package mojang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ResolveNames maps player names to dashed UUIDs using the bulk profiles
// endpoint.
//
// Invalid usernames are dropped. Names are sent in batches of at most
// MaxBatchSize; a batch that fails is skipped after the backoff delay and the
// remaining batches still run. Every resolved profile is merged into the
// cache. Names that do not exist are simply absent from the result.
func (c *Client) ResolveNames(ctx context.Context, names []string) map[string]string {
	out := make(map[string]string)

	valid := make([]string, 0, len(names))
	for _, name := range names {
		if err := validateUsername(name); err != nil {
			slog.Warn("skipping invalid username", "name", name, "error", err)
			continue
		}
		valid = append(valid, name)
	}

	batches := chunk(valid, c.batchSize)
	for i, batch := range batches {
		pause := c.batchDelay

		profiles, err := c.lookupBatch(ctx, batch)
		if err != nil {
			slog.Warn("bulk profile lookup failed, skipping batch",
				"batch", i+1,
				"batches", len(batches),
				"names", len(batch),
				"error", err)
			pause = c.batchBackoff
		}

		for _, p := range profiles {
			if p.ID == "" || p.Name == "" {
				continue
			}
			id := formatUUID(p.ID)
			out[p.Name] = id
			c.cache.Merge(id, p.Name)
		}

		if i == len(batches)-1 {
			break
		}
		if err := sleep(ctx, pause); err != nil {
			slog.Debug("bulk profile lookup cancelled", "error", err)
			break
		}
	}

	slog.Debug("bulk profile lookup finished",
		"requested", len(names),
		"resolved", len(out),
		"batches", len(batches))

	return out
}

// lookupBatch performs one bulk request.
func (c *Client) lookupBatch(ctx context.Context, names []string) ([]ProfileResponse, error) {
	body, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.apiURL + "/profiles/minecraft"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("mojang API request", "url", url, "names", len(names))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		var profiles []ProfileResponse
		if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
		}
		return profiles, nil

	case http.StatusTooManyRequests:
		return nil, ErrRateLimitExceeded

	default:
		msg, _ := io.ReadAll(resp.Body)
		return nil, NewAPIError(resp.StatusCode, string(msg))
	}
}

func chunk(names []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(names); start += size {
		end := min(start+size, len(names))
		batches = append(batches, names[start:end])
	}
	return batches
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// validateUsername validates a Minecraft username.
// Rules:
// - Must be 1-16 characters long
// - Must contain only alphanumeric characters and underscores
func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidUsername)
	}

	if len(username) > 16 {
		return fmt.Errorf("%w: username must be 16 characters or less, got %d", ErrInvalidUsername, len(username))
	}

	for _, ch := range username {
		isAlpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isDigit := ch >= '0' && ch <= '9'
		isUnderscore := ch == '_'

		if !isAlpha && !isDigit && !isUnderscore {
			return fmt.Errorf("%w: username must contain only alphanumeric characters and underscores: %q", ErrInvalidUsername, username)
		}
	}

	return nil
}
