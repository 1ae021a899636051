package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/cloo-solutions/hackscout/internal/domain"
)

const (
	maxTries       = 3
	maxElapsedTime = 30 * time.Second
	maxBodyBytes   = 2 << 20
)

// getJSON performs req with retries on transient statuses and decodes the
// body into out. A 404 maps to domain.ErrProfileNotFound.
func getJSON(ctx context.Context, client *http.Client, build func(ctx context.Context) (*http.Request, error), out interface{}) error {
	operation := func() (struct{}, error) {
		req, err := build(ctx)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, backoff.Permanent(domain.ErrProfileNotFound)
		case isRetryableStatus(resp.StatusCode):
			return struct{}{}, fmt.Errorf("status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return struct{}{}, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return struct{}{}, err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return struct{}{}, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(maxTries),
		backoff.WithMaxElapsedTime(maxElapsedTime),
	)
	return err
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
