package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"
)

const userAgent = "FloodWatch/1.0"

// fetch выполняет GET через предохранитель и возвращает тело ответа
func fetch(ctx context.Context, cb *gobreaker.CircuitBreaker[[]byte], client *http.Client, url string) ([]byte, error) {
	return cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", req.URL.Host, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s: status %d: %s", req.URL.Host, resp.StatusCode, body)
		}
		return body, nil
	})
}
