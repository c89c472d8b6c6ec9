// Package media оценивает вложения к отчетам о подтоплении.
package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ReachableImageScore оценка для доступного изображения без модели распознавания
const ReachableImageScore = 0.65

// ProbeAnalyzer проверяет, что ссылка отдает изображение.
// Модель распознавания воды не подключена, поэтому доступное изображение получает фиксированную оценку.
type ProbeAnalyzer struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[float64]
}

func NewProbeAnalyzer(timeout time.Duration) *ProbeAnalyzer {
	return &ProbeAnalyzer{
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
			Name:        "media-probe",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 10
			},
		}),
	}
}

// Analyze возвращает уверенность 0..1 в том, что на изображении подтопление
func (a *ProbeAnalyzer) Analyze(ctx context.Context, url string) (float64, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return 0, nil
	}
	return a.breaker.Execute(func() (float64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return 0, fmt.Errorf("create probe request: %w", err)
		}
		resp, err := a.client.Do(req)
		if err != nil {
			return 0, fmt.Errorf("probe %s: %w", req.URL.Host, err)
		}
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return 0, nil
		}
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
			return 0, nil
		}
		return ReachableImageScore, nil
	})
}
