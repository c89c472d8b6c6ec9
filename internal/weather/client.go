package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Client клиент OpenWeatherMap. Без ключа API работает на тестовых данных.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *logrus.Logger
}

func NewClient(apiKey, baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "openweather",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		logger: logger,
	}
}

// Enabled сообщает, настроен ли доступ к реальному API
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour   float64 `json:"1h"`
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current текущие условия в точке
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	if !c.Enabled() {
		return developmentConditions(), nil
	}

	body, err := c.get(ctx, "/weather", lat, lon, url.Values{"units": {"metric"}})
	if err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode current weather: %w", err)
	}

	cond := &Conditions{
		TemperatureC: resp.Main.Temp,
		Humidity:     resp.Main.Humidity,
		Pressure:     resp.Main.Pressure,
		Clouds:       resp.Clouds.All,
		Rainfall1h:   resp.Rain.OneHour,
		Rainfall3h:   resp.Rain.ThreeHour,
		WindSpeed:    resp.Wind.Speed,
	}
	if len(resp.Weather) > 0 {
		cond.Main = resp.Weather[0].Main
		cond.Description = resp.Weather[0].Description
	}
	return cond, nil
}

// Alerts активные предупреждения метеослужб для точки
func (c *Client) Alerts(ctx context.Context, lat, lon float64) ([]Alert, error) {
	if !c.Enabled() {
		return nil, nil
	}

	body, err := c.get(ctx, "/onecall", lat, lon, url.Values{"exclude": {"minutely,hourly,daily"}})
	if err != nil {
		return nil, fmt.Errorf("weather alerts: %w", err)
	}

	var resp struct {
		Alerts []Alert `json:"alerts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode weather alerts: %w", err)
	}
	return resp.Alerts, nil
}

// CorrelateReport сравнивает погоду в точке отчета с заявленной серьезностью.
// Ошибка получения предупреждений не прерывает оценку.
func (c *Client) CorrelateReport(ctx context.Context, lat, lon float64, severity models.SeverityLevel) (*Correlation, error) {
	cond, err := c.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	alerts, err := c.Alerts(ctx, lat, lon)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to fetch weather alerts, continuing without them")
	}
	corr := Correlate(*cond, alerts, severity)
	return &corr, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, extra url.Values) ([]byte, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"appid": {c.apiKey},
	}
	for k, v := range extra {
		params[k] = v
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openweather status %d", resp.StatusCode)
		}
		return body, nil
	})
}

func developmentConditions() *Conditions {
	return &Conditions{
		TemperatureC: 25.0,
		Humidity:     85,
		Pressure:     1013,
		Clouds:       75,
		Rainfall1h:   12.5,
		Rainfall3h:   25.0,
		Main:         "Rain",
		Description:  "heavy intensity rain",
		WindSpeed:    5.5,
	}
}
