// Package geocode - обратное геокодирование координат в адрес
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultURL = "https://nominatim.openstreetmap.org/reverse"
	userAgent  = "incident-reporter/1.0"
)

// NominatimClient - клиент reverse API Nominatim.
// Публичный сервис разрешает не больше одного запроса в секунду.
type NominatimClient struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatimClient(endpoint string, timeout time.Duration) *NominatimClient {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	return &NominatimClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode возвращает display_name точки. Пустая строка без ошибки -
// сервис ответил, но названия у точки нет.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("geocode rate limit: %w", err)
	}

	query := url.Values{
		"format": {"json"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send geocode request: %w", err)
	}
	defer resp.Body.Close()

	// статус ответа не проверяется: JSON-ошибка без display_name дает пустое имя,
	// ошибкой считается только тело, которое не разбирается как JSON
	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geocode response (status %d): %w", resp.StatusCode, err)
	}
	// для точек без адреса Nominatim отвечает 200 с {"error": "Unable to geocode"}
	return body.DisplayName, nil
}
