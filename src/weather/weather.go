// Package weather fetches current conditions from the open-meteo API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInvalidCoordinates is returned for latitude/longitude outside the valid range
var ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")

// Seoul is used when the caller provides no coordinates
const (
	DefaultLatitude  = 37.5665
	DefaultLongitude = 126.9780
)

// Conditions is the current weather at a location
type Conditions struct {
	Temperature int     `json:"temperature"`
	Weather     string  `json:"weather"`
	Description string  `json:"description"`
	Code        int     `json:"icon"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Effect      string  `json:"effect"`
	Emoji       string  `json:"emoji"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Client calls the forecast endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a weather client for baseURL (e.g. https://api.open-meteo.com/v1)
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Current returns the current conditions at (lat, lon)
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Warn("天気APIがエラーを返しました")
		return nil, fmt.Errorf("weather api returned %d", resp.StatusCode)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	text := CodeText(data.Current.WeatherCode)
	return &Conditions{
		Temperature: int(math.Round(data.Current.Temperature)),
		Weather:     text,
		Description: text,
		Code:        data.Current.WeatherCode,
		Humidity:    data.Current.Humidity,
		WindSpeed:   data.Current.WindSpeed,
		Effect:      Effect(text),
		Emoji:       Emoji(text),
	}, nil
}

var codeTexts = map[int]string{
	0: "Clear", 1: "Clear",
	2: "Clouds", 3: "Clouds",
	45: "Fog", 48: "Fog",
	51: "Rain", 53: "Rain", 55: "Rain", 56: "Rain", 57: "Rain",
	61: "Rain", 63: "Rain", 65: "Rain", 66: "Rain", 67: "Rain",
	71: "Snow", 73: "Snow", 75: "Snow", 77: "Snow",
	80: "Rain", 81: "Rain", 82: "Rain",
	85: "Snow", 86: "Snow",
	95: "Thunderstorm", 96: "Thunderstorm", 99: "Thunderstorm",
}

// CodeText maps a WMO weather code to its text; unknown codes read as Clear
func CodeText(code int) string {
	if text, ok := codeTexts[code]; ok {
		return text
	}
	return "Clear"
}

// Effect picks the background effect for a weather text: rain, snow, cloudy or clear
func Effect(weather string) string {
	w := strings.ToLower(weather)
	switch {
	case strings.Contains(w, "rain"), strings.Contains(w, "drizzle"):
		return "rain"
	case strings.Contains(w, "snow"):
		return "snow"
	case strings.Contains(w, "cloud"):
		return "cloudy"
	default:
		return "clear"
	}
}

// Emoji returns the icon shown next to a weather text
func Emoji(weather string) string {
	w := strings.ToLower(weather)
	switch {
	case strings.Contains(w, "rain"), strings.Contains(w, "drizzle"):
		return "🌧️"
	case strings.Contains(w, "snow"):
		return "❄️"
	case strings.Contains(w, "cloud"):
		return "☁️"
	case strings.Contains(w, "clear"):
		return "☀️"
	case strings.Contains(w, "thunder"):
		return "⛈️"
	case strings.Contains(w, "fog"), strings.Contains(w, "mist"):
		return "🌫️"
	default:
		return "🌤️"
	}
}
