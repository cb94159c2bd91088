package handler

import (
	"context"
	"net/http"

	"diary-app/src/validator"
	"diary-app/src/weather"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WeatherProvider returns the current conditions at a location
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Conditions, error)
}

// WeatherHandler serves the weather widget data
type WeatherHandler struct {
	base
	provider   WeatherProvider
	defaultLat float64
	defaultLon float64
}

// NewWeatherHandler creates a weather handler falling back to (defaultLat, defaultLon)
func NewWeatherHandler(provider WeatherProvider, defaultLat, defaultLon float64, v *validator.CustomValidator, logger *logrus.Logger) *WeatherHandler {
	return &WeatherHandler{
		base:       newBase(v, logger),
		provider:   provider,
		defaultLat: defaultLat,
		defaultLon: defaultLon,
	}
}

// Current returns the weather at ?lat=&lon=; missing coordinates use the default location
func (h *WeatherHandler) Current(c *gin.Context) {
	var q WeatherQueryDTO
	if !h.bindQuery(c, &q) {
		return
	}

	lat, lon := h.defaultLat, h.defaultLon
	if q.Lat != nil && q.Lon != nil {
		lat, lon = *q.Lat, *q.Lon
	}

	conditions, err := h.provider.Current(c.Request.Context(), lat, lon)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			// 上流APIの障害
			h.logger.WithError(err).Warn("天気情報の取得に失敗")
			c.JSON(http.StatusBadGateway, ErrorResponseDTO{Error: "Weather service unavailable"})
			return
		}
		h.fail(c, err, "天気情報の取得")
		return
	}
	c.JSON(http.StatusOK, conditions)
}
