package config

import (
	"strings"
	"time"
)

type HTTPConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetSuccessCode() int
}

type HTTP struct {
	BaseURL        string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	RequestTimeout time.Duration `env:"API_TIMEOUT" envDefault:"60s"`
	SuccessCode    int           `env:"API_SUCCESS_CODE" envDefault:"200"`
}

var _ HTTPConfig = HTTP{}

// GetBaseURL returns the API root without a trailing slash, e.g.
// "https://creator.example.com/api". Descriptor paths are appended to it.
func (h HTTP) GetBaseURL() string {
	return strings.TrimRight(h.BaseURL, "/")
}

func (h HTTP) GetRequestTimeout() time.Duration {
	if h.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return h.RequestTimeout
}

func (h HTTP) GetSuccessCode() int {
	if h.SuccessCode == 0 {
		return 200
	}
	return h.SuccessCode
}
