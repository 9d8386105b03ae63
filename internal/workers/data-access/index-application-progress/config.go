// internal/workers/data-access/index-application-progress/config.go
package indexapplicationprogress

import (
	"time"

	"carecase-workers/internal/roster"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(index string) *Config {
	if index == "" {
		index = roster.DefaultIndex
	}
	return &Config{
		Index:   index,
		Timeout: 15 * time.Second,
	}
}
