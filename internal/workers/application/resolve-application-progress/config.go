// internal/workers/application/resolve-application-progress/config.go
package resolveapplicationprogress

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
