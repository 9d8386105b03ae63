// internal/workers/data-access/query-application-progress/config.go
package queryapplicationprogress

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
