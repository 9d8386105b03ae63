// internal/workers/application/update-application-status/config.go
package updateapplicationstatus

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultActor is recorded in status history when the job names none.
	DefaultActor string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		DefaultActor: "workflow",
	}
}
