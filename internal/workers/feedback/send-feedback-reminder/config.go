// internal/workers/feedback/send-feedback-reminder/config.go
package sendfeedbackreminder

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
