package queue

import "time"

// Config holds the worker configuration
type Config struct {
	PollInterval time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	TaskTimeout  time.Duration `env:"QUEUE_TASK_TIMEOUT" envDefault:"1m"`
	MaxAttempts  int           `env:"QUEUE_MAX_ATTEMPTS" envDefault:"3"`
}
