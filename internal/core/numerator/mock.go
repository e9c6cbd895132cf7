package numerator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Mock is an in-memory Generator for tests.
type Mock struct {
	counter int64
}

// NewMock creates a new mock generator.
func NewMock() *Mock {
	return &Mock{}
}

// GetNextNumber returns a deterministic sequential number.
func (m *Mock) GetNextNumber(_ context.Context, cfg Config, period time.Time) (string, error) {
	n := atomic.AddInt64(&m.counter, 1)
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), n), nil
	}
	return fmt.Sprintf("%s-%05d", cfg.Prefix, n), nil
}
