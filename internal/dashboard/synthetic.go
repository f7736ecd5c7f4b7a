package dashboard

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/JaimeStill/pulse/internal/validation"
)

// SyntheticMetricsProvider supplies the operational figures that no real
// measurement system backs yet: batch counts, processing time, queue size,
// and the SPC series. Swapping in a telemetry-backed implementation leaves
// document assembly unchanged.
type SyntheticMetricsProvider interface {
	// BatchesToday estimates the number of batches processed today.
	BatchesToday(ctx context.Context) (int, error)
	// AvgProcessingTime is the mean batch processing time in seconds.
	AvgProcessingTime() float64
	// QueueSize estimates pending batches. r is nil when no result exists.
	QueueSize(r *validation.Result) int
	// DefaultTotalProcessed is reported when the dataset is unavailable.
	DefaultTotalProcessed() int
	// ProcessingSeries returns n per-batch processing times.
	ProcessingSeries(n int) []float64
}

// ArtifactLister lists the persisted validation JSON artifacts.
type ArtifactLister interface {
	JSONArtifacts(ctx context.Context) ([]string, error)
}

const (
	batchOffset           = 12
	defaultBatches        = 15
	avgProcessingSeconds  = 2.5
	processingJitter      = 0.5
	defaultTotalProcessed = 32561
)

// Synthetic derives placeholder metrics from validation artifacts and a
// random source. It is safe for concurrent use.
type Synthetic struct {
	artifacts ArtifactLister
	mu        sync.Mutex
	rng       *rand.Rand
}

// NewSynthetic creates a Synthetic provider. A nil rng is seeded from the clock.
func NewSynthetic(artifacts ArtifactLister, rng *rand.Rand) *Synthetic {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1|1))
	}
	return &Synthetic{artifacts: artifacts, rng: rng}
}

// BatchesToday counts validation JSON artifacts plus a fixed offset, or
// reports a default when none exist.
func (s *Synthetic) BatchesToday(ctx context.Context) (int, error) {
	keys, err := s.artifacts.JSONArtifacts(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return defaultBatches, nil
	}
	return len(keys) + batchOffset, nil
}

func (s *Synthetic) AvgProcessingTime() float64 {
	return avgProcessingSeconds
}

// QueueSize is 0 for a passing result, 3 for a failing one, and 5 when no
// result exists.
func (s *Synthetic) QueueSize(r *validation.Result) int {
	switch {
	case r == nil:
		return 5
	case r.OK:
		return 0
	default:
		return 3
	}
}

func (s *Synthetic) DefaultTotalProcessed() int {
	return defaultTotalProcessed
}

// ProcessingSeries samples the average processing time with Gaussian noise.
func (s *Synthetic) ProcessingSeries(n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]float64, n)
	for i := range values {
		values[i] = avgProcessingSeconds + s.rng.NormFloat64()*processingJitter
	}
	return values
}
