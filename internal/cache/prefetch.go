// internal/cache/prefetch.go
package cache

import (
	"context"
)

// PrefetchStrategy defines how to predict and prefetch data
type PrefetchStrategy interface {
	ShouldPrefetch(key string, pattern *AccessPatternAnalysis) bool
	GetPrefetchKeys(key string) []string
}

// SequentialPrefetchStrategy prefetches sequential keys
type SequentialPrefetchStrategy struct {
	windowSize int
}

func (s *SequentialPrefetchStrategy) ShouldPrefetch(key string, pattern *AccessPatternAnalysis) bool {
	// Prefetch if accessed frequently and predictably
	return pattern != nil && pattern.AccessCount > 5 && pattern.Predictability > 0.7
}

func (s *SequentialPrefetchStrategy) GetPrefetchKeys(key string) []string {
	// For keys like "file-1", prefetch "file-2", "file-3", etc.
	// Simplified implementation
	return []string{key + "-next"}
}

// PredictivePrefetcher handles intelligent prefetching
type PredictivePrefetcher struct {
	analyzer   *PatternAnalyzer
	strategy   PrefetchStrategy
	prefetchCh chan string
	ctx        context.Context
	cancel     context.CancelFunc
	// cache field will be used later for actual prefetching
}

// NewPredictivePrefetcher creates a new prefetcher
func NewPredictivePrefetcher(analyzer *PatternAnalyzer, strategy PrefetchStrategy) *PredictivePrefetcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &PredictivePrefetcher{
		analyzer:   analyzer,
		strategy:   strategy,
		prefetchCh: make(chan string, 100),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// TriggerPrefetch analyzes if prefetch should occur
func (p *PredictivePrefetcher) TriggerPrefetch(key string) {
	pattern := p.analyzer.GetPattern(key)
	if p.strategy.ShouldPrefetch(key, pattern) {
		select {
		case p.prefetchCh <- key:
		default:
			// Channel full, skip prefetch
		}
	}
}
