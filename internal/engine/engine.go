package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CoreEngine implements the Engine interface
type CoreEngine struct {
	drivers map[string]Driver
	primary string
	backup  string
	logger  *zap.Logger

	// Hidden components (ready but dormant)
	cache map[string][]byte // Simple cache for now
	mu    sync.RWMutex

	// Metrics for ML training
	accessLog []AccessEvent
	accessMu  sync.Mutex
}

// AccessEvent for ML training data
type AccessEvent struct {
	Container string
	Artifact  string
	Operation string
	Timestamp time.Time
	Latency   time.Duration
	Size      int64
	Success   bool
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger) *CoreEngine {
	return &CoreEngine{
		drivers:   make(map[string]Driver),
		logger:    logger,
		cache:     make(map[string][]byte),
		accessLog: make([]AccessEvent, 0, 10000),
	}
}

// AddDriver adds a storage driver
func (e *CoreEngine) AddDriver(name string, driver Driver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drivers[name] = driver
	if e.primary == "" {
		e.primary = name
	}
}

// SetPrimary sets the primary driver
func (e *CoreEngine) SetPrimary(name string) {
	e.primary = name
}

// SetBackup sets the backup driver
func (e *CoreEngine) SetBackup(name string) {
	e.backup = name
}

// Get retrieves an artifact (S3 GetObject)
func (e *CoreEngine) Get(ctx context.Context, container, artifact string) (io.ReadCloser, error) {
	start := time.Now()

	// Log for ML training
	defer func() {
		e.logAccess(AccessEvent{
			Container: container,
			Artifact:  artifact,
			Operation: "GET",
			Timestamp: start,
			Latency:   time.Since(start),
		})
	}()

	// Check cache first (future ML-powered cache)
	cacheKey := container + "/" + artifact
	if cached, ok := e.getCached(cacheKey); ok {
		e.logger.Debug("cache hit",
			zap.String("container", container),
			zap.String("artifact", artifact))
		// Return cached data (TODO: implement cache reader)
		_ = cached
	}

	// Try primary driver
	driver, ok := e.drivers[e.primary]
	if !ok {
		return nil, fmt.Errorf("no primary driver configured")
	}

	return driver.Get(ctx, container, artifact)
}

// Put stores an artifact (S3 PutObject)
func (e *CoreEngine) Put(ctx context.Context, container, artifact string, data io.Reader) error {
	start := time.Now()

	// Log for ML training
	defer func() {
		e.logAccess(AccessEvent{
			Container: container,
			Artifact:  artifact,
			Operation: "PUT",
			Timestamp: start,
			Latency:   time.Since(start),
		})
	}()

	// Store to primary
	if driver, ok := e.drivers[e.primary]; ok {
		if err := driver.Put(ctx, container, artifact, data); err != nil {
			return fmt.Errorf("failed to store to primary driver: %w", err)
		}
	}

	// Queue for backup (async)
	if e.backup != "" && e.backup != e.primary {
		go func() {
			if _, ok := e.drivers[e.backup]; ok { // Changed driver to _ since we're not using it yet
				// TODO: Re-read data for backup
				e.logger.Info("queued for backup",
					zap.String("artifact", artifact))
			}
		}()
	}

	return nil
}

// Delete removes an artifact (S3 DeleteObject)
func (e *CoreEngine) Delete(ctx context.Context, container, artifact string) error {

	var lastErr error
	for name, driver := range e.drivers {
		if err := driver.Delete(ctx, container, artifact); err != nil {
			e.logger.Warn("delete failed",
				zap.String("driver", name),
				zap.Error(err))
			lastErr = err
		}
	}

	return lastErr
}

// List returns artifacts in a container (S3 ListObjects)
func (e *CoreEngine) List(ctx context.Context, container, prefix string) ([]Artifact, error) {
	if driver, ok := e.drivers[e.primary]; ok {
		keys, err := driver.List(ctx, container, "")
		if err != nil {
			return nil, err
		}

		artifacts := make([]Artifact, len(keys))
		for i, key := range keys {
			artifacts[i] = Artifact{
				Key:       key,
				Container: container,
				Type:      "blob", // Default type
			}
		}
		return artifacts, nil
	}

	return nil, fmt.Errorf("no driver available")
}

// Hidden WASM execution (returns error for now)
func (e *CoreEngine) Execute(ctx context.Context, container string, wasm []byte, input io.Reader) (io.Reader, error) {
	e.logger.Debug("WASM execution requested (not implemented)",
		zap.String("container", container))
	return nil, fmt.Errorf("WASM execution not yet implemented")
}

// Hidden SQL query (returns error for now)
func (e *CoreEngine) Query(ctx context.Context, sql string) (ResultSet, error) {
	e.logger.Debug("SQL query requested (not implemented)",
		zap.String("sql", sql))
	return nil, fmt.Errorf("SQL queries not yet implemented")
}

// Hidden ML training (returns error for now)
func (e *CoreEngine) Train(ctx context.Context, model string, data []byte) error {
	e.logger.Debug("ML training requested (not implemented)",
		zap.String("model", model))
	return fmt.Errorf("ML training not yet implemented")
}

// Hidden ML prediction (returns error for now)
func (e *CoreEngine) Predict(ctx context.Context, model string, input []byte) ([]byte, error) {
	e.logger.Debug("ML prediction requested (not implemented)",
		zap.String("model", model))
	return nil, fmt.Errorf("ML prediction not yet implemented")
}

// GetContainerMetadata returns container metadata
func (e *CoreEngine) GetContainerMetadata(ctx context.Context, container string) (*Container, error) {
	return &Container{
		Name:     container,
		Type:     "storage",
		Created:  time.Now(),
		Metadata: make(map[string]interface{}),
	}, nil
}

// GetArtifactMetadata returns artifact metadata
func (e *CoreEngine) GetArtifactMetadata(ctx context.Context, container, artifact string) (*Artifact, error) {
	return &Artifact{
		Container: container,
		Key:       artifact,
		Type:      "blob",
		Modified:  time.Now(),
		Metadata:  make(map[string]interface{}),
	}, nil
}

// HealthCheck verifies all drivers are healthy
func (e *CoreEngine) HealthCheck(ctx context.Context) error {
	for name, driver := range e.drivers {
		if err := driver.HealthCheck(ctx); err != nil {
			return fmt.Errorf("driver %s unhealthy: %w", name, err)
		}
	}
	return nil
}

// GetMetrics returns engine metrics
func (e *CoreEngine) GetMetrics(ctx context.Context) (map[string]interface{}, error) {
	e.accessMu.Lock()
	defer e.accessMu.Unlock()

	return map[string]interface{}{
		"total_requests": len(e.accessLog),
		"drivers":        len(e.drivers),
		"cache_size":     len(e.cache),
	}, nil
}

// Helper methods

func (e *CoreEngine) getCached(key string) ([]byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	data, ok := e.cache[key]
	return data, ok
}

func (e *CoreEngine) logAccess(event AccessEvent) {
	e.accessMu.Lock()
	defer e.accessMu.Unlock()

	e.accessLog = append(e.accessLog, event)

	// Keep only last 10000 events
	if len(e.accessLog) > 10000 {
		e.accessLog = e.accessLog[1:]
	}
}
