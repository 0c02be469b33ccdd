// internal/engine/disaster_recovery.go
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DisasterRecovery handles backend failures
type DisasterRecovery struct {
	mu              sync.RWMutex
	backendStatus   map[string]*BackendStatus
	failoverConfigs map[string]FailoverConfig
	recoveryPlans   map[string]RecoveryPlan
}

// BackendStatus tracks backend health
type BackendStatus struct {
	Backend     string
	State       string // "HEALTHY", "DEGRADED", "FAILED"
	LastCheck   time.Time
	LastError   string
	FailureTime *time.Time
}

// FailoverConfig defines failover behavior
type FailoverConfig struct {
	Primary      string
	Secondary    string
	AutoFailover bool
	FailoverTime time.Duration // How long to wait before failover
}

// RecoveryPlan defines recovery steps
type RecoveryPlan struct {
	Scenario     RecoveryScenario
	Steps        []RecoveryStep
	EstimatedRTO time.Duration // Recovery Time Objective
	EstimatedRPO time.Duration // Recovery Point Objective
}

// RecoveryScenario describes a failure scenario
type RecoveryScenario struct {
	FailureType string // "PARTIAL", "COMPLETE_FAILURE", "CORRUPTION"
	DataLoss    bool
	Scope       string // "SINGLE_BACKEND", "REGION", "GLOBAL"
}

// RecoveryStep is a single recovery action
type RecoveryStep struct {
	Order       int
	Description string
	Action      func(context.Context) error
	Automated   bool
}

// NewDisasterRecovery creates a DR system
func NewDisasterRecovery() *DisasterRecovery {
	return &DisasterRecovery{
		backendStatus:   make(map[string]*BackendStatus),
		failoverConfigs: make(map[string]FailoverConfig),
		recoveryPlans:   make(map[string]RecoveryPlan),
	}
}

// ReportFailure reports a backend failure
func (dr *DisasterRecovery) ReportFailure(backend, error string) {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	status, ok := dr.backendStatus[backend]
	if !ok {
		status = &BackendStatus{Backend: backend}
		dr.backendStatus[backend] = status
	}

	now := time.Now()
	status.State = "FAILED"
	status.LastError = error
	status.LastCheck = now
	status.FailureTime = &now

	// Trigger automatic failover if configured
	if config, hasConfig := dr.failoverConfigs[backend]; hasConfig && config.AutoFailover {
		go dr.performFailover(backend, config)
	}
}

// performFailover executes failover
func (dr *DisasterRecovery) performFailover(backend string, config FailoverConfig) {
	// Wait for configured time before failover
	time.Sleep(config.FailoverTime)

	dr.mu.Lock()
	defer dr.mu.Unlock()

	// Double-check backend is still failed
	if status, ok := dr.backendStatus[backend]; ok && status.State == "FAILED" {
		// Update configuration to use secondary
		dr.failoverConfigs[backend] = FailoverConfig{
			Primary:      config.Secondary,
			Secondary:    config.Primary, // Swap for potential failback
			AutoFailover: config.AutoFailover,
			FailoverTime: config.FailoverTime,
		}
	}
}

// GetBackendStatus returns backend status
func (dr *DisasterRecovery) GetBackendStatus(backend string) *BackendStatus {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	if status, ok := dr.backendStatus[backend]; ok {
		return status
	}

	return &BackendStatus{
		Backend: backend,
		State:   "UNKNOWN",
	}
}

// ConfigureFailover sets failover configuration
func (dr *DisasterRecovery) ConfigureFailover(backend string, config FailoverConfig) {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	dr.failoverConfigs[backend] = config
}

// GetActiveBackend returns the active backend after any failovers
func (dr *DisasterRecovery) GetActiveBackend(backend string) string {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	if config, ok := dr.failoverConfigs[backend]; ok {
		return config.Primary
	}

	return backend
}

// CreateRecoveryPlan creates a recovery plan for a scenario
func (dr *DisasterRecovery) CreateRecoveryPlan(backend string, scenario RecoveryScenario) *RecoveryPlan {
	plan := &RecoveryPlan{
		Scenario: scenario,
		Steps:    []RecoveryStep{},
	}

	switch scenario.FailureType {
	case "COMPLETE_FAILURE":
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       1,
			Description: "Initiate immediate failover to secondary backend",
			Automated:   true,
		})
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       2,
			Description: "Verify data integrity on secondary",
			Automated:   true,
		})
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       3,
			Description: "Update DNS/routing to point to secondary",
			Automated:   true,
		})
		plan.EstimatedRTO = 5 * time.Minute
		plan.EstimatedRPO = 1 * time.Hour

	case "PARTIAL":
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       1,
			Description: "Identify affected data",
			Automated:   true,
		})
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       2,
			Description: "Restore from backup",
			Automated:   true,
		})
		plan.EstimatedRTO = 30 * time.Minute
		plan.EstimatedRPO = 4 * time.Hour

	case "CORRUPTION":
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       1,
			Description: "Isolate corrupted data",
			Automated:   false,
		})
		plan.Steps = append(plan.Steps, RecoveryStep{
			Order:       2,
			Description: "Restore from last known good backup",
			Automated:   true,
		})
		plan.EstimatedRTO = 2 * time.Hour
		plan.EstimatedRPO = 24 * time.Hour
	}

	return plan
}

// ExecuteRecoveryPlan executes a recovery plan
func (dr *DisasterRecovery) ExecuteRecoveryPlan(ctx context.Context, plan *RecoveryPlan) error {
	for _, step := range plan.Steps {
		if step.Automated && step.Action != nil {
			if err := step.Action(ctx); err != nil {
				return fmt.Errorf("step %d failed: %w", step.Order, err)
			}
		}
	}
	return nil
}

// TestFailover simulates a failover for testing
func (dr *DisasterRecovery) TestFailover(backend string) error {
	config, ok := dr.failoverConfigs[backend]
	if !ok {
		return fmt.Errorf("no failover configured for %s", backend)
	}

	// Temporarily switch to secondary
	original := config.Primary
	config.Primary = config.Secondary
	config.Secondary = original

	dr.mu.Lock()
	dr.failoverConfigs[backend] = config
	dr.mu.Unlock()

	// Test and revert after 30 seconds
	go func() {
		time.Sleep(30 * time.Second)
		dr.mu.Lock()
		config.Primary = original
		config.Secondary = config.Primary
		dr.failoverConfigs[backend] = config
		dr.mu.Unlock()
	}()

	return nil
}
