// internal/container/orchestration.go
package container

import (
	"context"
	"errors"
	"time"
)

// PortMapping represents container port mapping
type PortMapping struct {
	ContainerPort int    `json:"container_port"`
	HostPort      int    `json:"host_port"`
	Protocol      string `json:"protocol"`
}

// ResourceList represents resource quantities
type ResourceList struct {
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

// ResourceRequirements represents container resource requirements
type ResourceRequirements struct {
	Requests ResourceList `json:"requests"`
	Limits   ResourceList `json:"limits"`
}

// VolumeMount represents a volume mount in a container
type VolumeMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mount_path"`
	ReadOnly  bool   `json:"read_only"`
	SubPath   string `json:"sub_path"`
}

// HTTPGetAction represents an HTTP GET probe action
type HTTPGetAction struct {
	Path   string `json:"path"`
	Port   int    `json:"port"`
	Scheme string `json:"scheme"`
}

// ExecAction represents an exec probe action
type ExecAction struct {
	Command []string `json:"command"`
}

// TCPSocketAction represents a TCP socket probe action
type TCPSocketAction struct {
	Port int `json:"port"`
}

// Probe represents a container probe
type Probe struct {
	HTTPGet             *HTTPGetAction   `json:"http_get,omitempty"`
	Exec                *ExecAction      `json:"exec,omitempty"`
	TCPSocket           *TCPSocketAction `json:"tcp_socket,omitempty"`
	InitialDelaySeconds int              `json:"initial_delay_seconds"`
	PeriodSeconds       int              `json:"period_seconds"`
	TimeoutSeconds      int              `json:"timeout_seconds"`
	SuccessThreshold    int              `json:"success_threshold"`
	FailureThreshold    int              `json:"failure_threshold"`
}

// ContainerSpec represents a container specification
type ContainerSpec struct {
	Name            string                `json:"name"`
	Image           string                `json:"image"`
	Command         []string              `json:"command,omitempty"`
	Args            []string              `json:"args,omitempty"`
	Env             map[string]string     `json:"env,omitempty"`
	Ports           []PortMapping         `json:"ports,omitempty"`
	Resources       *ResourceRequirements `json:"resources,omitempty"`
	VolumeMounts    []VolumeMount         `json:"volume_mounts,omitempty"`
	LivenessProbe   *Probe                `json:"liveness_probe,omitempty"`
	ReadinessProbe  *Probe                `json:"readiness_probe,omitempty"`
	StartupProbe    *Probe                `json:"startup_probe,omitempty"`
	ImagePullPolicy string                `json:"image_pull_policy"`
	WorkingDir      string                `json:"working_dir"`
}

// Validate checks the container spec
func (s *ContainerSpec) Validate() error {
	if s.Name == "" {
		return errors.New("orchestration: container name is required")
	}
	if s.Image == "" {
		return errors.New("orchestration: container image is required")
	}
	return nil
}

// RollingUpdateStrategy represents rolling update configuration
type RollingUpdateStrategy struct {
	MaxUnavailable string `json:"max_unavailable"`
	MaxSurge       string `json:"max_surge"`
}

// DeploymentSpec represents a deployment specification
type DeploymentSpec struct {
	Name                 string                 `json:"name"`
	Namespace            string                 `json:"namespace"`
	Replicas             int                    `json:"replicas"`
	Selector             map[string]string      `json:"selector"`
	Template             *ContainerSpec         `json:"template"`
	Strategy             *RollingUpdateStrategy `json:"strategy,omitempty"`
	RevisionHistoryLimit int                    `json:"revision_history_limit"`
}

// Validate checks the deployment spec
func (s *DeploymentSpec) Validate() error {
	if s.Name == "" {
		return errors.New("orchestration: deployment name is required")
	}
	if s.Replicas < 1 {
		return errors.New("orchestration: replicas must be at least 1")
	}
	if s.Template == nil {
		return errors.New("orchestration: template is required")
	}
	return s.Template.Validate()
}

// DeploymentCondition represents a deployment condition
type DeploymentCondition struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// DeploymentStatus represents deployment status
type DeploymentStatus struct {
	Name              string                `json:"name"`
	Namespace         string                `json:"namespace"`
	Replicas          int                   `json:"replicas"`
	ReadyReplicas     int                   `json:"ready_replicas"`
	UpdatedReplicas   int                   `json:"updated_replicas"`
	AvailableReplicas int                   `json:"available_replicas"`
	Conditions        []DeploymentCondition `json:"conditions"`
}

// IsReady returns true if deployment is ready
func (s *DeploymentStatus) IsReady() bool {
	return s.ReadyReplicas == s.Replicas && s.Replicas > 0
}

// ServiceType represents service type
type ServiceType string

const (
	ServiceTypeClusterIP    ServiceType = "ClusterIP"
	ServiceTypeNodePort     ServiceType = "NodePort"
	ServiceTypeLoadBalancer ServiceType = "LoadBalancer"
)

// ServicePort represents a service port
type ServicePort struct {
	Name       string `json:"name"`
	Port       int    `json:"port"`
	TargetPort int    `json:"target_port"`
	NodePort   int    `json:"node_port,omitempty"`
	Protocol   string `json:"protocol"`
}

// ServiceSpec represents a service specification
type ServiceSpec struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Type       ServiceType       `json:"type"`
	Selector   map[string]string `json:"selector"`
	Ports      []ServicePort     `json:"ports"`
	ClusterIP  string            `json:"cluster_ip,omitempty"`
	ExternalIP string            `json:"external_ip,omitempty"`
}

// OrchestratorConfig configures the orchestrator
type OrchestratorConfig struct {
	Provider   string        `json:"provider"`
	Kubeconfig string        `json:"kubeconfig"`
	Namespace  string        `json:"namespace"`
	Timeout    time.Duration `json:"timeout"`
}

// Orchestrator manages container deployments
type Orchestrator struct {
	config *OrchestratorConfig
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(config *OrchestratorConfig) *Orchestrator {
	return &Orchestrator{config: config}
}

// Deploy deploys an application
func (o *Orchestrator) Deploy(ctx context.Context, spec *DeploymentSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if o.config.Provider == "mock" {
		return nil
	}
	return errors.New("orchestration: not implemented")
}

// Scale scales a deployment
func (o *Orchestrator) Scale(ctx context.Context, namespace, name string, replicas int) error {
	if o.config.Provider == "mock" {
		return nil
	}
	return errors.New("orchestration: not implemented")
}

// Rollback rolls back a deployment to a previous revision
func (o *Orchestrator) Rollback(ctx context.Context, namespace, name string, revision int) error {
	if o.config.Provider == "mock" {
		return nil
	}
	return errors.New("orchestration: not implemented")
}

// GetStatus gets deployment status
func (o *Orchestrator) GetStatus(ctx context.Context, namespace, name string) (*DeploymentStatus, error) {
	if o.config.Provider == "mock" {
		return &DeploymentStatus{
			Name:              name,
			Namespace:         namespace,
			Replicas:          3,
			ReadyReplicas:     3,
			UpdatedReplicas:   3,
			AvailableReplicas: 3,
		}, nil
	}
	return nil, errors.New("orchestration: not implemented")
}

// CreateService creates a service
func (o *Orchestrator) CreateService(ctx context.Context, spec *ServiceSpec) error {
	if o.config.Provider == "mock" {
		return nil
	}
	return errors.New("orchestration: not implemented")
}

// DeleteDeployment deletes a deployment
func (o *Orchestrator) DeleteDeployment(ctx context.Context, namespace, name string) error {
	if o.config.Provider == "mock" {
		return nil
	}
	return errors.New("orchestration: not implemented")
}
