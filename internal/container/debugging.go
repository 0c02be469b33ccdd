// internal/container/debugging.go
package container

import (
	"context"
	"errors"
	"io"
	"time"
)

// EventType represents container event type
type EventType string

const (
	EventTypeContainer EventType = "container"
	EventTypeImage     EventType = "image"
	EventTypeNetwork   EventType = "network"
	EventTypeVolume    EventType = "volume"
)

// ExecConfig configures command execution in a container
type ExecConfig struct {
	ContainerID  string   `json:"container_id"`
	Command      []string `json:"command"`
	Env          []string `json:"env"`
	WorkingDir   string   `json:"working_dir"`
	User         string   `json:"user"`
	Tty          bool     `json:"tty"`
	AttachStdin  bool     `json:"attach_stdin"`
	AttachStdout bool     `json:"attach_stdout"`
	AttachStderr bool     `json:"attach_stderr"`
	Privileged   bool     `json:"privileged"`
}

// Validate checks the exec configuration
func (c *ExecConfig) Validate() error {
	if c.ContainerID == "" {
		return errors.New("debugging: container ID is required")
	}
	if len(c.Command) == 0 {
		return errors.New("debugging: command is required")
	}
	return nil
}

// ExecResult represents the result of command execution
type ExecResult struct {
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Success returns true if command exited successfully
func (r *ExecResult) Success() bool {
	return r.ExitCode == 0
}

// AttachOptions configures container attach
type AttachOptions struct {
	Stdin  bool `json:"stdin"`
	Stdout bool `json:"stdout"`
	Stderr bool `json:"stderr"`
	Stream bool `json:"stream"`
	Logs   bool `json:"logs"`
}

// AttachSession represents an attach session
type AttachSession struct {
	ContainerID string
	Connected   bool
	Stdin       io.WriteCloser
	Stdout      io.Reader
	Stderr      io.Reader
}

// Close closes the attach session
func (s *AttachSession) Close() error {
	s.Connected = false
	if s.Stdin != nil {
		return s.Stdin.Close()
	}
	return nil
}

// LogsOptions configures log retrieval
type LogsOptions struct {
	Follow     bool      `json:"follow"`
	Tail       int       `json:"tail"`
	Since      time.Time `json:"since"`
	Until      time.Time `json:"until"`
	Timestamps bool      `json:"timestamps"`
	Details    bool      `json:"details"`
}

// InspectConfig represents container configuration
type InspectConfig struct {
	Hostname   string   `json:"hostname"`
	Domainname string   `json:"domainname"`
	User       string   `json:"user"`
	Env        []string `json:"env"`
	Cmd        []string `json:"cmd"`
	Image      string   `json:"image"`
	WorkingDir string   `json:"working_dir"`
}

// PortBinding represents a port binding
type PortBinding struct {
	HostIP   string `json:"host_ip"`
	HostPort string `json:"host_port"`
}

// NetworkSettings represents container network settings
type NetworkSettings struct {
	IPAddress  string                   `json:"ip_address"`
	Gateway    string                   `json:"gateway"`
	MacAddress string                   `json:"mac_address"`
	Ports      map[string][]PortBinding `json:"ports"`
	NetworkID  string                   `json:"network_id"`
	EndpointID string                   `json:"endpoint_id"`
}

// ContainerInspect represents detailed container information
type ContainerInspect struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Image           string           `json:"image"`
	Created         time.Time        `json:"created"`
	State           *ContainerState  `json:"state"`
	Config          *InspectConfig   `json:"config"`
	NetworkSettings *NetworkSettings `json:"network_settings"`
	Mounts          []MountPoint     `json:"mounts"`
	RestartCount    int              `json:"restart_count"`
}

// MountPoint represents a container mount
type MountPoint struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	RW          bool   `json:"rw"`
}

// ProcessInfo represents a process running in a container
type ProcessInfo struct {
	PID     int       `json:"pid"`
	PPID    int       `json:"ppid"`
	User    string    `json:"user"`
	CPU     float64   `json:"cpu"`
	Memory  float64   `json:"memory"`
	Command string    `json:"command"`
	Started time.Time `json:"started"`
}

// EventsOptions configures event streaming
type EventsOptions struct {
	ContainerID string            `json:"container_id"`
	Since       time.Time         `json:"since"`
	Until       time.Time         `json:"until"`
	Filters     map[string]string `json:"filters"`
}

// ContainerEvent represents a container event
type ContainerEvent struct {
	Type        EventType         `json:"type"`
	Action      string            `json:"action"`
	ContainerID string            `json:"container_id"`
	Timestamp   time.Time         `json:"timestamp"`
	Attributes  map[string]string `json:"attributes"`
}

// DebuggerConfig configures the debugger
type DebuggerConfig struct {
	Provider string `json:"provider"`
}

// Debugger provides container debugging capabilities
type Debugger struct {
	config *DebuggerConfig
}

// NewDebugger creates a new debugger
func NewDebugger(config *DebuggerConfig) *Debugger {
	return &Debugger{config: config}
}

// Exec executes a command in a container
func (d *Debugger) Exec(ctx context.Context, config *ExecConfig) (*ExecResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if d.config.Provider == "mock" {
		return &ExecResult{
			ExitCode: 0,
			Stdout:   "mock output",
			Duration: 10 * time.Millisecond,
		}, nil
	}
	return nil, errors.New("debugging: not implemented")
}

// Attach attaches to a container
func (d *Debugger) Attach(ctx context.Context, containerID string, opts *AttachOptions) (*AttachSession, error) {
	if d.config.Provider == "mock" {
		return &AttachSession{
			ContainerID: containerID,
			Connected:   true,
		}, nil
	}
	return nil, errors.New("debugging: not implemented")
}

// Logs retrieves container logs
func (d *Debugger) Logs(ctx context.Context, containerID string, opts *LogsOptions) (string, error) {
	if d.config.Provider == "mock" {
		return "2024-01-15T10:30:00Z Application started\n2024-01-15T10:30:01Z Listening on :8080", nil
	}
	return "", errors.New("debugging: not implemented")
}

// Inspect inspects a container
func (d *Debugger) Inspect(ctx context.Context, containerID string) (*ContainerInspect, error) {
	if d.config.Provider == "mock" {
		return &ContainerInspect{
			ID:      containerID,
			Name:    "mock-container",
			Image:   "nginx:latest",
			Created: time.Now(),
			State: &ContainerState{
				Status:  StateRunning,
				Running: true,
			},
			Config: &InspectConfig{
				Hostname: "mock-host",
			},
			NetworkSettings: &NetworkSettings{
				IPAddress: "172.17.0.2",
			},
		}, nil
	}
	return nil, errors.New("debugging: not implemented")
}

// Top gets container processes
func (d *Debugger) Top(ctx context.Context, containerID string) ([]ProcessInfo, error) {
	if d.config.Provider == "mock" {
		return []ProcessInfo{
			{PID: 1, User: "root", Command: "/app/main", CPU: 5.0, Memory: 10.0},
		}, nil
	}
	return nil, errors.New("debugging: not implemented")
}

// CopyFrom copies a file from a container
func (d *Debugger) CopyFrom(ctx context.Context, containerID, path string) ([]byte, error) {
	if d.config.Provider == "mock" {
		return []byte("mock file content"), nil
	}
	return nil, errors.New("debugging: not implemented")
}

// CopyTo copies a file to a container
func (d *Debugger) CopyTo(ctx context.Context, containerID, path string, data []byte) error {
	if d.config.Provider == "mock" {
		return nil
	}
	return errors.New("debugging: not implemented")
}

// Events streams container events
func (d *Debugger) Events(ctx context.Context, opts *EventsOptions) (<-chan *ContainerEvent, error) {
	ch := make(chan *ContainerEvent)

	if d.config.Provider == "mock" {
		go func() {
			defer close(ch)
			<-ctx.Done()
		}()
		return ch, nil
	}

	close(ch)
	return ch, errors.New("debugging: not implemented")
}
