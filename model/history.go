package model

import "time"

// History represents a single hive invocation made by the run command.
type History struct {
	// Unique ID for this invocation (UUID)
	ID string `json:"id"`
	// Timestamp when the invocation started
	Timestamp time.Time `json:"timestamp"`
	// Arguments passed to the hive binary
	Args []string `json:"args"`
	// Shell rendering of the invocation, for copy-paste reruns
	Command string `json:"command"`
	// Directory hive was executed in
	WorkDir string `json:"workdir"`
	// Fork, EIP and simulation the invocation covered
	Fork       string     `json:"fork"`
	EIP        string     `json:"eip"`
	Simulation Simulation `json:"simulation"`
	// Exit code of hive (-1 if it could not be started)
	ExitCode int `json:"exit_code"`
	// Error reported while running hive, if any
	Error string `json:"error,omitempty"`
	// Duration of the invocation
	Duration time.Duration `json:"duration"`
	// Git revision of the hive checkout
	HiveRevision string `json:"hive_revision,omitempty"`
	// Artifacts written next to history.json
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	// Trailing lines of hive's combined output
	ArtifactTypeOutputTail ArtifactType = iota
	// Copy of the results export hive produced
	ArtifactTypeExport
)

// Artifact represents a file generated during an invocation
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to run dir
}
