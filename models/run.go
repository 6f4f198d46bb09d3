package models

// RunRequest is the request body for /run-code
type RunRequest struct {
	Code string `json:"code"`
}

// RunResponse is returned when the sandboxed program exits cleanly
type RunResponse struct {
	Output string `json:"output"`
}

// Outcome status constants
const (
	StatusSuccess        = "success"
	StatusInitFailure    = "init_failure"
	StatusRuntimeFailure = "runtime_failure"
)

// Outcome is the classified result of one sandboxed execution. Exactly one
// status is produced per run: Output is set for success, Detail for both
// failure variants, ExitCode only for runtime failures.
type Outcome struct {
	Status   string `json:"status"`
	Output   string `json:"output,omitempty"`
	Detail   string `json:"detail,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
}
