package services

// Status values carried by Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the structured outcome returned by engine entry points. Callers
// orchestrating several runs inspect it instead of handling a Go error, so one
// failed item never stops the rest.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Output  string `json:"output,omitempty"`
	RunID   string `json:"run_id,omitempty"`
	// Chunks counts rendered timeline chunks; FailedChunks those dropped.
	Chunks       int `json:"chunks,omitempty"`
	FailedChunks int `json:"failed_chunks,omitempty"`
}

// Succeeded reports whether the result carries a success status.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Success builds a success result for the given output path.
func Success(output, message string) Result {
	return Result{Status: StatusSuccess, Output: output, Message: message}
}

// Failure converts err into an error result.
func Failure(err error) Result {
	if err == nil {
		return Result{Status: StatusError, Message: "unknown failure"}
	}
	return Result{Status: StatusError, Message: err.Error(), Kind: Kind(err)}
}
