package systems

// Result is the typed response for action start commands. Insufficiency
// is recoverable and reported with CanRetry; it is never an error value.
type Result struct {
	Success  bool
	Reason   string
	CanRetry bool
}

// OK returns a successful result.
func OK() Result {
	return Result{Success: true}
}

// Fail returns a failed result with the given reason.
func Fail(reason string, canRetry bool) Result {
	return Result{Reason: reason, CanRetry: canRetry}
}
