package feedback

import "log"

// Reporter receives user-facing error messages from the sync layer. The
// sync layer never renders UI itself; whatever owns the screen implements
// this. Retryable tells the UI whether offering a retry action makes sense.
type Reporter interface {
	Report(message string, retryable bool)
}

// LogReporter is the default Reporter for headless use (CLI, tests).
type LogReporter struct {
	Prefix string
}

func NewLogReporter(prefix string) *LogReporter {
	return &LogReporter{Prefix: prefix}
}

func (r *LogReporter) Report(message string, retryable bool) {
	if retryable {
		log.Printf("[%s] %s (retryable)", r.Prefix, message)
		return
	}
	log.Printf("[%s] %s", r.Prefix, message)
}

var _ Reporter = (*LogReporter)(nil)
