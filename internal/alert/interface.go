package alert

import "time"

// Notifier defines a high-level interface for sending operational alerts.
// This decouples the rest of the application from the specific provider (e.g., Slack).
type Notifier interface {
	// For sessions stuck in the queue past the configured bound
	SendLongWaitAlert(playerID, sessionID string, waited time.Duration, dryRun bool) error
	// For panics or errors inside the evaluation loop
	SendEvaluationFailureAlert(reason string, dryRun bool) error
}
