package shared

// Task type names for asynq background jobs
const (
	TypeRecordBogoUsage = "bogo:record_usage"
	TypeCleanupCarts    = "cart:cleanup_expired"
)

// Queue names
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
	QueueLow      = "low"
)
