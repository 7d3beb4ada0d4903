package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePurgeSoftDeleted physically removes rows soft-deleted longer
	// than the retention window ago.
	TaskTypePurgeSoftDeleted = "maintenance:purge_soft_deleted"
	// lastPurgeKey is the Redis key recording when a purge last completed.
	lastPurgeKey = "meridian:jobs:purge:last_run"
)

// PurgePayload parameterizes a purge run.
type PurgePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewPurgeTask constructs an Asynq task for a purge run.
func NewPurgeTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(PurgePayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePurgeSoftDeleted, data), nil
}
