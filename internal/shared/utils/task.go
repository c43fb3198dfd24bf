package utils

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// MarshalTask serializes the payload and wraps it in an asynq task
func MarshalTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for task %s: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

// UnmarshalTask deserializes a task payload into dest
func UnmarshalTask(task *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(task.Payload(), dest); err != nil {
		return fmt.Errorf("failed to unmarshal payload for task %s: %w", task.Type(), err)
	}
	return nil
}
