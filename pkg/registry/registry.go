// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"careers-scheduling/internal/common/validation"
)

func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TaskRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// FindByTaskType returns the task definition for a task type, or nil.
func (r *TaskRegistry) FindByTaskType(taskType string) *Task {
	for i := range r.Tasks {
		if r.Tasks[i].TaskType == taskType {
			return &r.Tasks[i]
		}
	}
	return nil
}

// Validate checks every registered task type follows the naming convention
// and appears at most once.
func (r *TaskRegistry) Validate() error {
	seen := make(map[string]struct{}, len(r.Tasks))
	for _, task := range r.Tasks {
		if err := validation.ValidateTaskTypeNaming(task.TaskType); err != nil {
			return fmt.Errorf("task %q: %w", task.ID, err)
		}
		if _, dup := seen[task.TaskType]; dup {
			return fmt.Errorf("duplicate task type: %s", task.TaskType)
		}
		seen[task.TaskType] = struct{}{}
	}
	return nil
}
