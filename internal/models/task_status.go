package models

import (
	"database/sql/driver"
	"fmt"
)

// TaskStatus is the closed set of states a task can be in.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusStashed    TaskStatus = "stashed"
)

// TaskStatuses lists every status in board order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusFailed,
		TaskStatusStashed,
	}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed, TaskStatusStashed:
		return true
	}
	return false
}

// IsTerminal reports whether the task has finished, successfully or not.
// Unknown statuses are never terminal.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed:
		return true
	case TaskStatusPending, TaskStatusInProgress, TaskStatusStashed:
		return false
	default:
		return false
	}
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid task status %q", raw)
	}
	return s, nil
}

// Value rejects unknown statuses before they reach the database.
func (s TaskStatus) Value() (driver.Value, error) {
	if s == "" {
		return string(TaskStatusPending), nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("invalid task status %q", string(s))
	}
	return string(s), nil
}

func (s *TaskStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*s = TaskStatusPending
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TaskStatus", src)
	}

	parsed, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
