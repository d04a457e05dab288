package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

type NewTask struct {
	Title       string
	Description *string
	Status      models.TaskStatus
}

// TaskUpdate carries the fields to overwrite; nil fields are left alone.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

type TaskFilter struct {
	Status *models.TaskStatus
}

func (s *Store) CreateTask(ctx context.Context, projectID uint, in NewTask) (*models.Task, error) {
	var task *models.Task

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockProject(tx, projectID); err != nil {
			return err
		}

		var err error
		task, err = createTaskTx(tx, projectID, in)
		return err
	})
	if err != nil {
		return nil, wrapUnexpected(err, "creating task")
	}

	return task, nil
}

func createTaskTx(tx *gorm.DB, projectID uint, in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("title", "cannot be blank")
	}

	status := in.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		return nil, apperr.Invalid("status", fmt.Sprintf("unknown status %q", string(status)))
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: in.Description,
		Status:      status,
	}

	if err := tx.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// GetTask loads a task of projectID. A task that exists under another
// project is reported as not found.
func (s *Store) GetTask(ctx context.Context, projectID, taskID uint) (*models.Task, error) {
	task, err := getTaskTx(s.conn(ctx), projectID, taskID)
	if err != nil {
		return nil, wrapUnexpected(err, fmt.Sprintf("loading task %d", taskID))
	}
	return task, nil
}

func getTaskTx(tx *gorm.DB, projectID, taskID uint) (*models.Task, error) {
	var task models.Task

	err := tx.Where("id = ? AND project_id = ?", taskID, projectID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found in the specified project")
		}
		return nil, err
	}

	return &task, nil
}

// UpdateTask applies a partial update.
func (s *Store) UpdateTask(ctx context.Context, projectID, taskID uint, in TaskUpdate) (*models.Task, error) {
	var task *models.Task

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		task, err = getTaskTx(tx, projectID, taskID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}

		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return apperr.Invalid("title", "cannot be blank")
			}
			updates["title"] = title
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return apperr.Invalid("status", fmt.Sprintf("unknown status %q", string(*in.Status)))
			}
			updates["status"] = *in.Status
		}

		if len(updates) == 0 {
			return nil
		}

		previous := task.Status

		if err := tx.Model(task).Updates(updates).Error; err != nil {
			return err
		}

		task, err = getTaskTx(tx, projectID, taskID)
		if err != nil {
			return err
		}

		logStatusTransition(ctx, task, previous)
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected(err, fmt.Sprintf("updating task %d", taskID))
	}

	return task, nil
}

func logStatusTransition(ctx context.Context, task *models.Task, previous models.TaskStatus) {
	if previous == task.Status {
		return
	}

	attrs := []any{
		"project_id", task.ProjectID,
		"task_id", task.ID,
		"from", string(previous),
		"to", string(task.Status),
	}

	switch {
	case task.Status.IsTerminal() && !previous.IsTerminal():
		slog.InfoContext(ctx, "task finished", attrs...)
	case !task.Status.IsTerminal() && previous.IsTerminal():
		slog.InfoContext(ctx, "task reopened", attrs...)
	default:
		slog.DebugContext(ctx, "task status changed", attrs...)
	}
}

func (s *Store) DeleteTask(ctx context.Context, projectID, taskID uint) error {
	result := s.conn(ctx).Where("id = ? AND project_id = ?", taskID, projectID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("deleting task %d: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Task not found in the specified project")
	}
	return nil
}

// ListTasksForProject returns the tasks of a project in creation order.
func (s *Store) ListTasksForProject(ctx context.Context, projectID uint, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	q := s.conn(ctx).Where("project_id = ?", projectID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	if err := q.Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("listing tasks of project %d: %w", projectID, err)
	}

	return tasks, nil
}
