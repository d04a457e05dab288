package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

type NewProject struct {
	Name        string
	Description string
	Tasks       []NewTask
	UserIDs     []uint
}

// ProjectUpdate carries the fields to overwrite; nil fields are left alone.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// ProjectDetail is a project together with its tasks and members.
type ProjectDetail struct {
	Project models.Project
	Tasks   []models.Task
	Members []models.User
}

// CreateProject creates a project with creatorID as its first member. Any
// initial tasks and additional members are added in the same transaction.
func (s *Store) CreateProject(ctx context.Context, creatorID uint, in NewProject) (*ProjectDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "cannot be blank")
	}

	project := models.Project{
		Name:        name,
		Description: in.Description,
	}

	var detail *ProjectDetail

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var creator models.User
		if err := tx.Select("id").First(&creator, creatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthenticated("User not found")
			}
			return err
		}

		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		memberIDs := append([]uint{creatorID}, in.UserIDs...)
		if err := addMembersTx(tx, project.ID, memberIDs); err != nil {
			return err
		}

		for i, task := range in.Tasks {
			if _, err := createTaskTx(tx, project.ID, task); err != nil {
				var appErr *apperr.Error
				if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
					return prefixFields(appErr, fmt.Sprintf("tasks.%d.", i))
				}
				return err
			}
		}

		var err error
		detail, err = loadProjectDetail(tx, project.ID)
		return err
	})
	if err != nil {
		return nil, wrapUnexpected(err, "creating project")
	}

	return detail, nil
}

func prefixFields(e *apperr.Error, prefix string) *apperr.Error {
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[prefix+k] = v
	}
	return &apperr.Error{Kind: e.Kind, Message: e.Message, Fields: fields, Err: e.Err}
}

// wrapUnexpected adds context to errors that are not already classified.
func wrapUnexpected(err error, action string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (s *Store) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	if err := s.conn(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, fmt.Errorf("loading project %d: %w", id, err)
	}

	return &project, nil
}

// GetProjectDetail loads a project with its tasks and members using
// explicit queries.
func (s *Store) GetProjectDetail(ctx context.Context, id uint) (*ProjectDetail, error) {
	detail, err := loadProjectDetail(s.conn(ctx), id)
	if err != nil {
		return nil, wrapUnexpected(err, "loading project detail")
	}
	return detail, nil
}

func loadProjectDetail(tx *gorm.DB, id uint) (*ProjectDetail, error) {
	detail := &ProjectDetail{}

	if err := tx.First(&detail.Project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}

	if err := tx.Where("project_id = ?", id).Order("id").Find(&detail.Tasks).Error; err != nil {
		return nil, err
	}

	members, err := listMembersTx(tx, id)
	if err != nil {
		return nil, err
	}
	detail.Members = members

	return detail, nil
}

// UpdateProject applies a partial update.
func (s *Store) UpdateProject(ctx context.Context, id uint, in ProjectUpdate) (*models.Project, error) {
	var project models.Project

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}

		updates := map[string]interface{}{}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Invalid("name", "cannot be blank")
			}
			updates["name"] = name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&project).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&project, id).Error
	})
	if err != nil {
		return nil, wrapUnexpected(err, fmt.Sprintf("updating project %d", id))
	}

	return &project, nil
}

// DeleteProject removes the project, its tasks and its memberships.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockProject(tx, id); err != nil {
			return err
		}
		return deleteProjectTx(tx, id)
	})
	if err != nil {
		return wrapUnexpected(err, fmt.Sprintf("deleting project %d", id))
	}
	return nil
}

// deleteProjectTx deletes children before the parent so no task is ever
// left pointing at a missing project.
func deleteProjectTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("deleting tasks of project %d: %w", id, err)
	}
	if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
		return fmt.Errorf("deleting memberships of project %d: %w", id, err)
	}
	if err := tx.Delete(&models.Project{}, id).Error; err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	return nil
}

// ListProjectsForUser returns every project userID is a member of.
func (s *Store) ListProjectsForUser(ctx context.Context, userID uint) ([]models.Project, error) {
	projects := []models.Project{}

	err := s.conn(ctx).
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ?", userID).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("listing projects for user %d: %w", userID, err)
	}

	return projects, nil
}

// ListSharedProjects returns the projects both viewerID and userID belong
// to, so looking at another user never reveals projects the viewer cannot
// open.
func (s *Store) ListSharedProjects(ctx context.Context, viewerID, userID uint) ([]models.Project, error) {
	if viewerID == userID {
		return s.ListProjectsForUser(ctx, userID)
	}

	conn := s.conn(ctx)
	projects := []models.Project{}

	viewerProjects := conn.Model(&models.ProjectMembership{}).Select("project_id").Where("user_id = ?", viewerID)
	userProjects := conn.Model(&models.ProjectMembership{}).Select("project_id").Where("user_id = ?", userID)

	err := conn.
		Where("id IN (?)", viewerProjects).
		Where("id IN (?)", userProjects).
		Order("id").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("listing shared projects: %w", err)
	}

	return projects, nil
}
