package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CascadeResult describes what a user deletion did to their projects.
type CascadeResult struct {
	// DeletedProjects lost their last member and were removed with their tasks.
	DeletedProjects []uint
	// LeftProjects still exist with the remaining members.
	LeftProjects []uint
}

// IsMember reports whether userID belongs to projectID.
func (s *Store) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	return isMemberTx(s.conn(ctx), projectID, userID)
}

func isMemberTx(tx *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}

	return count > 0, nil
}

// AuthorizeProjectAccess loads the project and checks that userID is one
// of its members. It fails with NotFound when the project does not exist
// and Forbidden when the user is not a member.
func (s *Store) AuthorizeProjectAccess(ctx context.Context, userID, projectID uint) (*models.Project, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	member, err := s.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.Forbidden("You are not a member of this project")
	}

	return project, nil
}

// ListMembers returns the users belonging to a project.
func (s *Store) ListMembers(ctx context.Context, projectID uint) ([]models.User, error) {
	users, err := listMembersTx(s.conn(ctx), projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members of project %d: %w", projectID, err)
	}
	return users, nil
}

func listMembersTx(tx *gorm.DB, projectID uint) ([]models.User, error) {
	users := []models.User{}

	err := tx.
		Joins("JOIN project_users ON project_users.user_id = users.id").
		Where("project_users.project_id = ?", projectID).
		Order("users.id").
		Find(&users).Error

	return users, err
}

// GetMember loads a user of the project, or NotFound if the user is not a
// member.
func (s *Store) GetMember(ctx context.Context, projectID, userID uint) (*models.User, error) {
	var user models.User

	err := s.conn(ctx).
		Joins("JOIN project_users ON project_users.user_id = users.id").
		Where("project_users.project_id = ? AND users.id = ?", projectID, userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User is not a member of this project")
		}
		return nil, fmt.Errorf("loading member %d of project %d: %w", userID, projectID, err)
	}

	return &user, nil
}

// AddMembers adds every id that resolves to an existing user. Unknown ids
// are skipped and existing members are left as they are. It returns the
// full member list afterwards.
func (s *Store) AddMembers(ctx context.Context, projectID uint, userIDs []uint) ([]models.User, error) {
	var members []models.User

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockProject(tx, projectID); err != nil {
			return err
		}

		if err := addMembersTx(tx, projectID, userIDs); err != nil {
			return err
		}

		var err error
		members, err = listMembersTx(tx, projectID)
		return err
	})
	if err != nil {
		return nil, wrapUnexpected(err, fmt.Sprintf("adding members to project %d", projectID))
	}

	return members, nil
}

func addMembersTx(tx *gorm.DB, projectID uint, userIDs []uint) error {
	ids := uniqueIDs(userIDs)
	if len(ids) == 0 {
		return nil
	}

	var existing []uint
	if err := tx.Model(&models.User{}).Where("id IN ?", ids).Order("id").Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("resolving users: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	memberships := make([]models.ProjectMembership, 0, len(existing))
	for _, id := range existing {
		memberships = append(memberships, models.ProjectMembership{ProjectID: projectID, UserID: id})
	}

	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&memberships).Error
	if err != nil {
		return fmt.Errorf("adding members: %w", err)
	}

	return nil
}

// RemoveMember detaches userID from the project. If that leaves the
// project without members, the project and its tasks are deleted in the
// same transaction and projectDeleted is true.
func (s *Store) RemoveMember(ctx context.Context, projectID, userID uint) (projectDeleted bool, err error) {
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockProject(tx, projectID); err != nil {
			return err
		}

		member, err := isMemberTx(tx, projectID, userID)
		if err != nil {
			return err
		}
		if !member {
			return apperr.NotFound("User is not a member of this project")
		}

		projectDeleted, err = detachTx(tx, projectID, userID)
		return err
	})
	if err != nil {
		return false, wrapUnexpected(err, fmt.Sprintf("removing member %d from project %d", userID, projectID))
	}

	return projectDeleted, nil
}

// detachTx deletes one membership and applies the empty-project rule. The
// caller must hold the project lock.
func detachTx(tx *gorm.DB, projectID, userID uint) (bool, error) {
	err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMembership{}).Error
	if err != nil {
		return false, fmt.Errorf("deleting membership: %w", err)
	}

	var remaining int64
	if err := tx.Model(&models.ProjectMembership{}).Where("project_id = ?", projectID).Count(&remaining).Error; err != nil {
		return false, fmt.Errorf("counting members: %w", err)
	}

	if remaining > 0 {
		return false, nil
	}

	if err := deleteProjectTx(tx, projectID); err != nil {
		return false, err
	}

	return true, nil
}

// DeleteUserCascade detaches the user from every project, deletes the
// projects left without members, and finally deletes the user. Projects
// are locked in ascending id order.
func (s *Store) DeleteUserCascade(ctx context.Context, userID uint) (*CascadeResult, error) {
	result := &CascadeResult{
		DeletedProjects: []uint{},
		LeftProjects:    []uint{},
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var projectIDs []uint
		err := tx.Model(&models.ProjectMembership{}).
			Where("user_id = ?", userID).
			Order("project_id").
			Pluck("project_id", &projectIDs).Error
		if err != nil {
			return fmt.Errorf("listing memberships: %w", err)
		}

		for _, projectID := range projectIDs {
			if _, err := lockProject(tx, projectID); err != nil {
				return err
			}

			deleted, err := detachTx(tx, projectID, userID)
			if err != nil {
				return err
			}

			if deleted {
				result.DeletedProjects = append(result.DeletedProjects, projectID)
			} else {
				result.LeftProjects = append(result.LeftProjects, projectID)
			}
		}

		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("deleting user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("User not found")
		}

		return nil
	})
	if err != nil {
		return nil, wrapUnexpected(err, fmt.Sprintf("deleting user %d", userID))
	}

	return result, nil
}
