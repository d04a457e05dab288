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

type NewUser struct {
	Name     string
	Email    string
	Password string
}

// UserUpdate carries the fields to overwrite; nil fields are left alone.
type UserUpdate struct {
	Name  *string
	Email *string
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user with a freshly salted password hash.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	if name == "" {
		return nil, apperr.Invalid("name", "cannot be blank")
	}
	if email == "" {
		return nil, apperr.Invalid("email", "cannot be blank")
	}

	hash, salt, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Invalid("password", err.Error())
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.DuplicateEmail()
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateEmail()
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64

	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking existing email: %w", err)
	}

	return count > 0, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("loading user %d: %w", id, err)
	}

	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := s.conn(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("loading user by email: %w", err)
	}

	return &user, nil
}

// VerifyPassword reports whether password matches the stored hash of the
// user.
func (s *Store) VerifyPassword(ctx context.Context, userID uint, password string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return s.hasher.Verify(password, user.PasswordHash, user.PasswordSalt)
}

// Authenticate resolves a login. Unknown emails and wrong passwords fail
// with the same error.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := apperr.Unauthenticated("Incorrect email or password")

	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash, user.PasswordSalt)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, invalid
	}

	return user, nil
}

// UpdateUser applies a partial profile update.
func (s *Store) UpdateUser(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	var user models.User

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("User not found")
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

		if in.Email != nil {
			email := NormalizeEmail(*in.Email)
			if email == "" {
				return apperr.Invalid("email", "cannot be blank")
			}
			if email != user.Email {
				taken, err := emailTaken(tx, email, user.ID)
				if err != nil {
					return err
				}
				if taken {
					return apperr.DuplicateEmail()
				}
			}
			updates["email"] = email
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&user, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateEmail()
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}

	return &user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Store) ChangePassword(ctx context.Context, id uint, current, next string) error {
	ok, err := s.VerifyPassword(ctx, id, current)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invalid("password", "is incorrect")
	}

	hash, salt, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Invalid("new_password", err.Error())
	}

	result := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": hash,
		"password_salt": salt,
	})
	if result.Error != nil {
		return fmt.Errorf("changing password for user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}
