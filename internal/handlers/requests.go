package handlers

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/store"
)

type validatable interface {
	Validate() error
}

// normalizer is implemented by requests that clean their input before the
// validation rules run.
type normalizer interface {
	Normalize()
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 100
	maxTitleLength    = 200
)

var statusRule = validation.In(statusValues()...).Error("must be one of pending, in_progress, completed, failed, stashed")

func statusValues() []interface{} {
	statuses := models.TaskStatuses()
	values := make([]interface{}, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	return values
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r *UpdateUserRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Email)
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
	)
}

func (r UpdateUserRequest) toStore() store.UserUpdate {
	return store.UserUpdate{Name: r.Name, Email: r.Email}
}

type ChangePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Status, statusRule),
	)
}

func (r CreateTaskRequest) toStore() store.NewTask {
	task := store.NewTask{Title: r.Title, Description: r.Description}
	if r.Status != nil {
		task.Status = models.TaskStatus(*r.Status)
	}
	return task
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, statusRule),
	)
}

func (r UpdateTaskRequest) toStore() store.TaskUpdate {
	update := store.TaskUpdate{Title: r.Title, Description: r.Description}
	if r.Status != nil {
		status := models.TaskStatus(*r.Status)
		update.Status = &status
	}
	return update
}

type CreateProjectRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Tasks       []CreateTaskRequest `json:"tasks"`
	UserIDs     []uint              `json:"user_ids"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Tasks),
	)
}

func (r CreateProjectRequest) toStore() store.NewProject {
	tasks := make([]store.NewTask, 0, len(r.Tasks))
	for _, task := range r.Tasks {
		tasks = append(tasks, task.toStore())
	}

	return store.NewProject{
		Name:        r.Name,
		Description: r.Description,
		Tasks:       tasks,
		UserIDs:     r.UserIDs,
	}
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
	)
}

func (r UpdateProjectRequest) toStore() store.ProjectUpdate {
	return store.ProjectUpdate{Name: r.Name, Description: r.Description}
}

type AddMembersRequest struct {
	UserIDs []uint `json:"user_ids"`
}

func (r AddMembersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserIDs, validation.Required),
	)
}
