package storage

import (
	"errors"

	"github.com/mledan/taskometer-sub001/internal/models"
)

// ErrNotFound is returned when a requested record does not exist or is deleted.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetAllTasksIncludingDeleted() ([]models.Task, error)
	UpdateTask(models.Task) error
	// UpdateTasks writes every task in one transaction.
	UpdateTasks([]models.Task) error
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Template
	GetTemplate() ([]models.TimeBlock, error)
	// SaveTemplate replaces the whole template.
	SaveTemplate([]models.TimeBlock) error

	// Constraints
	GetConstraints() (models.ConstraintSet, error)
	SaveConstraint(models.TaskTypeConstraint) error
	DeleteConstraint(activityType string) error

	// Events
	GetEvent(id string) (models.Event, error)
	GetEvents() ([]models.Event, error)
	DeleteEvent(id string) error
	// ApplyEvent stores the event together with the tasks it displaced.
	ApplyEvent(models.Event, []models.Task) error

	// Utils
	GetConfigPath() string
}
