package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// StudentStore persists students. *repositories.StudentRepository implements it.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// StudentService defines the interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
}

type studentServiceImpl struct {
	store StudentStore
}

// NewStudentService creates a new student service
func NewStudentService(store StudentStore) StudentService {
	return &studentServiceImpl{store: store}
}

// CreateStudent validates and stores a student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if student == nil {
		return nil, fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}

	name := strings.TrimSpace(student.Name)
	if err := validation.NewNameValidation(name).Validate(); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("student name: %v", err))
	}

	created := &models.Student{Name: name, BirthDate: student.BirthDate}
	if err := s.store.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	logger.Ctx(ctx).Debug().Int64("studentID", created.ID).Msg("Student created")
	return created, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, apperrors.NewBadRequestError("student ID must be a positive integer")
	}
	return s.store.GetByID(ctx, id)
}
