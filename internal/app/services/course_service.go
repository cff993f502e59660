package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// CourseStore persists courses. *repositories.CourseRepository implements it.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, id int64, upd models.CourseUpdate) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseCache is an optional read-through cache for single courses.
// Get returns nil, nil on a miss.
type CourseCache interface {
	Get(ctx context.Context, id int64) (*models.Course, error)
	Set(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, upd models.CourseUpdate) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store       CourseStore
	cache       CourseCache
	maxStudents int
}

// NewCourseService creates a new course service. cache may be nil;
// maxStudents <= 0 disables the enrollment limit.
func NewCourseService(store CourseStore, cache CourseCache, maxStudents int) CourseService {
	return &courseServiceImpl{
		store:       store,
		cache:       cache,
		maxStudents: maxStudents,
	}
}

// normalizeName trims the name and checks its length
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch err := validation.NewNameValidation(name).Validate(); {
	case err == nil:
		return name, nil
	case errors.Is(err, validation.ErrRequired):
		return "", apperrors.ErrCourseNameRequired
	case errors.Is(err, validation.ErrTooLong):
		return "", apperrors.ErrCourseNameTooLong.WithDetails(map[string]interface{}{"max": validation.NameMaxLength})
	case errors.Is(err, validation.ErrTooShort):
		return "", apperrors.ErrCourseNameTooShort.WithDetails(map[string]interface{}{"min": validation.NameMinLength})
	default:
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
}

// normalizeStudents de-duplicates and sorts ids and enforces the enrollment limit.
// nil stays nil so that updates can tell "unchanged" from "empty".
func (s *courseServiceImpl) normalizeStudents(ids []int64) ([]int64, error) {
	if ids == nil {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid student ID %d", id))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	if s.maxStudents > 0 && len(out) > s.maxStudents {
		return nil, apperrors.ErrTooManyStudents.WithDetails(map[string]interface{}{
			"max":       s.maxStudents,
			"requested": len(out),
		})
	}
	return out, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return apperrors.ErrInvalidCourseID
	}
	return nil
}

// CreateCourse validates and stores a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course == nil {
		return nil, fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}

	name, err := normalizeName(course.Name)
	if err != nil {
		return nil, err
	}
	students, err := s.normalizeStudents(course.Students)
	if err != nil {
		return nil, err
	}

	created := &models.Course{Name: name, Students: students}
	if err := s.store.Create(ctx, created); err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	if created.Students == nil {
		created.Students = []int64{}
	}

	logger.Ctx(ctx).Info().Int64("courseID", created.ID).Int("students", len(created.Students)).Msg("Course created")
	return created, nil
}

// GetCourseByID retrieves a course, reading through the cache when configured
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("courseID", id).Msg("Course cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	course, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, course); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("courseID", id).Msg("Course cache write failed")
		}
	}
	return course, nil
}

// ListCourses returns courses in creation order, optionally filtered by exact id/name
func (s *courseServiceImpl) ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	if filter.ID != nil && *filter.ID <= 0 {
		// No course can match; skip the round trip
		return []*models.Course{}, nil
	}

	courses, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse applies a partial update; the course id never changes
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, upd models.CourseUpdate) (*models.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return nil, apperrors.ErrCourseUpdateEmpty
	}

	if upd.Name != nil {
		name, err := normalizeName(*upd.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}

	students, err := s.normalizeStudents(upd.Students)
	if err != nil {
		return nil, err
	}
	upd.Students = students

	course, err := s.store.Update(ctx, id, upd)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	s.invalidate(ctx, id)
	logger.Ctx(ctx).Info().Int64("courseID", id).Msg("Course updated")
	return course, nil
}

// DeleteCourse deletes a course by ID
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	s.invalidate(ctx, id)
	logger.Ctx(ctx).Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

func (s *courseServiceImpl) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("courseID", id).Msg("Course cache invalidation failed")
	}
}
