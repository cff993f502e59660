// Package factory creates persisted courses and students with random data.
// It backs the seed command and tests that need rows to exist.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursehub/internal/app/models"
)

// CourseCreator stores a course. services.CourseService implements it.
type CourseCreator interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
}

// StudentCreator stores a student. services.StudentService implements it.
type StudentCreator interface {
	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
}

// Factory makes courses and students through the given creators
type Factory struct {
	courses  CourseCreator
	students StudentCreator
}

// New creates a Factory. Either creator may be nil if that kind is never made.
func New(courses CourseCreator, students StudentCreator) *Factory {
	return &Factory{courses: courses, students: students}
}

// CourseOption overrides a generated course field
type CourseOption func(*models.Course)

// WithName sets the course name
func WithName(name string) CourseOption {
	return func(c *models.Course) { c.Name = name }
}

// WithStudents enrolls the given student ids
func WithStudents(ids ...int64) CourseOption {
	return func(c *models.Course) { c.Students = ids }
}

// StudentOption overrides a generated student field
type StudentOption func(*models.Student)

// WithStudentName sets the student name
func WithStudentName(name string) StudentOption {
	return func(s *models.Student) { s.Name = name }
}

// WithBirthDate sets the student's birth date
func WithBirthDate(t time.Time) StudentOption {
	return func(s *models.Student) { s.BirthDate = &t }
}

func randomName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Course creates one course
func (f *Factory) Course(ctx context.Context, opts ...CourseOption) (*models.Course, error) {
	if f.courses == nil {
		return nil, fmt.Errorf("factory has no course creator")
	}

	course := &models.Course{Name: randomName("course")}
	for _, opt := range opts {
		opt(course)
	}
	return f.courses.CreateCourse(ctx, course)
}

// Courses creates n courses and returns them in creation order.
// Options apply to every course, so WithName makes duplicate names.
func (f *Factory) Courses(ctx context.Context, n int, opts ...CourseOption) ([]*models.Course, error) {
	if n < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", n)
	}

	out := make([]*models.Course, 0, n)
	for i := 0; i < n; i++ {
		c, err := f.Course(ctx, opts...)
		if err != nil {
			return out, fmt.Errorf("creating course %d of %d: %w", i+1, n, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Student creates one student
func (f *Factory) Student(ctx context.Context, opts ...StudentOption) (*models.Student, error) {
	if f.students == nil {
		return nil, fmt.Errorf("factory has no student creator")
	}

	student := &models.Student{Name: randomName("student")}
	for _, opt := range opts {
		opt(student)
	}
	return f.students.CreateStudent(ctx, student)
}

// Students creates n students and returns them in creation order
func (f *Factory) Students(ctx context.Context, n int, opts ...StudentOption) ([]*models.Student, error) {
	if n < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", n)
	}

	out := make([]*models.Student, 0, n)
	for i := 0; i < n; i++ {
		s, err := f.Student(ctx, opts...)
		if err != nil {
			return out, fmt.Errorf("creating student %d of %d: %w", i+1, n, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// StudentIDs returns the ids of students
func StudentIDs(students []*models.Student) []int64 {
	ids := make([]int64, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}
