package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// MemoryStore keeps courses and students in memory with the same contract as
// the Postgres repositories: autoincrement ids, creation order, and a foreign
// key from enrollments to students. It backs tests that do not need a database.
type MemoryStore struct {
	mu            sync.Mutex
	courses       map[int64]*models.Course
	students      map[int64]*models.Student
	nextCourseID  int64
	nextStudentID int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:  make(map[int64]*models.Course),
		students: make(map[int64]*models.Student),
	}
}

// Courses returns the course side of the store
func (m *MemoryStore) Courses() *MemoryCourseRepository {
	return &MemoryCourseRepository{m: m}
}

// Students returns the student side of the store
func (m *MemoryStore) Students() *MemoryStudentRepository {
	return &MemoryStudentRepository{m: m}
}

func cloneCourse(c *models.Course) *models.Course {
	students := make([]int64, len(c.Students))
	copy(students, c.Students)
	return &models.Course{ID: c.ID, Name: c.Name, Students: students}
}

// checkStudents must be called with m.mu held
func (m *MemoryStore) checkStudents(ids []int64) error {
	for _, id := range ids {
		if _, ok := m.students[id]; !ok {
			return apperrors.ErrUnknownStudent.WithDetails(map[string]interface{}{"studentID": id})
		}
	}
	return nil
}

// MemoryCourseRepository implements the course store on a MemoryStore
type MemoryCourseRepository struct {
	m *MemoryStore
}

// Create stores the course and sets course.ID
func (r *MemoryCourseRepository) Create(_ context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.m.checkStudents(course.Students); err != nil {
		return err
	}
	if course.Students == nil {
		course.Students = []int64{}
	}

	r.m.nextCourseID++
	course.ID = r.m.nextCourseID
	r.m.courses[course.ID] = cloneCourse(course)
	return nil
}

// GetByID returns a copy of the stored course
func (r *MemoryCourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	c, ok := r.m.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

// List returns matching courses ordered by id
func (r *MemoryCourseRepository) List(_ context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := make([]*models.Course, 0, len(r.m.courses))
	for _, c := range r.m.courses {
		if filter.ID != nil && c.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && c.Name != *filter.Name {
			continue
		}
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update applies upd to the stored course
func (r *MemoryCourseRepository) Update(_ context.Context, id int64, upd models.CourseUpdate) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	c, ok := r.m.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	if upd.Students != nil {
		if err := r.m.checkStudents(upd.Students); err != nil {
			return nil, err
		}
		c.Students = append([]int64{}, upd.Students...)
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	return cloneCourse(c), nil
}

// Delete removes the course
func (r *MemoryCourseRepository) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.m.courses, id)
	return nil
}

// MemoryStudentRepository implements the student store on a MemoryStore
type MemoryStudentRepository struct {
	m *MemoryStore
}

// Create stores the student and sets student.ID
func (r *MemoryStudentRepository) Create(_ context.Context, student *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.nextStudentID++
	student.ID = r.m.nextStudentID
	cp := *student
	r.m.students[student.ID] = &cp
	return nil
}

// GetByID returns a copy of the stored student
func (r *MemoryStudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}
