package repositories

import (
	"github.com/yigit/coursehub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository  *CourseRepository
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories on the same querier
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		CourseRepository:  NewCourseRepository(q),
		StudentRepository: NewStudentRepository(q),
	}
}
