package services

import "github.com/yigit/coursehub/internal/app/repositories"

// Services groups the application services built on one set of repositories
type Services struct {
	CourseService  CourseService
	StudentService StudentService
}

// NewServices wires services to repositories. cache may be nil.
func NewServices(repos *repositories.Repositories, cache CourseCache, maxStudents int) *Services {
	return &Services{
		CourseService:  NewCourseService(repos.CourseRepository, cache, maxStudents),
		StudentService: NewStudentService(repos.StudentRepository),
	}
}
