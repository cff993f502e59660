package dto

import "github.com/yigit/coursehub/internal/app/models"

// CourseResponse is the JSON shape of a course
type CourseResponse struct {
	ID       int64   `json:"id" example:"1"`
	Name     string  `json:"name" example:"Linear Algebra"`
	Students []int64 `json:"students"`
}

// CreateCourseRequest represents course creation data. It is also the body of a full update.
type CreateCourseRequest struct {
	Name     string  `json:"name" form:"name" binding:"required,max=100"`
	Students []int64 `json:"students" form:"students" binding:"omitempty,dive,gt=0"`
}

// UpdateCourseRequest represents a partial course update; omitted fields are left unchanged
type UpdateCourseRequest struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,max=100"`
	Students []int64 `json:"students" form:"students" binding:"omitempty,dive,gt=0"`
}

// ToModel converts the request into a course
func (r CreateCourseRequest) ToModel() *models.Course {
	return &models.Course{
		Name:     r.Name,
		Students: r.Students,
	}
}

// ToUpdate converts a full update request into a CourseUpdate
func (r CreateCourseRequest) ToUpdate() models.CourseUpdate {
	name := r.Name
	return models.CourseUpdate{
		Name:     &name,
		Students: r.Students,
	}
}

// ToUpdate converts the request into a CourseUpdate
func (r UpdateCourseRequest) ToUpdate() models.CourseUpdate {
	return models.CourseUpdate{
		Name:     r.Name,
		Students: r.Students,
	}
}

// NewCourseResponse maps a course model to its response; students is never null
func NewCourseResponse(course *models.Course) CourseResponse {
	students := course.Students
	if students == nil {
		students = []int64{}
	}
	return CourseResponse{
		ID:       course.ID,
		Name:     course.Name,
		Students: students,
	}
}

// NewCourseListResponse maps courses preserving order; an empty result is an empty array
func NewCourseListResponse(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}
