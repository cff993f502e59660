package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// parseCourseID reads the :id path parameter
func parseCourseID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidCourseID
	}
	return id, nil
}

// parseCourseFilter reads the optional id and name query parameters.
// Empty values are treated as absent.
func parseCourseFilter(ctx *gin.Context) (models.CourseFilter, error) {
	var filter models.CourseFilter

	if raw := strings.TrimSpace(ctx.Query("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, apperrors.ErrInvalidCourseFilter.WithDetails(map[string]interface{}{
				"id": "must be an integer",
			})
		}
		filter.ID = &id
	}

	if name := ctx.Query("name"); name != "" {
		filter.Name = &name
	}

	return filter, nil
}

// ListCourses lists courses in creation order
// @Summary List courses
// @Description Returns every course, optionally filtered by exact id and/or name
// @Tags courses
// @Produce json
// @Param id query int false "Exact course ID"
// @Param name query string false "Exact course name"
// @Success 200 {array} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/ [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter, err := parseCourseFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCourseListResponse(courses))
}

// GetCourse retrieves a course by ID
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/ [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.GetCourseByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCourseResponse(course))
}

// CreateCourse handles course creation
// @Summary Create a course
// @Tags courses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /courses/ [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewCourseResponse(course))
}

// UpdateCourse replaces the name and, when given, the enrollment of a course
// @Summary Update a course
// @Tags courses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/ [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	c.applyUpdate(ctx, id, req.ToUpdate())
}

// PartialUpdateCourse changes only the fields present in the body
// @Summary Partially update a course
// @Tags courses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/ [patch]
func (c *CourseController) PartialUpdateCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	c.applyUpdate(ctx, id, req.ToUpdate())
}

func (c *CourseController) applyUpdate(ctx *gin.Context, id int64, upd models.CourseUpdate) {
	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, upd)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCourseResponse(course))
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Tags courses
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 204 "Course deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/ [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RegisterRoutes mounts the course endpoints on rg
func (c *CourseController) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.GET("/", c.ListCourses)
		courses.POST("/", c.CreateCourse)
		courses.GET("/:id/", c.GetCourse)
		courses.PUT("/:id/", c.UpdateCourse)
		courses.PATCH("/:id/", c.PartialUpdateCourse)
		courses.DELETE("/:id/", c.DeleteCourse)
	}
}
