package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// stubCourseService records the last call and returns canned results
type stubCourseService struct {
	course     *models.Course
	courses    []*models.Course
	err        error
	lastID     int64
	lastFilter models.CourseFilter
	lastCreate *models.Course
	lastUpdate models.CourseUpdate
}

func (s *stubCourseService) CreateCourse(_ context.Context, c *models.Course) (*models.Course, error) {
	s.lastCreate = c
	if s.err != nil {
		return nil, s.err
	}
	return &models.Course{ID: 1, Name: c.Name, Students: c.Students}, nil
}

func (s *stubCourseService) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	s.lastID = id
	return s.course, s.err
}

func (s *stubCourseService) ListCourses(_ context.Context, f models.CourseFilter) ([]*models.Course, error) {
	s.lastFilter = f
	return s.courses, s.err
}

func (s *stubCourseService) UpdateCourse(_ context.Context, id int64, upd models.CourseUpdate) (*models.Course, error) {
	s.lastID = id
	s.lastUpdate = upd
	return s.course, s.err
}

func (s *stubCourseService) DeleteCourse(_ context.Context, id int64) error {
	s.lastID = id
	return s.err
}

func setupCourseRouter(svc *stubCourseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCourseController(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestCourseController_List(t *testing.T) {
	t.Run("returns array and passes filters", func(t *testing.T) {
		svc := &stubCourseService{courses: []*models.Course{{ID: 3, Name: "Art"}}}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodGet, "/api/v1/courses/?id=3&name=Art", "", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var body []dto.CourseResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, int64(3), body[0].ID)
		assert.Equal(t, []int64{}, body[0].Students)

		require.NotNil(t, svc.lastFilter.ID)
		assert.Equal(t, int64(3), *svc.lastFilter.ID)
		require.NotNil(t, svc.lastFilter.Name)
		assert.Equal(t, "Art", *svc.lastFilter.Name)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{})
		rr := doRequest(router, http.MethodGet, "/api/v1/courses/", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("empty filter values are ignored", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)
		rr := doRequest(router, http.MethodGet, "/api/v1/courses/?id=&name=", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, svc.lastFilter.IsEmpty())
	})

	t.Run("non-integer id filter", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{})
		rr := doRequest(router, http.MethodGet, "/api/v1/courses/?id=abc", "", "")
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, rr).Error.Code)
	})
}

func TestCourseController_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubCourseService{course: &models.Course{ID: 7, Name: "Chess", Students: []int64{1}}}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodGet, "/api/v1/courses/7/", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":7,"name":"Chess","students":[1]}`, rr.Body.String())
		assert.Equal(t, int64(7), svc.lastID)
	})

	t.Run("not found", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{err: apperrors.ErrCourseNotFound})
		rr := doRequest(router, http.MethodGet, "/api/v1/courses/7/", "", "")
		require.Equal(t, http.StatusNotFound, rr.Code)

		resp := decodeError(t, rr)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Error.Code)
		assert.Equal(t, "course not found", resp.Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-4"} {
			router := setupCourseRouter(&stubCourseService{})
			rr := doRequest(router, http.MethodGet, "/api/v1/courses/"+id+"/", "", "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		}
	})

	t.Run("unexpected error hides details", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{err: errors.New("connection reset")})
		rr := doRequest(router, http.MethodGet, "/api/v1/courses/1/", "", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, dto.ErrorCodeInternalServer, resp.Error.Code)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})
}

func TestCourseController_Create(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPost, "/api/v1/courses/", "application/json",
			`{"name":"test_course1","students":[2,1]}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":1,"name":"test_course1","students":[2,1]}`, rr.Body.String())
		assert.Equal(t, []int64{2, 1}, svc.lastCreate.Students)
	})

	t.Run("form body", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)

		form := url.Values{"name": {"test_course1"}}
		rr := doRequest(router, http.MethodPost, "/api/v1/courses/", "application/x-www-form-urlencoded", form.Encode())
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "test_course1", svc.lastCreate.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPost, "/api/v1/courses/", "application/json", `{}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
		assert.Equal(t, "name", resp.Error.Field)
		assert.Nil(t, svc.lastCreate)
	})

	t.Run("malformed json", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{})
		rr := doRequest(router, http.MethodPost, "/api/v1/courses/", "application/json", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service validation error carries details", func(t *testing.T) {
		svc := &stubCourseService{err: apperrors.ErrTooManyStudents.WithDetails(map[string]interface{}{"max": 1})}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPost, "/api/v1/courses/", "application/json", `{"name":"x","students":[1,2]}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
		assert.Equal(t, map[string]interface{}{"max": float64(1)}, resp.Error.Details)
	})
}

func TestCourseController_Update(t *testing.T) {
	t.Run("patch name only", func(t *testing.T) {
		svc := &stubCourseService{course: &models.Course{ID: 4, Name: "New"}}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPatch, "/api/v1/courses/4/", "application/json", `{"name":"New"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(4), svc.lastID)
		require.NotNil(t, svc.lastUpdate.Name)
		assert.Equal(t, "New", *svc.lastUpdate.Name)
		assert.Nil(t, svc.lastUpdate.Students)
	})

	t.Run("patch form body", func(t *testing.T) {
		svc := &stubCourseService{course: &models.Course{ID: 4, Name: "New"}}
		router := setupCourseRouter(svc)

		form := url.Values{"name": {"New"}}
		rr := doRequest(router, http.MethodPatch, "/api/v1/courses/4/", "application/x-www-form-urlencoded", form.Encode())
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.lastUpdate.Name)
		assert.Equal(t, "New", *svc.lastUpdate.Name)
	})

	t.Run("patch empty students replaces enrollment", func(t *testing.T) {
		svc := &stubCourseService{course: &models.Course{ID: 4, Name: "Old"}}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPatch, "/api/v1/courses/4/", "application/json", `{"students":[]}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotNil(t, svc.lastUpdate.Students)
		assert.Nil(t, svc.lastUpdate.Name)
	})

	t.Run("put requires name", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPut, "/api/v1/courses/4/", "application/json", `{"students":[1]}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, svc.lastID)
	})

	t.Run("put", func(t *testing.T) {
		svc := &stubCourseService{course: &models.Course{ID: 4, Name: "Full"}}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodPut, "/api/v1/courses/4/", "application/json", `{"name":"Full"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":4,"name":"Full","students":[]}`, rr.Body.String())
	})

	t.Run("missing course", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{err: apperrors.ErrCourseNotFound})
		rr := doRequest(router, http.MethodPatch, "/api/v1/courses/4/", "application/json", `{"name":"x"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCourseController_Delete(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		svc := &stubCourseService{}
		router := setupCourseRouter(svc)

		rr := doRequest(router, http.MethodDelete, "/api/v1/courses/9/", "", "")
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, int64(9), svc.lastID)
	})

	t.Run("missing course", func(t *testing.T) {
		router := setupCourseRouter(&stubCourseService{err: apperrors.ErrCourseNotFound})
		rr := doRequest(router, http.MethodDelete, "/api/v1/courses/9/", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
