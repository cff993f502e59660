package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func setupCourseRepo(t *testing.T) (*CourseRepository, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewCourseRepository(mock), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestCourseRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts course and enrollment", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO courses (name) VALUES ($1) RETURNING id")).
			WithArgs("Algebra").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectExec(q("INSERT INTO course_students")).
			WithArgs(int64(7), int64(1), int64(7), int64(2)).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))
		mock.ExpectCommit()

		course := &models.Course{Name: "Algebra", Students: []int64{1, 2}}
		require.NoError(t, repo.Create(ctx, course))
		assert.Equal(t, int64(7), course.ID)
		assert.Equal(t, []int64{1, 2}, course.Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without students skips enrollment insert", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO courses")).
			WithArgs("Physics").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		course := &models.Course{Name: "Physics"}
		require.NoError(t, repo.Create(ctx, course))
		assert.Equal(t, int64(1), course.ID)
		assert.NotNil(t, course.Students)
		assert.Empty(t, course.Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown student rolls back", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO courses")).
			WithArgs("Chemistry").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
		mock.ExpectExec(q("INSERT INTO course_students")).
			WithArgs(int64(3), int64(99)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: studentForeignKey})
		mock.ExpectRollback()

		err := repo.Create(ctx, &models.Course{Name: "Chemistry", Students: []int64{99}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns course with students", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectQuery(q("SELECT id, name FROM courses WHERE id = $1")).
			WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(5), "Biology"))
		mock.ExpectQuery(q("SELECT course_id, student_id FROM course_students WHERE course_id IN ($1)")).
			WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"course_id", "student_id"}).
				AddRow(int64(5), int64(10)).
				AddRow(int64(5), int64(11)))

		course, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "Biology", course.Name)
		assert.Equal(t, []int64{10, 11}, course.Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing course", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectQuery(q("SELECT id, name FROM courses WHERE id = $1")).
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 404)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists in id order", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectQuery(q("SELECT id, name FROM courses ORDER BY id ASC")).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
				AddRow(int64(1), "A").
				AddRow(int64(2), "B"))
		mock.ExpectQuery(q("FROM course_students WHERE course_id IN ($1,$2)")).
			WithArgs(int64(1), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"course_id", "student_id"}).
				AddRow(int64(2), int64(4)))

		courses, err := repo.List(ctx, models.CourseFilter{})
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "A", courses[0].Name)
		assert.Equal(t, []int64{}, courses[0].Students)
		assert.Equal(t, []int64{4}, courses[1].Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies exact filters", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		id := int64(3)
		name := "Geometry"
		mock.ExpectQuery(q("SELECT id, name FROM courses WHERE id = $1 AND name = $2 ORDER BY id ASC")).
			WithArgs(id, name).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

		courses, err := repo.List(ctx, models.CourseFilter{ID: &id, Name: &name})
		require.NoError(t, err)
		assert.NotNil(t, courses)
		assert.Empty(t, courses)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and keeps enrollment", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		name := "Renamed"
		mock.ExpectBegin()
		mock.ExpectQuery(q("UPDATE courses SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING id, name")).
			WithArgs(name, int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), name))
		mock.ExpectQuery(q("FROM course_students WHERE course_id IN ($1)")).
			WithArgs(int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"course_id", "student_id"}).AddRow(int64(2), int64(8)))
		mock.ExpectCommit()

		course, err := repo.Update(ctx, 2, models.CourseUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, int64(2), course.ID)
		assert.Equal(t, name, course.Name)
		assert.Equal(t, []int64{8}, course.Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replaces enrollment only", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT id, name FROM courses WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Art"))
		mock.ExpectExec(q("DELETE FROM course_students WHERE course_id = $1")).
			WithArgs(int64(2)).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec(q("INSERT INTO course_students")).
			WithArgs(int64(2), int64(5)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(q("FROM course_students WHERE course_id IN ($1)")).
			WithArgs(int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"course_id", "student_id"}).AddRow(int64(2), int64(5)))
		mock.ExpectCommit()

		course, err := repo.Update(ctx, 2, models.CourseUpdate{Students: []int64{5}})
		require.NoError(t, err)
		assert.Equal(t, "Art", course.Name)
		assert.Equal(t, []int64{5}, course.Students)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing course rolls back", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		name := "Ghost"
		mock.ExpectBegin()
		mock.ExpectQuery(q("UPDATE courses SET name = $1")).
			WithArgs(name, int64(42)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Update(ctx, 42, models.CourseUpdate{Name: &name})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing course", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectExec(q("DELETE FROM courses WHERE id = $1")).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, 9))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing course", func(t *testing.T) {
		repo, mock := setupCourseRepo(t)

		mock.ExpectExec(q("DELETE FROM courses WHERE id = $1")).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, 9)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
