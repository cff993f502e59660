package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// studentForeignKey is the constraint guarding course_students.student_id
const studentForeignKey = "fk_course_students_student"

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(q db.Querier) *CourseRepository {
	return &CourseRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the course and its enrollment, then sets course.ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("name").
		Values(course.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("Error executing create course query")
			return fmt.Errorf("error creating course: %w", err)
		}

		if err := r.insertStudents(ctx, tx, course.ID, course.Students); err != nil {
			return err
		}
		if course.Students == nil {
			course.Students = []int64{}
		}
		return nil
	})
}

// GetByID retrieves a course with its students
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := r.getCourseRow(ctx, r.db, id, false)
	if err != nil {
		return nil, err
	}

	if err := r.loadStudents(ctx, r.db, []*models.Course{course}); err != nil {
		return nil, err
	}
	return course, nil
}

// List returns courses matching filter in creation order
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	query := r.sb.Select("id", "name").From("courses")
	if filter.ID != nil {
		query = query.Where(squirrel.Eq{"id": *filter.ID})
	}
	if filter.Name != nil {
		query = query.Where(squirrel.Eq{"name": *filter.Name})
	}

	sql, args, err := query.OrderBy("id ASC").ToSql()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	if err := r.loadStudents(ctx, r.db, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Update applies a partial update and returns the stored course
func (r *CourseRepository) Update(ctx context.Context, id int64, upd models.CourseUpdate) (*models.Course, error) {
	var course *models.Course

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		if upd.Name != nil {
			course, err = r.updateName(ctx, tx, id, *upd.Name)
		} else {
			course, err = r.getCourseRow(ctx, tx, id, true)
		}
		if err != nil {
			return err
		}

		if upd.Students != nil {
			if err := r.clearStudents(ctx, tx, id); err != nil {
				return err
			}
			if err := r.insertStudents(ctx, tx, id, upd.Students); err != nil {
				return err
			}
		}

		return r.loadStudents(ctx, tx, []*models.Course{course})
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course; enrollment rows cascade
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) getCourseRow(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*models.Course, error) {
	query := r.sb.Select("id", "name").
		From("courses").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	if err := q.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Ctx(ctx).Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return course, nil
}

func (r *CourseRepository) updateName(ctx context.Context, q db.Querier, id int64, name string) (*models.Course, error) {
	sql, args, err := r.sb.Update("courses").
		Set("name", name).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name").
		ToSql()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error building update course SQL")
		return nil, fmt.Errorf("failed to build update course query: %w", err)
	}

	course := &models.Course{}
	if err := q.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Ctx(ctx).Error().Err(err).Int64("courseID", id).Msg("Error executing update course query")
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

func (r *CourseRepository) clearStudents(ctx context.Context, q db.Querier, courseID int64) error {
	sql, args, err := r.sb.Delete("course_students").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear enrollment query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("courseID", courseID).Msg("Error clearing course enrollment")
		return fmt.Errorf("error clearing course enrollment: %w", err)
	}
	return nil
}

func (r *CourseRepository) insertStudents(ctx context.Context, q db.Querier, courseID int64, studentIDs []int64) error {
	if len(studentIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("course_students").Columns("course_id", "student_id")
	for _, sid := range studentIDs {
		insert = insert.Values(courseID, sid)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err, studentForeignKey) {
			return apperrors.ErrUnknownStudent.WithDetails(map[string]interface{}{"students": studentIDs})
		}
		logger.Ctx(ctx).Error().Err(err).Int64("courseID", courseID).Msg("Error inserting course enrollment")
		return fmt.Errorf("error inserting course enrollment: %w", err)
	}
	return nil
}

// loadStudents fills Students for every course with a single query
func (r *CourseRepository) loadStudents(ctx context.Context, q db.Querier, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Course, len(courses))
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		c.Students = []int64{}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	sql, args, err := r.sb.Select("course_id", "student_id").
		From("course_students").
		Where(squirrel.Eq{"course_id": ids}).
		OrderBy("course_id ASC", "student_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment lookup query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error querying course enrollment")
		return fmt.Errorf("error querying course enrollment: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, studentID int64
		if err := rows.Scan(&courseID, &studentID); err != nil {
			return fmt.Errorf("error scanning enrollment row: %w", err)
		}
		if c, ok := byID[courseID]; ok {
			c.Students = append(c.Students, studentID)
		}
	}
	return rows.Err()
}
