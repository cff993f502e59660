package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/factory"
)

// Options controls how much demo data is created
type Options struct {
	Courses  int
	Students int
	// MaxPerCourse caps how many students one course receives; 0 means no cap
	MaxPerCourse int
}

// Result lists what was created, in creation order
type Result struct {
	Courses  []*models.Course
	Students []*models.Student
}

// Run creates opts.Students students, then opts.Courses courses, and spreads the
// students over the courses round robin.
func Run(ctx context.Context, f *factory.Factory, opts Options, lgr zerolog.Logger) (*Result, error) {
	if opts.Courses < 0 || opts.Students < 0 {
		return nil, errors.New("seed quantities cannot be negative")
	}

	res := &Result{}
	if opts.Students > 0 {
		lgr.Info().Int("count", opts.Students).Msg("Creating students...")
		students, err := f.Students(ctx, opts.Students)
		res.Students = students
		if err != nil {
			return res, fmt.Errorf("seeding students: %w", err)
		}
	}

	if opts.Courses == 0 {
		return res, nil
	}

	enrollment := distribute(factory.StudentIDs(res.Students), opts.Courses, opts.MaxPerCourse)

	lgr.Info().Int("count", opts.Courses).Msg("Creating courses...")
	for i := 0; i < opts.Courses; i++ {
		course, err := f.Course(ctx, factory.WithStudents(enrollment[i]...))
		if err != nil {
			return res, fmt.Errorf("seeding course %d of %d: %w", i+1, opts.Courses, err)
		}
		res.Courses = append(res.Courses, course)
	}

	lgr.Info().
		Int("courses", len(res.Courses)).
		Int("students", len(res.Students)).
		Msg("Seed data created")
	return res, nil
}

// distribute assigns ids to n buckets round robin, skipping full buckets
func distribute(ids []int64, n, max int) [][]int64 {
	buckets := make([][]int64, n)
	for i := range buckets {
		buckets[i] = []int64{}
	}
	for i, id := range ids {
		b := i % n
		if max > 0 && len(buckets[b]) >= max {
			continue
		}
		buckets[b] = append(buckets[b], id)
	}
	return buckets
}
