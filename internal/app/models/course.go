package models

// Course represents a course students can enroll on.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Students holds the ids of enrolled students, ascending.
	Students []int64 `json:"students" db:"-"`
}

// CourseFilter narrows a course listing. Nil fields are ignored; set fields
// must match exactly.
type CourseFilter struct {
	ID   *int64
	Name *string
}

// IsEmpty reports whether no filter field is set
func (f CourseFilter) IsEmpty() bool {
	return f.ID == nil && f.Name == nil
}

// CourseUpdate describes a partial update. Nil Name keeps the current name,
// nil Students keeps the current enrollment and a non-nil slice replaces it.
type CourseUpdate struct {
	Name     *string
	Students []int64
}

// IsEmpty reports whether the update changes nothing
func (u CourseUpdate) IsEmpty() bool {
	return u.Name == nil && u.Students == nil
}
