package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/seed"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])

	seedCommand, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	require.NoError(t, seedCommand.ParseFlags([]string{"--courses", "3", "--students", "7"}))
	assert.Equal(t, 3, seedCourses)
	assert.Equal(t, 7, seedStudents)
}

func TestPrintSeedResult(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	printSeedResult(&buf, &seed.Result{
		Students: []*models.Student{{ID: 1, Name: "Ada"}},
		Courses:  []*models.Course{{ID: 2, Name: "Logic", Students: []int64{1}}},
	})

	out := buf.String()
	assert.Contains(t, out, "Created 1 students")
	assert.Contains(t, out, "#1 Ada")
	assert.Contains(t, out, "#2 Logic students=[1]")
}
