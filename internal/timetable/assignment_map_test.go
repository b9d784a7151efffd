package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func TestResolveFollowsAssignment(t *testing.T) {
	catalog := NewCatalog(emptyConfig()).WithIDs(sequentialIDs("tmpl"))

	_, ok := catalog.Resolve("8th")
	assert.False(t, ok, "no templates resolves to nothing")

	first, _ := catalog.CreateTemplate("First")
	second, _ := catalog.CreateTemplate("Second")
	third, _ := catalog.CreateTemplate("Third")

	resolved, ok := catalog.Resolve("8th")
	require.True(t, ok)
	assert.Equal(t, first.ID, resolved.ID, "unassigned course uses the first template")

	require.NoError(t, catalog.Assign("8th", third.ID))
	resolved, _ = catalog.Resolve("8th")
	assert.Equal(t, third.ID, resolved.ID)

	require.NoError(t, catalog.Assign("8th", second.ID))
	resolved, _ = catalog.Resolve("8th")
	assert.Equal(t, second.ID, resolved.ID, "reassignment wins")

	catalog.DeleteTemplate(second.ID)
	resolved, _ = catalog.Resolve("8th")
	assert.Equal(t, first.ID, resolved.ID, "dangling assignment falls back to first template")

	catalog.DeleteTemplate(first.ID)
	catalog.DeleteTemplate(third.ID)
	_, ok = catalog.Resolve("8th")
	assert.False(t, ok)
}

func TestAssignRequiresFields(t *testing.T) {
	catalog := NewCatalog(models.AcademicConfig{})
	err := catalog.Assign("", "x")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	require.NoError(t, catalog.Assign("9th", "x"), "nil map is initialised")
	assert.Equal(t, "x", catalog.Config().CourseSchedules["9th"])
}

func TestRenameCoursePreservesAssignment(t *testing.T) {
	cfg := emptyConfig()
	cfg.Courses = []string{"8th EGB", "9th EGB"}
	cfg.ScheduleTemplates = []models.ScheduleTemplate{{ID: "a"}, {ID: "b"}}
	cfg.CourseSchedules["8th EGB"] = "b"

	catalog := NewCatalog(cfg)
	require.NoError(t, catalog.EditItem(models.CatalogCourses, "8th EGB", "Eighth"))

	out := catalog.Config()
	assert.Equal(t, []string{"Eighth", "9th EGB"}, out.Courses)
	assert.Equal(t, "b", out.CourseSchedules["Eighth"])
	_, present := out.CourseSchedules["8th EGB"]
	assert.False(t, present)

	resolved, _ := catalog.Resolve("Eighth")
	assert.Equal(t, "b", resolved.ID)
}
