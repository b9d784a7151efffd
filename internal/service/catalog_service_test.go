package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func TestCatalogServiceWritesWholeConfig(t *testing.T) {
	writer := newFakeWriter()
	svc := NewCatalogService(writer, newStubState(plannerConfig()), nil)

	cfg, err := svc.AddItem(context.Background(), models.CatalogSubjects, " History ")
	require.NoError(t, err)
	assert.Contains(t, cfg.Subjects, "History")

	write := writer.lastWrite(t)
	assert.Equal(t, "put", write.Op)
	assert.Equal(t, models.CollectionConfig, write.Collection)
	assert.Equal(t, models.AcademicConfigKey, write.ID)
	stored, ok := write.Value.(models.AcademicConfig)
	require.True(t, ok)
	assert.Equal(t, cfg.Subjects, stored.Subjects)
}

func TestCatalogServiceCourseRenameKeepsTemplate(t *testing.T) {
	writer := newFakeWriter()
	svc := NewCatalogService(writer, newStubState(plannerConfig()), nil)

	cfg, err := svc.EditItem(context.Background(), models.CatalogCourses, "8th EGB", "Eighth")
	require.NoError(t, err)
	assert.Equal(t, "morning", cfg.CourseSchedules["Eighth"])
	_, stale := cfg.CourseSchedules["8th EGB"]
	assert.False(t, stale)
}

func TestCatalogServiceTemplateCommands(t *testing.T) {
	writer := newFakeWriter()
	svc := NewCatalogService(writer, newStubState(plannerConfig()), nil)
	svc.newID = func() string { return "fixed" }

	tmpl, err := svc.CreateTemplate(context.Background(), "Afternoon")
	require.NoError(t, err)
	assert.Equal(t, "fixed", tmpl.ID)

	slot, err := svc.AddSlot(context.Background(), "morning", "3rd", "08:20", "09:00")
	require.NoError(t, err)
	assert.Equal(t, "08:20", slot.Start)

	_, err = svc.AddSlot(context.Background(), "missing", "3rd", "08:20", "09:00")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	end := "07:50"
	edited, err := svc.EditSlot(context.Background(), "morning", "p1", timetable.SlotFields{End: &end})
	require.NoError(t, err)
	assert.Equal(t, "07:50", edited.End)

	require.NoError(t, svc.DeleteSlot(context.Background(), "morning", "unknown"))
	require.NoError(t, svc.DeleteTemplate(context.Background(), "unknown"))
}

func TestCatalogServiceFailedCommandDoesNotWrite(t *testing.T) {
	writer := newFakeWriter()
	svc := NewCatalogService(writer, newStubState(plannerConfig()), nil)

	_, err := svc.AddSlot(context.Background(), "morning", "Bad", "09:00", "08:00")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, writer.writeCount())
}

func TestCatalogServicePropagatesWriteErrors(t *testing.T) {
	writer := newFakeWriter()
	writer.err = errors.New("db down")
	svc := NewCatalogService(writer, newStubState(plannerConfig()), nil)

	_, err := svc.AssignTemplate(context.Background(), "9th EGB", "morning")
	assert.Error(t, err)
}

func TestCatalogServiceResolveTemplate(t *testing.T) {
	svc := NewCatalogService(newFakeWriter(), newStubState(plannerConfig()), nil)

	tmpl, ok := svc.ResolveTemplate("9th EGB")
	require.True(t, ok, "unmapped course falls back to the first template")
	assert.Equal(t, "morning", tmpl.ID)
	assert.Equal(t, "p1", tmpl.Slots[0].ID)

	got, ok := svc.GetTemplate("morning")
	require.True(t, ok)
	assert.Equal(t, "p1", got.Slots[0].ID)

	empty := NewCatalogService(newFakeWriter(), newStubState(models.AcademicConfig{}), nil)
	_, ok = empty.ResolveTemplate("8th EGB")
	assert.False(t, ok)
}

func TestCatalogServiceReadsSortSlotsWithoutReordering(t *testing.T) {
	cfg := plannerConfig()
	cfg.ScheduleTemplates[0].Slots = []models.TimeSlot{
		{ID: "late", Label: "Late", Start: "09:00", End: "09:40"},
		{ID: "early", Label: "Early", Start: "08:00", End: "08:40"},
	}
	state := newStubState(cfg)
	writer := newFakeWriter()
	svc := NewCatalogService(writer, state, nil)

	templates := svc.ListTemplates()
	require.Len(t, templates, 1)
	assert.Equal(t, "08:00", templates[0].Slots[0].Start)
	assert.Equal(t, "08:00", svc.Config().ScheduleTemplates[0].Slots[0].Start)
	assert.Equal(t, "late", state.Current().Config.ScheduleTemplates[0].Slots[0].ID, "reads do not touch the snapshot")

	updated, err := svc.AddItem(context.Background(), models.CatalogSubjects, "History")
	require.NoError(t, err)
	assert.Equal(t, "early", updated.ScheduleTemplates[0].Slots[0].ID)
	stored := writer.lastWrite(t).Value.(models.AcademicConfig)
	assert.Equal(t, "late", stored.ScheduleTemplates[0].Slots[0].ID, "stored order is kept")
}
