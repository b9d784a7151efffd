package timetable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func sequentialIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func emptyConfig() models.AcademicConfig {
	return models.AcademicConfig{CourseSchedules: map[string]string{}}
}

func TestCatalogTemplateLifecycle(t *testing.T) {
	catalog := NewCatalog(emptyConfig()).WithIDs(sequentialIDs("id"))

	tmpl, err := catalog.CreateTemplate("Morning")
	require.NoError(t, err)
	assert.Equal(t, "id-1", tmpl.ID)
	assert.Empty(t, tmpl.Slots)

	second, err := catalog.AddSlot(tmpl.ID, "Second", "08:40", "09:20")
	require.NoError(t, err)
	first, err := catalog.AddSlot(tmpl.ID, "First", "08:00", "08:40")
	require.NoError(t, err)

	stored, ok := catalog.Template(tmpl.ID)
	require.True(t, ok)
	assert.Equal(t, []string{second.ID, first.ID}, slotIDs(stored.Slots), "storage keeps insertion order")
	assert.Equal(t, []string{first.ID, second.ID}, slotIDs(stored.SortedSlots()))

	label := "Period 1"
	edited, err := catalog.EditSlot(tmpl.ID, first.ID, SlotFields{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, first.ID, edited.ID)
	assert.Equal(t, "Period 1", edited.Label)
	assert.Equal(t, "08:00", edited.Start)

	catalog.DeleteSlot(tmpl.ID, second.ID)
	catalog.DeleteSlot(tmpl.ID, "missing")
	stored, _ = catalog.Template(tmpl.ID)
	assert.Len(t, stored.Slots, 1)

	catalog.DeleteTemplate(tmpl.ID)
	catalog.DeleteTemplate(tmpl.ID)
	assert.Empty(t, catalog.Templates())
}

func TestCatalogAddSlotValidation(t *testing.T) {
	catalog := NewCatalog(emptyConfig())
	tmpl, err := catalog.CreateTemplate("Afternoon")
	require.NoError(t, err)

	cases := []struct {
		name              string
		label, start, end string
	}{
		{"missing label", "", "08:00", "08:40"},
		{"missing start", "P1", "", "08:40"},
		{"missing end", "P1", "08:00", ""},
		{"bad format", "P1", "8:00", "08:40"},
		{"start after end", "P1", "09:00", "08:40"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.AddSlot(tmpl.ID, tc.label, tc.start, tc.end)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}

	stored, _ := catalog.Template(tmpl.ID)
	assert.Empty(t, stored.Slots)

	_, err = catalog.AddSlot("unknown", "P1", "08:00", "08:40")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = catalog.CreateTemplate("   ")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCatalogEditSlotErrors(t *testing.T) {
	catalog := NewCatalog(emptyConfig())
	tmpl, _ := catalog.CreateTemplate("T")
	slot, err := catalog.AddSlot(tmpl.ID, "P1", "08:00", "08:40")
	require.NoError(t, err)

	_, err = catalog.EditSlot("missing", slot.ID, SlotFields{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = catalog.EditSlot(tmpl.ID, "missing", SlotFields{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	end := "07:00"
	_, err = catalog.EditSlot(tmpl.ID, slot.ID, SlotFields{End: &end})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	stored, _ := catalog.Template(tmpl.ID)
	assert.Equal(t, "08:40", stored.Slots[0].End)
}

func TestSortedSlotsIdempotent(t *testing.T) {
	tmpl := models.ScheduleTemplate{
		ID: "t",
		Slots: []models.TimeSlot{
			{ID: "c", Start: "10:00", End: "10:40"},
			{ID: "a", Start: "07:00", End: "07:40"},
			{ID: "b", Start: "08:20", End: "09:00"},
		},
	}

	once := tmpl.SortedSlots()
	twice := models.ScheduleTemplate{Slots: once}.SortedSlots()
	assert.Equal(t, once, twice)
	for i := 1; i < len(once); i++ {
		assert.Less(t, once[i-1].Start, once[i].Start)
	}
	assert.Equal(t, "c", tmpl.Slots[0].ID, "sorting never mutates the template")
}

func TestCatalogDoesNotTouchSource(t *testing.T) {
	source := models.DefaultAcademicConfig()
	catalog := NewCatalog(source)

	_, err := catalog.AddSlot("default_sec", "Extra", "12:00", "12:40")
	require.NoError(t, err)
	require.NoError(t, catalog.AddItem(models.CatalogCourses, "Remedial"))

	assert.Len(t, source.ScheduleTemplates[0].Slots, 7)
	assert.NotContains(t, source.Courses, "Remedial")
	assert.Len(t, catalog.Config().ScheduleTemplates[0].Slots, 8)
}

func TestCatalogItems(t *testing.T) {
	catalog := NewCatalog(models.AcademicConfig{Subjects: []string{"Math", "Art"}})

	require.NoError(t, catalog.AddItem(models.CatalogSubjects, "  Music "))
	require.NoError(t, catalog.EditItem(models.CatalogSubjects, "Art", "Fine Arts"))
	require.NoError(t, catalog.DeleteItem(models.CatalogSubjects, "Math"))
	require.NoError(t, catalog.DeleteItem(models.CatalogSubjects, "Nope"))

	assert.Equal(t, []string{"Fine Arts", "Music"}, catalog.Config().Subjects)

	err := catalog.EditItem(models.CatalogSubjects, "Nope", "Other")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	err = catalog.AddItem(models.CatalogKind("rooms"), "R1")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func slotIDs(slots []models.TimeSlot) []string {
	ids := make([]string, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}
	return ids
}
