package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type catalogServiceMock struct {
	kind           models.CatalogKind
	value, renamed string
	err            error
}

func (m *catalogServiceMock) Config() models.AcademicConfig {
	return models.DefaultAcademicConfig()
}

func (m *catalogServiceMock) AddItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error) {
	m.kind, m.value = kind, value
	return models.AcademicConfig{Subjects: []string{value}}, m.err
}

func (m *catalogServiceMock) EditItem(ctx context.Context, kind models.CatalogKind, oldValue, newValue string) (models.AcademicConfig, error) {
	m.kind, m.value, m.renamed = kind, oldValue, newValue
	return models.AcademicConfig{}, m.err
}

func (m *catalogServiceMock) DeleteItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error) {
	m.kind, m.value = kind, value
	return models.AcademicConfig{}, m.err
}

func TestCatalogHandler(t *testing.T) {
	svc := &catalogServiceMock{}
	handler := NewCatalogHandler(svc)

	c, w := newGinContext(http.MethodGet, "/config", nil)
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "default_sec")

	c, w = newGinContext(http.MethodPost, "/config/subjects", mustJSON(t, dto.CatalogItemRequest{Value: "Art"}))
	c.Params = gin.Params{{Key: "kind", Value: "subjects"}}
	handler.AddItem(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.CatalogSubjects, svc.kind)
	assert.Equal(t, "Art", svc.value)

	c, w = newGinContext(http.MethodPut, "/config/courses", mustJSON(t, dto.CatalogRenameRequest{OldValue: "A", NewValue: "B"}))
	c.Params = gin.Params{{Key: "kind", Value: "courses"}}
	handler.EditItem(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", svc.renamed)

	svc.err = appErrors.Clone(appErrors.ErrValidation, "unknown catalog list")
	c, w = newGinContext(http.MethodDelete, "/config/colors/red", nil)
	c.Params = gin.Params{{Key: "kind", Value: "colors"}, {Key: "value", Value: "red"}}
	handler.DeleteItem(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type templateServiceMock struct {
	fields timetable.SlotFields
	err    error
}

func (m *templateServiceMock) ListTemplates() []models.ScheduleTemplate {
	return models.DefaultAcademicConfig().ScheduleTemplates
}

func (m *templateServiceMock) GetTemplate(id string) (models.ScheduleTemplate, bool) {
	if id != "default_sec" {
		return models.ScheduleTemplate{}, false
	}
	return models.DefaultAcademicConfig().ScheduleTemplates[0], true
}

func (m *templateServiceMock) CreateTemplate(ctx context.Context, name string) (models.ScheduleTemplate, error) {
	return models.ScheduleTemplate{ID: "new", Name: name}, m.err
}

func (m *templateServiceMock) DeleteTemplate(ctx context.Context, id string) error {
	return m.err
}

func (m *templateServiceMock) AddSlot(ctx context.Context, templateID, label, start, end string) (models.TimeSlot, error) {
	return models.TimeSlot{ID: "s", Label: label, Start: start, End: end}, m.err
}

func (m *templateServiceMock) EditSlot(ctx context.Context, templateID, slotID string, fields timetable.SlotFields) (models.TimeSlot, error) {
	m.fields = fields
	return models.TimeSlot{ID: slotID}, m.err
}

func (m *templateServiceMock) DeleteSlot(ctx context.Context, templateID, slotID string) error {
	return m.err
}

func (m *templateServiceMock) AssignTemplate(ctx context.Context, course, templateID string) (models.AcademicConfig, error) {
	return models.AcademicConfig{CourseSchedules: map[string]string{course: templateID}}, m.err
}

func (m *templateServiceMock) ResolveTemplate(course string) (models.ScheduleTemplate, bool) {
	return models.ScheduleTemplate{}, false
}

func TestTemplateHandler(t *testing.T) {
	svc := &templateServiceMock{}
	handler := NewTemplateHandler(svc)

	c, w := newGinContext(http.MethodGet, "/templates/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodPost, "/templates", mustJSON(t, dto.CreateTemplateRequest{Name: "Evening"}))
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newGinContext(http.MethodPut, "/templates/default_sec/slots/t1", []byte(`{"end":"07:45"}`))
	c.Params = gin.Params{{Key: "id", Value: "default_sec"}, {Key: "slotId", Value: "t1"}}
	handler.EditSlot(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.fields.End)
	assert.Equal(t, "07:45", *svc.fields.End)
	assert.Nil(t, svc.fields.Start)

	c, w = newGinContext(http.MethodPut, "/assignments/8th EGB", mustJSON(t, dto.AssignTemplateRequest{TemplateID: "default_sec"}))
	c.Params = gin.Params{{Key: "course", Value: "8th EGB"}}
	handler.Assign(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"8th EGB":"default_sec"`)

	c, w = newGinContext(http.MethodGet, "/assignments/X", nil)
	c.Params = gin.Params{{Key: "course", Value: "X"}}
	handler.Resolve(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	svc.err = appErrors.Clone(appErrors.ErrValidation, "start must be before end")
	c, w = newGinContext(http.MethodPost, "/templates/default_sec/slots", mustJSON(t, dto.TimeSlotRequest{Label: "x", Start: "09:00", End: "08:00"}))
	c.Params = gin.Params{{Key: "id", Value: "default_sec"}}
	handler.AddSlot(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = nil
	c, w = newGinContext(http.MethodDelete, "/templates/default_sec/slots/t1", nil)
	c.Params = gin.Params{{Key: "id", Value: "default_sec"}, {Key: "slotId", Value: "t1"}}
	handler.DeleteSlot(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type userServiceMock struct {
	deleted, actor string
}

func (m *userServiceMock) List(filter dto.UserFilter) []models.UserProfile {
	return []models.UserProfile{{ID: "u1", Name: "Ana", Roles: []models.UserRole{filter.Role}}}
}

func (m *userServiceMock) Get(id string) (*models.UserProfile, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (m *userServiceMock) Create(ctx context.Context, req dto.CreateUserRequest) (*models.UserProfile, error) {
	return &models.UserProfile{ID: "new", Email: req.Email}, nil
}

func (m *userServiceMock) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.UserProfile, error) {
	return &models.UserProfile{ID: id, Name: *req.Name}, nil
}

func (m *userServiceMock) Delete(ctx context.Context, id, actorID string) error {
	m.deleted, m.actor = id, actorID
	return nil
}

func TestUserHandler(t *testing.T) {
	svc := &userServiceMock{}
	handler := NewUserHandler(svc)

	c, w := newGinContext(http.MethodGet, "/users?role=TEACHER", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
	assert.Contains(t, w.Body.String(), `"TEACHER"`)

	c, w = newGinContext(http.MethodGet, "/users/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodPost, "/users", mustJSON(t, map[string]interface{}{"email": "n@school.edu"}))
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newGinContext(http.MethodPut, "/users/u1", []byte(`{"name":"Ana B"}`))
	c.Params = gin.Params{{Key: "id", Value: "u1"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana B")

	c, w = newGinContext(http.MethodDelete, "/users/u2", nil)
	c.Params = gin.Params{{Key: "id", Value: "u2"}}
	withClaims(c, "admin", models.RoleAdmin)
	handler.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u2", svc.deleted)
	assert.Equal(t, "admin", svc.actor)
}

type scheduleServiceMock struct {
	req dto.AddScheduleEntryRequest
	err error
}

func (m *scheduleServiceMock) List(teacherID string) ([]models.ScheduleEntry, error) {
	return []models.ScheduleEntry{{ID: "e1"}}, nil
}

func (m *scheduleServiceMock) AddEntry(ctx context.Context, teacherID string, req dto.AddScheduleEntryRequest) (*models.ScheduleEntry, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.ScheduleEntry{ID: "e2", Day: models.Monday}, nil
}

func (m *scheduleServiceMock) RemoveEntry(ctx context.Context, teacherID, entryID string) error {
	return m.err
}

func TestScheduleHandler(t *testing.T) {
	svc := &scheduleServiceMock{}
	handler := NewScheduleHandler(svc)

	c, w := newGinContext(http.MethodPost, "/users/t1/schedule", []byte(`{"day":"LUNES","timeSlotIndex":2}`))
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	handler.Add(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, svc.req.TimeSlotIndex)

	svc.err = appErrors.Clone(appErrors.ErrInvalidSlot, "time slot index out of range")
	c, w = newGinContext(http.MethodPost, "/users/t1/schedule", []byte(`{"day":"MONDAY","timeSlotIndex":20}`))
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	handler.Add(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_SLOT", decodeEnvelope(t, w).Error.Code)

	svc.err = nil
	c, w = newGinContext(http.MethodGet, "/users/t1/schedule", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	withClaims(c, "t1", models.RoleTeacher)
	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodDelete, "/users/t1/schedule/e1", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}, {Key: "entryId", Value: "e1"}}
	handler.Remove(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type logServiceMock struct {
	query dto.LogRangeQuery
	saved dto.SaveLogRequest
}

func (m *logServiceMock) List(ctx context.Context, teacherID string, query dto.LogRangeQuery) ([]models.DailyLog, error) {
	m.query = query
	return []models.DailyLog{}, nil
}

func (m *logServiceMock) Save(ctx context.Context, teacherID string, req dto.SaveLogRequest) (*models.DailyLog, error) {
	m.saved = req
	return &models.DailyLog{ID: "l1", UserID: teacherID, PeriodID: req.PeriodID, Date: req.Date, Topic: req.Topic}, nil
}

func TestLogHandler(t *testing.T) {
	svc := &logServiceMock{}
	handler := NewLogHandler(svc)

	c, w := newGinContext(http.MethodGet, "/users/t1/logs?from=2024-06-01&to=2024-06-30", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	withClaims(c, "t1", models.RoleTeacher)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.LogRangeQuery{From: "2024-06-01", To: "2024-06-30"}, svc.query)

	body := mustJSON(t, dto.SaveLogRequest{PeriodID: "e1", Date: "2024-06-10", Topic: "Fractions"})
	c, w = newGinContext(http.MethodPut, "/users/t1/logs", body)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	withClaims(c, "t2", models.RoleTeacher)
	handler.Save(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newGinContext(http.MethodPut, "/users/t1/logs", body)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	withClaims(c, "t1", models.RoleTeacher)
	handler.Save(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fractions", svc.saved.Topic)
}
