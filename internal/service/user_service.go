package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// DirectoryConfig holds account rules for the user directory.
type DirectoryConfig struct {
	AllowedEmailDomain string
	BootstrapEmail     string
	BootstrapPassword  string
	BootstrapName      string
}

// UserService manages application users stored in the users collection.
type UserService struct {
	writer    documentWriter
	state     snapshotReader
	validator *validator.Validate
	logger    *zap.Logger
	config    DirectoryConfig
}

// NewUserService creates an instance of UserService.
func NewUserService(writer documentWriter, state snapshotReader, validate *validator.Validate, logger *zap.Logger, config DirectoryConfig) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{writer: writer, state: state, validator: validate, logger: logger, config: config}
}

// List returns users ordered by name, optionally filtered by role or a
// case-insensitive name/email search.
func (s *UserService) List(filter dto.UserFilter) []models.UserProfile {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	teachers := s.state.Current().Teachers
	profiles := make([]models.UserProfile, 0, len(teachers))
	for _, teacher := range teachers {
		if filter.Role != "" && !teacher.HasRole(filter.Role) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(teacher.Name), search) &&
			!strings.Contains(strings.ToLower(teacher.Email), search) {
			continue
		}
		profiles = append(profiles, teacher.Profile())
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles
}

// Get returns a user by ID.
func (s *UserService) Get(id string) (*models.UserProfile, error) {
	teacher, ok := s.state.Current().Teacher(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	profile := teacher.Profile()
	return &profile, nil
}

// Create registers a user with an empty schedule.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkEmail(email, ""); err != nil {
		return nil, err
	}
	if err := checkRoles(req.Roles); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	teacher := models.Teacher{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		PasswordHash:     string(hash),
		Roles:            req.Roles,
		WorkSection:      req.WorkSection,
		AssignedSubjects: nonNilStrings(req.AssignedSubjects),
		Schedule:         []models.ScheduleEntry{},
		CreatedAt:        &now,
	}
	id, err := s.writer.Create(ctx, models.CollectionUsers, teacher)
	if err != nil {
		return nil, err
	}
	teacher.ID = id
	s.logger.Info("user created", zap.String("user_id", id), zap.String("email", email))

	profile := teacher.Profile()
	return &profile, nil
}

// Update edits profile fields. The schedule is never written here.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update user payload")
	}
	teacher, ok := s.state.Current().Teacher(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	updated := teacher.Clone()
	fields := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
		}
		updated.Name = name
		fields["name"] = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := s.checkEmail(email, id); err != nil {
			return nil, err
		}
		updated.Email = email
		fields["email"] = email
	}
	if req.Roles != nil {
		if err := checkRoles(*req.Roles); err != nil {
			return nil, err
		}
		updated.Roles = *req.Roles
		fields["roles"] = *req.Roles
	}
	if req.WorkSection != nil {
		updated.WorkSection = *req.WorkSection
		fields["workSection"] = *req.WorkSection
	}
	if req.AssignedSubjects != nil {
		updated.AssignedSubjects = nonNilStrings(*req.AssignedSubjects)
		fields["assignedSubjects"] = updated.AssignedSubjects
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		fields["passwordHash"] = string(hash)
		fields["password"] = ""
	}

	if len(fields) > 0 {
		if err := s.writer.Merge(ctx, models.CollectionUsers, id, fields); err != nil {
			return nil, err
		}
	}
	profile := updated.Profile()
	return &profile, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete your own account")
	}
	if _, ok := s.state.Current().Teacher(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if err := s.writer.Delete(ctx, models.CollectionUsers, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actorID))
	return nil
}

// EnsureBootstrapAdmin creates the configured administrator when no user
// owns the bootstrap email yet.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.config.BootstrapEmail))
	if email == "" || s.config.BootstrapPassword == "" {
		return nil
	}
	if _, exists := s.state.Current().TeacherByEmail(email); exists {
		return nil
	}
	name := s.config.BootstrapName
	if name == "" {
		name = "Administrator"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	now := time.Now().UTC()
	id, err := s.writer.Create(ctx, models.CollectionUsers, models.Teacher{
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Roles:            []models.UserRole{models.RoleAdmin, models.RoleTeacher},
		AssignedSubjects: []string{},
		Schedule:         []models.ScheduleEntry{},
		CreatedAt:        &now,
	})
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap administrator created", zap.String("user_id", id), zap.String("email", email))
	return nil
}

// ResetPassword replaces the password of the user owning email.
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	teacher, ok := s.state.Current().TeacherByEmail(strings.TrimSpace(email))
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if _, err := s.Update(ctx, teacher.ID, dto.UpdateUserRequest{Password: &password}); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", teacher.ID))
	return nil
}

func (s *UserService) checkEmail(email, excludeID string) error {
	if domain := strings.ToLower(strings.TrimPrefix(s.config.AllowedEmailDomain, "@")); domain != "" {
		if !strings.HasSuffix(email, "@"+domain) {
			return appErrors.Clone(appErrors.ErrValidation, "email must belong to @"+domain)
		}
	}
	for _, teacher := range s.state.Current().Teachers {
		if teacher.ID != excludeID && teacher.SameEmail(email) {
			return appErrors.Clone(appErrors.ErrConflict, "email already exists")
		}
	}
	return nil
}

func checkRoles(roles []models.UserRole) error {
	if len(roles) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one role is required")
	}
	for _, role := range roles {
		if !models.ValidRole(role) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown role "+string(role))
		}
	}
	return nil
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
