package timetable

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// Snapshot is an immutable view of the shared documents. Readers must clone
// before editing any part of it. Version counts applies in this process only;
// Fingerprint hashes Config and Teachers, so equal contents share it across
// processes.
type Snapshot struct {
	Config      models.AcademicConfig
	Teachers    []models.Teacher
	Version     uint64
	SyncedAt    time.Time
	Fingerprint uint64
}

// ContentHash returns the fingerprint, computing it for snapshots that were
// not applied through a State.
func (s Snapshot) ContentHash() uint64 {
	if s.Fingerprint != 0 {
		return s.Fingerprint
	}
	return fingerprint(s.Config, s.Teachers)
}

func fingerprint(cfg models.AcademicConfig, teachers []models.Teacher) uint64 {
	digest := xxhash.New()
	enc := json.NewEncoder(digest)
	_ = enc.Encode(cfg)
	for _, teacher := range teachers {
		_, _ = digest.WriteString(teacher.ID)
		_ = enc.Encode(teacher)
	}
	return digest.Sum64()
}

// Teacher returns the teacher with id.
func (s Snapshot) Teacher(id string) (models.Teacher, bool) {
	for _, teacher := range s.Teachers {
		if teacher.ID == id {
			return teacher, true
		}
	}
	return models.Teacher{}, false
}

// TeacherByEmail finds a teacher case-insensitively by email.
func (s Snapshot) TeacherByEmail(email string) (models.Teacher, bool) {
	for _, teacher := range s.Teachers {
		if teacher.SameEmail(email) {
			return teacher, true
		}
	}
	return models.Teacher{}, false
}

// State holds the latest snapshot. ApplySnapshot is the only way to change it.
type State struct {
	mu      sync.RWMutex
	current Snapshot
	ready   bool
}

// NewState starts with the default configuration and no teachers.
func NewState() *State {
	return &State{current: Snapshot{Config: models.DefaultAcademicConfig(), Teachers: []models.Teacher{}}}
}

// ApplySnapshot replaces the whole state and bumps the version.
func (s *State) ApplySnapshot(next Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(next)
}

// ApplyConfig replaces the configuration and keeps the current teachers.
func (s *State) ApplyConfig(cfg models.AcademicConfig) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(Snapshot{Config: cfg, Teachers: s.current.Teachers})
}

// ApplyTeachers replaces the teacher list and keeps the current configuration.
func (s *State) ApplyTeachers(teachers []models.Teacher) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(Snapshot{Config: s.current.Config, Teachers: teachers})
}

func (s *State) applyLocked(next Snapshot) Snapshot {
	next.Version = s.current.Version + 1
	if next.SyncedAt.IsZero() {
		next.SyncedAt = time.Now().UTC()
	}
	if next.Teachers == nil {
		next.Teachers = []models.Teacher{}
	}
	next.Fingerprint = fingerprint(next.Config, next.Teachers)
	s.current = next
	s.ready = true
	return next
}

// Current returns the latest snapshot.
func (s *State) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Ready reports whether at least one snapshot was applied.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Version returns the version of the current snapshot.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Version
}
