package models

// Academic configuration document location.
const (
	CollectionConfig  = "config"
	AcademicConfigKey = "academic"
	LegacyTemplateID  = "legacy"
)

// CatalogKind names one of the editable string lists of the academic config.
type CatalogKind string

const (
	CatalogSections  CatalogKind = "sections"
	CatalogCourses   CatalogKind = "courses"
	CatalogParallels CatalogKind = "parallels"
	CatalogSubjects  CatalogKind = "subjects"
)

// ValidCatalogKind reports whether kind addresses an editable list.
func ValidCatalogKind(kind CatalogKind) bool {
	switch kind {
	case CatalogSections, CatalogCourses, CatalogParallels, CatalogSubjects:
		return true
	}
	return false
}

// AcademicConfig is the single configuration document shared by all users.
// CourseSchedules maps a course name to the id of its schedule template.
type AcademicConfig struct {
	Sections          []string           `json:"sections"`
	Courses           []string           `json:"courses"`
	Parallels         []string           `json:"parallels"`
	Subjects          []string           `json:"subjects"`
	ScheduleTemplates []ScheduleTemplate `json:"scheduleTemplates"`
	CourseSchedules   map[string]string  `json:"courseSchedules"`
	TimeSlots         []TimeSlot         `json:"timeSlots,omitempty"`
}

// List returns the catalog list for kind.
func (c *AcademicConfig) List(kind CatalogKind) []string {
	switch kind {
	case CatalogSections:
		return c.Sections
	case CatalogCourses:
		return c.Courses
	case CatalogParallels:
		return c.Parallels
	case CatalogSubjects:
		return c.Subjects
	}
	return nil
}

// SetList replaces the catalog list for kind.
func (c *AcademicConfig) SetList(kind CatalogKind, items []string) {
	switch kind {
	case CatalogSections:
		c.Sections = items
	case CatalogCourses:
		c.Courses = items
	case CatalogParallels:
		c.Parallels = items
	case CatalogSubjects:
		c.Subjects = items
	}
}

// Clone deep-copies the configuration.
func (c AcademicConfig) Clone() AcademicConfig {
	out := AcademicConfig{
		Sections:  append([]string(nil), c.Sections...),
		Courses:   append([]string(nil), c.Courses...),
		Parallels: append([]string(nil), c.Parallels...),
		Subjects:  append([]string(nil), c.Subjects...),
		TimeSlots: append([]TimeSlot(nil), c.TimeSlots...),
	}
	if c.ScheduleTemplates != nil {
		out.ScheduleTemplates = make([]ScheduleTemplate, len(c.ScheduleTemplates))
		for i, tmpl := range c.ScheduleTemplates {
			out.ScheduleTemplates[i] = tmpl.Clone()
		}
	}
	out.CourseSchedules = make(map[string]string, len(c.CourseSchedules))
	for course, templateID := range c.CourseSchedules {
		out.CourseSchedules[course] = templateID
	}
	return out
}

// DefaultAcademicConfig is written when no configuration document exists and
// fills any list missing from a stored document.
func DefaultAcademicConfig() AcademicConfig {
	return AcademicConfig{
		Sections:  []string{"Primary Section", "Secondary Section"},
		Courses:   []string{"8th EGB", "9th EGB", "10th EGB", "1st Baccalaureate", "2nd Baccalaureate", "3rd Baccalaureate"},
		Parallels: []string{"A", "B", "C", "D", "E"},
		Subjects:  []string{"Mathematics", "Language and Literature", "Natural Sciences", "Social Studies", "English", "Physical Education"},
		ScheduleTemplates: []ScheduleTemplate{
			{
				ID:   "default_sec",
				Name: "Secondary (Morning)",
				Slots: []TimeSlot{
					{ID: "t1", Label: "1st Period", Start: "07:00", End: "07:40"},
					{ID: "t2", Label: "2nd Period", Start: "07:40", End: "08:20"},
					{ID: "t3", Label: "3rd Period", Start: "08:20", End: "09:00"},
					{ID: "t4", Label: "Break", Start: "09:00", End: "09:30"},
					{ID: "t5", Label: "4th Period", Start: "09:30", End: "10:10"},
					{ID: "t6", Label: "5th Period", Start: "10:10", End: "10:50"},
					{ID: "t7", Label: "6th Period", Start: "10:50", End: "11:30"},
				},
			},
		},
		CourseSchedules: map[string]string{},
	}
}
