package models

import "sort"

// TimeSlot is one period of a bell schedule. Times are zero-padded 24h "HH:MM"
// strings so lexical order matches chronological order.
type TimeSlot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleTemplate is a named set of time slots. Slots are stored unsorted.
type ScheduleTemplate struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Slots []TimeSlot `json:"slots"`
}

// SortedSlots returns a copy of the slots ordered by start time.
func (t ScheduleTemplate) SortedSlots() []TimeSlot {
	slots := append([]TimeSlot(nil), t.Slots...)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots
}

// Clone deep-copies the template.
func (t ScheduleTemplate) Clone() ScheduleTemplate {
	out := t
	out.Slots = append([]TimeSlot(nil), t.Slots...)
	return out
}
