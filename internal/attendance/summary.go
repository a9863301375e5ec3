package attendance

import "github.com/google/uuid"

// Summary is the engine's view of one employee's attendance for one pay
// period. It is a read-only projection over the school platform's
// attendance tables; this engine never writes attendance.
type Summary struct {
	EmployeeID       uuid.UUID
	EmployeeType     string
	PresentDays      int
	TotalWorkingDays int
}

// Factor is presentDays / totalWorkingDays clamped to [0,1]. A period
// with no working days has no meaningful ratio and is defined as 0.
func (s Summary) Factor() float64 {
	if s.TotalWorkingDays <= 0 {
		return 0
	}

	f := float64(s.PresentDays) / float64(s.TotalWorkingDays)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Eligible reports whether the employee can enter an automatic pay run
// for the period. Zero working days means the period is not set up for
// the employee's calendar yet.
func (s Summary) Eligible() bool {
	return s.TotalWorkingDays > 0
}
