package events

import "time"

const StaffCreatedTopic = "school.staff.lifecycle.v1"

// StaffCreatedEvent is published by the staff directory whenever a new
// employee joins a school. Payroll consumes it to provision a default
// salary structure so generation failures point at configuration, not
// at a missing row.
type StaffCreatedEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	SchoolID     string    `json:"school_id"`
	EmployeeType string    `json:"employee_type"`
	OccurredAt   time.Time `json:"occurred_at"`
}
