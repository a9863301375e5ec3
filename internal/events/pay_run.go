package events

import "time"

const PayRunTopic = "school.payroll.payrun.v1"

const (
	PayRunGeneratedEventType = "payrun.generated"
	PayRunPaidEventType      = "payrun.paid"
)

// PayRunEvent announces pay-run lifecycle changes to external
// collaborators (notification delivery, document rendering). The engine
// only emits; what consumers do with it is outside this codebase.
type PayRunEvent struct {
	EventType   string    `json:"event_type"`
	PayRunID    string    `json:"pay_run_id"`
	SchoolID    string    `json:"school_id"`
	EmployeeID  string    `json:"employee_id"`
	PeriodMonth int       `json:"period_month"`
	PeriodYear  int       `json:"period_year"`
	NetSalary   int64     `json:"net_salary"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
