package attendance

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=reader.go -destination=mock/reader_mock.go -package=mock

// Reader fetches attendance summaries from the platform's attendance
// service tables. Teaching staff and administrative staff are tracked in
// differently shaped tables; the reader normalizes both into Summary so
// the payroll engine never sees the external schemas.
type Reader interface {
	SummariesForPeriod(ctx context.Context, schoolID string, month, year int) ([]Summary, error)
}

type reader struct {
	db *gorm.DB
}

func NewReader(db *gorm.DB) Reader {
	return &reader{db: db}
}

func (r *reader) SummariesForPeriod(ctx context.Context, schoolID string, month, year int) ([]Summary, error) {
	query := `
SELECT
	teacher_id   AS employee_id,
	'TEACHER'    AS employee_type,
	days_taught  AS present_days,
	school_days  AS total_working_days
FROM teacher_attendance_summaries
WHERE school_id = ? AND period_month = ? AND period_year = ?
UNION ALL
SELECT
	staff_id     AS employee_id,
	staff_type   AS employee_type,
	days_present AS present_days,
	working_days AS total_working_days
FROM staff_attendance_summaries
WHERE school_id = ? AND period_month = ? AND period_year = ?
ORDER BY employee_id ASC
`

	var summaries []Summary
	err := r.db.WithContext(ctx).
		Raw(query, schoolID, month, year, schoolID, month, year).
		Scan(&summaries).Error
	return summaries, err
}
