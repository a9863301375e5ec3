// Package paycalc converts a configured monthly gross salary into the
// statutory component breakdown. It is pure computation: no I/O, no
// clock, no persistence, which keeps the payroll math trivially testable.
package paycalc

import "errors"

// ErrNegativeGross rejects structures configured with a negative gross.
var ErrNegativeGross = errors.New("monthly gross cannot be negative")

// Policy is one versioned statutory ruleset. Rates are basis points so
// the whole policy stays in integer math; amounts are currency minor
// units. A new statutory year gets a new Policy value, not new code.
type Policy struct {
	Version string

	BasicOfGrossBps int64 // basic as a share of gross
	DAOfBasicBps    int64 // dearness allowance as a share of basic
	HRAOfBasicBps   int64 // house rent allowance as a share of basic

	EPFRateBps    int64 // employee and employer side, share of the PF basis
	PFWageCeiling int64 // statutory cap on the PF basis, minor units

	ProfessionalTax int64 // flat monthly amount, minor units

	// LimitProvidentFund caps the PF basis at PFWageCeiling. Comes from
	// the employee's salary structure, not from the statutory year.
	LimitProvidentFund bool
}

// statutory2026 is the ruleset in force today: 50% basic, DA 10% and
// HRA 20% of basic, 12% EPF both sides with a 15,000.00 wage ceiling,
// and a flat 200.00 professional tax.
var statutory2026 = Policy{
	Version:         "2026",
	BasicOfGrossBps: 5000,
	DAOfBasicBps:    1000,
	HRAOfBasicBps:   2000,
	EPFRateBps:      1200,
	PFWageCeiling:   15000_00,
	ProfessionalTax: 200_00,
}

// PolicyForYear resolves the statutory ruleset effective for a payroll
// year. Years before the first tagged ruleset fall back to the earliest
// one; later years ride the latest until a new ruleset is tagged.
func PolicyForYear(year int) Policy {
	_ = year
	return statutory2026
}
