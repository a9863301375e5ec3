package paycalc

// Earnings are the gross-side components. They always sum exactly to
// the gross salary: the special allowance absorbs whatever the fixed
// percentages and rounding leave over.
type Earnings struct {
	Basic            int64
	DA               int64
	HRA              int64
	SpecialAllowance int64
}

// Deductions are withheld from the employee's gross. TDS is a
// placeholder for a future income-tax computation and is always 0 here.
type Deductions struct {
	EPFEmployee     int64
	ProfessionalTax int64
	TDS             int64
}

// EmployerCost is the employer-side liability. It is informational and
// never deducted from the employee.
type EmployerCost struct {
	EPFEmployer       int64
	GratuityProvision int64
}

type Breakdown struct {
	Earnings     Earnings
	GrossSalary  int64
	Deductions   Deductions
	EmployerCost EmployerCost
	NetSalary    int64
}

// Compute produces the statutory breakdown for one monthly gross, in
// currency minor units. Zero gross yields a zero breakdown without
// error; negative gross is ErrNegativeGross. NetSalary is gross minus
// employee deductions and is deliberately not clamped: a tiny gross can
// go negative net, and that is a reportable condition, not one to hide.
func Compute(gross int64, pol Policy) (Breakdown, error) {
	if gross < 0 {
		return Breakdown{}, ErrNegativeGross
	}
	if gross == 0 {
		return Breakdown{}, nil
	}

	basic := roundHalfUp(gross*pol.BasicOfGrossBps, 10000)
	da := roundHalfUp(basic*pol.DAOfBasicBps, 10000)
	hra := roundHalfUp(basic*pol.HRAOfBasicBps, 10000)

	// Special allowance absorbs the rounding residue so earnings sum to
	// gross exactly.
	special := gross - basic - da - hra
	if special < 0 {
		special = 0
	}

	pfBasis := basic + da
	if pol.LimitProvidentFund && pfBasis > pol.PFWageCeiling {
		pfBasis = pol.PFWageCeiling
	}

	epfEmployee := roundHalfUp(pfBasis*pol.EPFRateBps, 10000)
	epfEmployer := roundHalfUp(pfBasis*pol.EPFRateBps, 10000)

	// Monthly accrual of the eventual gratuity payout:
	// (basic + DA) / 26 working days * 15 days, spread over 12 months.
	gratuity := roundHalfUp((basic+da)*15, 26*12)

	deductions := Deductions{
		EPFEmployee:     epfEmployee,
		ProfessionalTax: pol.ProfessionalTax,
		TDS:             0,
	}

	net := gross - deductions.EPFEmployee - deductions.ProfessionalTax - deductions.TDS

	return Breakdown{
		Earnings: Earnings{
			Basic:            basic,
			DA:               da,
			HRA:              hra,
			SpecialAllowance: special,
		},
		GrossSalary: gross,
		Deductions:  deductions,
		EmployerCost: EmployerCost{
			EPFEmployer:       epfEmployer,
			GratuityProvision: gratuity,
		},
		NetSalary: net,
	}, nil
}

// roundHalfUp divides n by d rounding half away from zero. Inputs here
// are always non-negative.
func roundHalfUp(n, d int64) int64 {
	return (n + d/2) / d
}
