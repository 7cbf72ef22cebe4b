package workload

import (
	"math"
	"strconv"
	"strings"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
)

// Defaults applied by Resolve when an answer is left blank.
const (
	DefaultProductivityRate = 10.0
	DefaultProductivityGood = 0.10
	DefaultProductivityBad  = 0.15
	DefaultAbsenteeism      = 0.05
	DefaultDeadlineDays     = WorkingDaysPerMonth
	DefaultAcceptableRisk   = 10.0
)

// Answers are the raw wizard answers for one sub-function. Range answers use
// codes such as "500_1000", "1000_plus" or "under_50".
type Answers struct {
	WorkType             string           `json:"work_type" yaml:"work_type" jsonschema:"work type id from the catalog"`
	Volume               string           `json:"volume,omitempty" yaml:"volume,omitempty" jsonschema:"units per working day as a range code"`
	ProductivityRate     string           `json:"productivity_rate,omitempty" yaml:"productivity_rate,omitempty" jsonschema:"units per hour as a range code"`
	ProductivityGood     *float64         `json:"productivity_good,omitempty" yaml:"productivity_good,omitempty"`
	ProductivityBad      *float64         `json:"productivity_bad,omitempty" yaml:"productivity_bad,omitempty"`
	EmployeesSupported   int              `json:"employees_supported,omitempty" yaml:"employees_supported,omitempty"`
	TransactionsPerMonth int              `json:"transactions_per_month,omitempty" yaml:"transactions_per_month,omitempty"`
	Sites                int              `json:"sites,omitempty" yaml:"sites,omitempty"`
	Timezones            int              `json:"timezones,omitempty" yaml:"timezones,omitempty"`
	Complexity           string           `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	ServiceLevel         string           `json:"service_level,omitempty" yaml:"service_level,omitempty"`
	AutomationLevel      string           `json:"automation_level,omitempty" yaml:"automation_level,omitempty"`
	AbsenteeismRate      *float64         `json:"absenteeism_rate,omitempty" yaml:"absenteeism_rate,omitempty"`
	RampUpWeeks          float64          `json:"ramp_up_weeks,omitempty" yaml:"ramp_up_weeks,omitempty"`
	TeamStability        string           `json:"team_stability,omitempty" yaml:"team_stability,omitempty"`
	OvertimeFrequency    string           `json:"overtime_frequency,omitempty" yaml:"overtime_frequency,omitempty"`
	TargetDeadlineDays   *float64         `json:"target_deadline_days,omitempty" yaml:"target_deadline_days,omitempty" jsonschema:"0 disables the deadline"`
	AcceptableRisk       *float64         `json:"acceptable_risk,omitempty" yaml:"acceptable_risk,omitempty" jsonschema:"largest tolerated failure risk in percent"`
	Priority             string           `json:"priority,omitempty" yaml:"priority,omitempty"`
	Budget               float64          `json:"budget,omitempty" yaml:"budget,omitempty" jsonschema:"monthly budget, 0 for none"`
	RoleKey              string           `json:"role_key,omitempty" yaml:"role_key,omitempty"`
	EmploymentType       string           `json:"employment_type,omitempty" yaml:"employment_type,omitempty"`
	Mix                  *catalog.WorkMix `json:"mix,omitempty" yaml:"mix,omitempty"`
}

// Resolve maps the answers onto a validated Inputs snapshot, filling every
// blank answer with its default and the work type's catalog entry.
func (a Answers) Resolve(c *catalog.Catalog) (Inputs, catalog.WorkTypeCoefficients, error) {
	coeff, err := c.Lookup(strings.TrimSpace(a.WorkType))
	if err != nil {
		return Inputs{}, catalog.WorkTypeCoefficients{}, err
	}

	in := Inputs{
		WorkTypeID:           coeff.ID,
		ProductivityGood:     orDefault(a.ProductivityGood, DefaultProductivityGood),
		ProductivityBad:      orDefault(a.ProductivityBad, DefaultProductivityBad),
		EmployeesSupported:   a.EmployeesSupported,
		TransactionsPerMonth: a.TransactionsPerMonth,
		Sites:                a.Sites,
		Timezones:            a.Timezones,
		Complexity:           Complexity(tier(a.Complexity, string(Normal))),
		ServiceLevel:         ServiceLevel(tier(a.ServiceLevel, string(BusinessHours))),
		AutomationLevel:      AutomationLevel(tier(a.AutomationLevel, string(NoAutomation))),
		AbsenteeismRate:      orDefault(a.AbsenteeismRate, DefaultAbsenteeism),
		RampUpWeeks:          a.RampUpWeeks,
		TeamStability:        TeamStability(tier(a.TeamStability, string(Stable))),
		OvertimeFrequency:    OvertimeFrequency(tier(a.OvertimeFrequency, string(Never))),
		TargetDeadlineDays:   orDefault(a.TargetDeadlineDays, DefaultDeadlineDays),
		AcceptableRisk:       orDefault(a.AcceptableRisk, DefaultAcceptableRisk),
		Priority:             Priority(tier(a.Priority, string(PriorityBalanced))),
		Budget:               a.Budget,
		RoleKey:              coeff.RoleKey,
		EmploymentType:       catalog.EmploymentType(tier(a.EmploymentType, string(catalog.Permanent))),
		Mix:                  coeff.Mix,
	}
	if in.Timezones == 0 {
		in.Timezones = 1
	}
	if a.RoleKey != "" {
		in.RoleKey = a.RoleKey
	}
	if a.Mix != nil {
		in.Mix = *a.Mix
	}

	if a.Volume != "" {
		if in.Volume, err = ParseRangeCode(a.Volume); err != nil {
			return Inputs{}, coeff, apperr.ConfigurationWrap(err, "volume", "%v", err)
		}
	}

	in.ProductivityRate = DefaultProductivityRate
	if a.ProductivityRate != "" {
		rate, err := ParseRangeCode(a.ProductivityRate)
		if err != nil {
			return Inputs{}, coeff, apperr.ConfigurationWrap(err, "productivity_rate", "%v", err)
		}
		in.ProductivityRate = rate.Typical
	}

	if err := in.Validate(); err != nil {
		return Inputs{}, coeff, err
	}
	return in, coeff, nil
}

// ParseRangeCode decodes a range answer code:
//
//	"a_b"      -> {a, (a+b)/2, b}
//	"a_plus"   -> {a, 1.25a, 1.5a}
//	"under_a"  -> {0, a/2, a}   ("lt_a" is accepted too)
//	"n"        -> {n, n, n}
func ParseRangeCode(code string) (Range3, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Range3{}, apperr.Configuration("range_code", "empty range code")
	}

	parts := strings.Split(code, "_")
	switch {
	case len(parts) == 1:
		n, err := parseAmount(parts[0], code)
		if err != nil {
			return Range3{}, err
		}
		return Range3{Min: n, Typical: n, Max: n}, nil

	case len(parts) == 2 && (parts[0] == "under" || parts[0] == "lt"):
		a, err := parseAmount(parts[1], code)
		if err != nil {
			return Range3{}, err
		}
		return Range3{Min: 0, Typical: a / 2, Max: a}, nil

	case len(parts) == 2 && parts[1] == "plus":
		a, err := parseAmount(parts[0], code)
		if err != nil {
			return Range3{}, err
		}
		return Range3{Min: a, Typical: a * 1.25, Max: a * 1.5}, nil

	case len(parts) == 2:
		a, err := parseAmount(parts[0], code)
		if err != nil {
			return Range3{}, err
		}
		b, err := parseAmount(parts[1], code)
		if err != nil {
			return Range3{}, err
		}
		if a > b {
			return Range3{}, apperr.Configuration("range_code", "%q has min greater than max", code)
		}
		return Range3{Min: a, Typical: (a + b) / 2, Max: b}, nil
	}

	return Range3{}, apperr.Configuration("range_code", "cannot parse %q", code)
}

func parseAmount(s, code string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Configuration("range_code", "cannot parse %q", code)
	}
	return v, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func tier(answer, def string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return def
	}
	return answer
}
