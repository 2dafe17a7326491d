// Package validation checks parsed scorecards against USGA-style ranges.
package validation

import (
	"fmt"
	"sort"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

const MsgCourseNameRequired = "Course name is required"

type Severity int

const (
	Warning Severity = iota
	Error
)

// Policy selects the severity of the hole-level rules. Standard reports them
// as warnings; Strict, used for enhanced-schema data, blocks on them.
type Policy int

const (
	Standard Policy = iota
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "standard"
}

type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Valid      bool    `json:"valid"`
	CanProceed bool    `json:"can_proceed"`
	Errors     []Issue `json:"errors"`
	Warnings   []Issue `json:"warnings"`
}

// ErrorMessages returns the error messages in rule order.
func (r Result) ErrorMessages() []string {
	return messages(r.Errors)
}

func (r Result) WarningMessages() []string {
	return messages(r.Warnings)
}

func messages(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}

type rule struct {
	field    string
	standard Severity
	strict   Severity
	check    func(*golf.CourseData) []string
}

var rules = []rule{
	{"course_name", Error, Error, checkCourseName},
	{"course_rating", Warning, Warning, checkCourseRating},
	{"slope_rating", Warning, Warning, checkSlopeRating},
	{"par_values", Warning, Error, checkParLength},
	{"par_values", Warning, Error, checkParRange},
	{"handicap_values", Warning, Error, checkHandicaps},
	{"total_par", Warning, Warning, checkTotalPar},
	{"player_scores", Warning, Error, checkHoleScores},
}

type Validator struct {
	policy Policy
}

func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate runs every rule independently and never stops at the first
// violation.
func (v *Validator) Validate(d *golf.CourseData) Result {
	if d == nil {
		d = &golf.CourseData{}
	}
	res := Result{Errors: []Issue{}, Warnings: []Issue{}}
	for _, r := range rules {
		sev := r.standard
		if v.policy == Strict {
			sev = r.strict
		}
		for _, msg := range r.check(d) {
			is := Issue{Field: r.field, Message: msg}
			if sev == Error {
				res.Errors = append(res.Errors, is)
			} else {
				res.Warnings = append(res.Warnings, is)
			}
		}
	}
	res.Valid = len(res.Errors) == 0
	res.CanProceed = res.Valid
	return res
}

func checkCourseName(d *golf.CourseData) []string {
	if d.CourseName == "" {
		return []string{MsgCourseNameRequired}
	}
	return nil
}

func checkCourseRating(d *golf.CourseData) []string {
	if d.CourseRating == nil {
		return nil
	}
	if r := *d.CourseRating; r < 67.0 || r > 77.0 {
		return []string{fmt.Sprintf("Course rating %.1f outside expected range 67.0-77.0", r)}
	}
	return nil
}

func checkSlopeRating(d *golf.CourseData) []string {
	if d.SlopeRating == nil {
		return nil
	}
	if s := *d.SlopeRating; s < 55 || s > 155 {
		return []string{fmt.Sprintf("Slope rating %d outside expected range 55-155", s)}
	}
	return nil
}

func checkParLength(d *golf.CourseData) []string {
	if len(d.ParValues) == 0 || len(d.ParValues) == golf.Holes {
		return nil
	}
	return []string{fmt.Sprintf("Par values should cover %d holes, got %d", golf.Holes, len(d.ParValues))}
}

func checkParRange(d *golf.CourseData) []string {
	for _, p := range d.ParValues {
		if p < 3 || p > 6 {
			return []string{"Par values must be between 3 and 6"}
		}
	}
	return nil
}

func checkHandicaps(d *golf.CourseData) []string {
	if len(d.HandicapValues) == 0 {
		return nil
	}
	bad := []string{fmt.Sprintf("Handicap values must be %d unique values between 1 and %d", golf.Holes, golf.Holes)}
	if len(d.HandicapValues) != golf.Holes {
		return bad
	}
	seen := make(map[int]bool, golf.Holes)
	for _, h := range d.HandicapValues {
		if h < 1 || h > golf.Holes || seen[h] {
			return bad
		}
		seen[h] = true
	}
	return nil
}

func checkTotalPar(d *golf.CourseData) []string {
	if d.TotalPar == nil {
		return nil
	}
	if t := *d.TotalPar; t < 54 || t > 108 {
		return []string{fmt.Sprintf("Total par %d outside expected range 54-108", t)}
	}
	return nil
}

// checkHoleScores reports one issue per player with an out-of-range score.
// Blank cells are not scores.
func checkHoleScores(d *golf.CourseData) []string {
	var out []string
	for _, name := range playerOrder(d) {
		for i, s := range d.PlayerScores[name].HoleScores {
			if s != 0 && (s < 1 || s > 15) {
				out = append(out, fmt.Sprintf("Hole %d score %d for %s outside expected range 1-15", i+1, s, name))
				break
			}
		}
	}
	return out
}

// playerOrder lists scored players in card order, then any others sorted.
func playerOrder(d *golf.CourseData) []string {
	seen := make(map[string]bool, len(d.PlayerScores))
	var order []string
	for _, n := range d.Players {
		if _, ok := d.PlayerScores[n]; ok && !seen[n] {
			seen[n] = true
			order = append(order, n)
		}
	}
	var rest []string
	for n := range d.PlayerScores {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
