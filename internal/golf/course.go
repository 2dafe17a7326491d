// Package golf holds the structured scorecard record shared by the parser,
// validator, scorer and reconciliation engine.
package golf

const Holes = 18

// CourseData is the structured record parsed from one scorecard. Optional
// numeric fields are nil when the card did not show them; empty strings and
// slices mean absent.
type CourseData struct {
	CourseName      string                 `json:"course_name,omitempty"`
	Location        string                 `json:"location,omitempty"`
	TeeName         string                 `json:"tee_name,omitempty"`
	CourseRating    *float64               `json:"course_rating,omitempty"`
	SlopeRating     *int                   `json:"slope_rating,omitempty"`
	ParValues       []int                  `json:"par_values,omitempty"`
	HandicapValues  []int                  `json:"handicap_values,omitempty"`
	TotalPar        *int                   `json:"total_par,omitempty"`
	TotalYardage    *int                   `json:"total_yardage,omitempty"`
	Date            string                 `json:"date,omitempty"`
	Players         []string               `json:"players,omitempty"`
	PlayerScores    map[string]PlayerScore `json:"player_scores,omitempty"`
	TeeBoxes        []TeeBox               `json:"tee_boxes,omitempty"`
	FieldConfidence map[string]float64     `json:"field_confidence,omitempty"`
}

// PlayerScore is one player's row. A hole score of 0 is a blank cell.
type PlayerScore struct {
	HoleScores []int `json:"hole_scores,omitempty"`
	Total      *int  `json:"total,omitempty"`
	FrontNine  *int  `json:"front_nine,omitempty"`
	BackNine   *int  `json:"back_nine,omitempty"`
}

type TeeBox struct {
	Name         string   `json:"name"`
	CourseRating *float64 `json:"course_rating,omitempty"`
	SlopeRating  *int     `json:"slope_rating,omitempty"`
	TotalYardage *int     `json:"total_yardage,omitempty"`
	Yardages     []int    `json:"yardages,omitempty"`
}

// IsEmpty reports whether nothing at all was extracted.
func (d *CourseData) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.CourseName == "" && d.TeeName == "" && d.Location == "" &&
		d.CourseRating == nil && d.SlopeRating == nil &&
		len(d.ParValues) == 0 && len(d.HandicapValues) == 0 &&
		d.TotalPar == nil && d.TotalYardage == nil && d.Date == "" &&
		len(d.Players) == 0 && len(d.PlayerScores) == 0 && len(d.TeeBoxes) == 0
}

// Merge fills every absent field of base from fallback and returns a new
// record. Present fields of base always win.
func Merge(base, fallback *CourseData) *CourseData {
	if base == nil && fallback == nil {
		return nil
	}
	if base == nil {
		out := *fallback
		return &out
	}
	out := *base
	if fallback == nil {
		return &out
	}

	if out.CourseName == "" {
		out.CourseName = fallback.CourseName
	}
	if out.Location == "" {
		out.Location = fallback.Location
	}
	if out.TeeName == "" {
		out.TeeName = fallback.TeeName
	}
	if out.CourseRating == nil {
		out.CourseRating = fallback.CourseRating
	}
	if out.SlopeRating == nil {
		out.SlopeRating = fallback.SlopeRating
	}
	if len(out.ParValues) == 0 {
		out.ParValues = fallback.ParValues
	}
	if len(out.HandicapValues) == 0 {
		out.HandicapValues = fallback.HandicapValues
	}
	if out.TotalPar == nil {
		out.TotalPar = fallback.TotalPar
	}
	if out.TotalYardage == nil {
		out.TotalYardage = fallback.TotalYardage
	}
	if out.Date == "" {
		out.Date = fallback.Date
	}
	if len(out.Players) == 0 {
		out.Players = fallback.Players
	}
	if len(out.PlayerScores) == 0 {
		out.PlayerScores = fallback.PlayerScores
	}
	if len(out.TeeBoxes) == 0 {
		out.TeeBoxes = fallback.TeeBoxes
	}
	if len(fallback.FieldConfidence) > 0 {
		merged := make(map[string]float64, len(out.FieldConfidence)+len(fallback.FieldConfidence))
		for k, v := range fallback.FieldConfidence {
			merged[k] = v
		}
		for k, v := range out.FieldConfidence {
			merged[k] = v
		}
		out.FieldConfidence = merged
	}
	return &out
}

// TotalScore is the explicit total, or the sum of the hole scores.
func (p PlayerScore) TotalScore() int {
	if p.Total != nil {
		return *p.Total
	}
	return sumHoles(p.HoleScores, 0, Holes)
}

// FrontNineScore is the explicit front-nine total, or holes 1-9 summed.
func (p PlayerScore) FrontNineScore() int {
	if p.FrontNine != nil {
		return *p.FrontNine
	}
	return sumHoles(p.HoleScores, 0, 9)
}

// BackNineScore is the explicit back-nine total, or holes 10-18 summed.
func (p PlayerScore) BackNineScore() int {
	if p.BackNine != nil {
		return *p.BackNine
	}
	return sumHoles(p.HoleScores, 9, Holes)
}

// HoleScore returns the score for a 1-based hole, false when blank.
func (p PlayerScore) HoleScore(hole int) (int, bool) {
	if hole < 1 || hole > len(p.HoleScores) {
		return 0, false
	}
	s := p.HoleScores[hole-1]
	return s, s > 0
}

func sumHoles(scores []int, from, to int) int {
	total := 0
	for i := from; i < to && i < len(scores); i++ {
		if scores[i] > 0 {
			total += scores[i]
		}
	}
	return total
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
