package confidence

import (
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

// Neutral is used when a payload carries no confidence signal at all.
const Neutral = 0.5

type source func(golf.Payload) (float64, bool)

// overallSources are tried in order; the first present value wins.
var overallSources = []source{
	func(p golf.Payload) (float64, bool) { return p.Number("confidence") },
	func(p golf.Payload) (float64, bool) { return p.Number("structured_data", "overall_confidence") },
	func(p golf.Payload) (float64, bool) { return p.Number("golf_course_properties", "confidence_score") },
	meanWordConfidence,
}

// Overall derives the overall confidence of a raw OCR payload, in [0,1].
func Overall(p golf.Payload) float64 {
	for _, src := range overallSources {
		if v, ok := src(p); ok {
			return rescale(v)
		}
	}
	return Neutral
}

func meanWordConfidence(p golf.Payload) (float64, bool) {
	v, ok := p.Lookup("words")
	if !ok {
		return 0, false
	}
	words, ok := golf.AsArray(v)
	if !ok {
		return 0, false
	}
	var sum float64
	n := 0
	for _, w := range words {
		obj, ok := golf.AsObject(w)
		if !ok {
			continue
		}
		if c, ok := golf.AsNumber(obj["confidence"]); ok {
			sum += rescale(c)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func rescale(v float64) float64 {
	if v > 1 {
		v /= 100
	}
	return clamp(v)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var golfTokens = []string{"golf", "country club", "club", "links", "course", "cc", "national", "resort", "g.c.", "gc"}

var teeVocabulary = []string{"championship", "blue", "white", "red", "gold", "black", "tips", "back", "front", "ladies"}

// FieldConfidence returns a confidence per recognised field. Values the
// provider reported win; the rest come from heuristics.
func FieldConfidence(d *golf.CourseData) map[string]float64 {
	out := make(map[string]float64)
	if d == nil {
		return out
	}

	out["course_name"] = courseNameConfidence(d.CourseName)
	out["tee_name"] = teeNameConfidence(d.TeeName)
	if d.CourseRating != nil {
		out["course_rating"] = rangeConfidence(*d.CourseRating, 67.0, 77.0)
	}
	if d.SlopeRating != nil {
		out["slope_rating"] = rangeConfidence(float64(*d.SlopeRating), 55, 155)
	}
	if len(d.ParValues) > 0 {
		out["par_values"] = parConfidence(d.ParValues)
	}
	if len(d.HandicapValues) > 0 {
		out["handicap_values"] = handicapConfidence(d.HandicapValues)
	}

	for k, v := range d.FieldConfidence {
		out[k] = rescale(v)
	}
	return out
}

func courseNameConfidence(name string) float64 {
	if name == "" {
		return 0
	}
	c := 0.6
	if containsToken(strings.ToLower(name), golfTokens) {
		c += 0.3
	}
	return clamp(c)
}

func teeNameConfidence(tee string) float64 {
	if tee == "" {
		return 0
	}
	if containsToken(strings.ToLower(tee), teeVocabulary) {
		return 0.9
	}
	return 0.6
}

func rangeConfidence(v, lo, hi float64) float64 {
	if v >= lo && v <= hi {
		return 0.9
	}
	return 0.4
}

func parConfidence(pars []int) float64 {
	if len(pars) != golf.Holes {
		return 0.3
	}
	for _, p := range pars {
		if p < 3 || p > 6 {
			return 0.6
		}
	}
	return 0.9
}

func handicapConfidence(hcps []int) float64 {
	if len(hcps) != golf.Holes {
		return 0.3
	}
	seen := make(map[int]bool, len(hcps))
	for _, h := range hcps {
		if h < 1 || h > golf.Holes || seen[h] {
			return 0.4
		}
		seen[h] = true
	}
	return 0.9
}

// containsToken matches whole words, so "cc" does not match "accent".
func containsToken(s string, tokens []string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == '/'
	})
	joined := " " + strings.Join(words, " ") + " "
	for _, t := range tokens {
		if strings.Contains(joined, " "+t+" ") {
			return true
		}
	}
	return false
}
