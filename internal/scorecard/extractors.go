package scorecard

import (
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

// extractor reads one field from one payload shape. Chains of extractors are
// evaluated in order and the first present value wins.
type extractor[T any] func(golf.Payload) (T, bool)

func first[T any](p golf.Payload, chain []extractor[T]) (T, bool) {
	for _, ex := range chain {
		if v, ok := ex(p); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func str(keys ...string) extractor[string] {
	return func(p golf.Payload) (string, bool) {
		v, ok := p.Lookup(keys...)
		if !ok {
			return "", false
		}
		return golf.AsString(v)
	}
}

func num(keys ...string) extractor[float64] {
	return func(p golf.Payload) (float64, bool) {
		v, ok := p.Number(keys...)
		return v, ok && v != 0
	}
}

func integer(keys ...string) extractor[int] {
	return func(p golf.Payload) (int, bool) {
		v, ok := p.Lookup(keys...)
		if !ok {
			return 0, false
		}
		n, ok := golf.AsInt(v)
		return n, ok && n != 0
	}
}

func ints(keys ...string) extractor[[]int] {
	return func(p golf.Payload) ([]int, bool) {
		v, ok := p.Lookup(keys...)
		if !ok {
			return nil, false
		}
		return golf.AsIntSlice(v)
	}
}

// fromTee reads a field from the tee box that matches the course tee name,
// or the first tee box when none matches.
func fromTee[T any](read func(golf.Payload) (T, bool)) extractor[T] {
	return func(p golf.Payload) (T, bool) {
		tee, ok := selectedTee(p)
		if !ok {
			var zero T
			return zero, false
		}
		return read(tee)
	}
}

func selectedTee(p golf.Payload) (golf.Payload, bool) {
	v, ok := p.Lookup("tee_boxes")
	if !ok {
		return nil, false
	}
	tees, ok := golf.AsArray(v)
	if !ok {
		return nil, false
	}
	want, _ := first(p, []extractor[string]{
		str("course_information", "tee_name"),
		str("course_information", "tee"),
		str("tee_name"),
	})
	var fallback golf.Payload
	for _, t := range tees {
		obj, ok := golf.AsObject(t)
		if !ok {
			continue
		}
		if fallback == nil {
			fallback = obj
		}
		name, _ := first(golf.Payload(obj), teeBoxNameChain)
		if want != "" && strings.EqualFold(name, want) {
			return obj, true
		}
	}
	return fallback, fallback != nil
}

var teeBoxNameChain = []extractor[string]{str("name"), str("tee_name"), str("color")}

// Enhanced schema: course_information, tee_boxes[], player_scores[].
var (
	enhancedCourseName = []extractor[string]{
		str("course_information", "course_name"),
		str("course_information", "name"),
		str("course_name"),
	}
	enhancedLocation = []extractor[string]{
		str("course_information", "location"),
		str("course_information", "address"),
		str("location"),
	}
	enhancedTeeName = []extractor[string]{
		str("course_information", "tee_name"),
		str("course_information", "tee"),
		str("tee_name"),
		fromTee(func(t golf.Payload) (string, bool) { return first(t, teeBoxNameChain) }),
	}
	enhancedCourseRating = []extractor[float64]{
		fromTee(func(t golf.Payload) (float64, bool) { return first(t, []extractor[float64]{num("course_rating"), num("rating")}) }),
		num("course_information", "course_rating"),
		num("course_rating"),
	}
	enhancedSlopeRating = []extractor[int]{
		fromTee(func(t golf.Payload) (int, bool) { return first(t, []extractor[int]{integer("slope_rating"), integer("slope")}) }),
		integer("course_information", "slope_rating"),
		integer("slope_rating"),
	}
	enhancedParValues = []extractor[[]int]{
		ints("course_information", "par_values"),
		ints("course_information", "par"),
		ints("hole_information", "par"),
		ints("par_values"),
	}
	enhancedHandicapValues = []extractor[[]int]{
		ints("course_information", "handicap_values"),
		ints("course_information", "handicap"),
		ints("hole_information", "handicap"),
		ints("handicap_values"),
	}
	enhancedTotalPar = []extractor[int]{
		integer("course_information", "total_par"),
		integer("total_par"),
	}
	enhancedTotalYardage = []extractor[int]{
		fromTee(func(t golf.Payload) (int, bool) { return first(t, []extractor[int]{integer("total_yardage"), integer("yardage")}) }),
		integer("course_information", "total_yardage"),
		integer("total_yardage"),
	}
	enhancedDate = []extractor[string]{
		str("course_information", "date"),
		str("date"),
	}
)

// Flat schema: golf_course_properties.
var (
	flatCourseName     = []extractor[string]{str("course_name"), str("name"), str("golf_course")}
	flatLocation       = []extractor[string]{str("location"), str("address")}
	flatTeeName        = []extractor[string]{str("tee_name"), str("tee"), str("tee_color")}
	flatCourseRating   = []extractor[float64]{num("course_rating"), num("rating")}
	flatSlopeRating    = []extractor[int]{integer("slope_rating"), integer("slope")}
	flatParValues      = []extractor[[]int]{ints("par_values"), ints("par")}
	flatHandicapValues = []extractor[[]int]{ints("handicap_values"), ints("handicap"), ints("handicaps")}
	flatTotalPar       = []extractor[int]{integer("total_par")}
	flatTotalYardage   = []extractor[int]{integer("total_yardage"), integer("yardage")}
	flatDate           = []extractor[string]{str("date"), str("played_at")}
)

// Player row fields, shared by both schemas.
var (
	playerNameChain  = []extractor[string]{str("player_name"), str("name"), str("player")}
	holeScoresChain  = []extractor[[]int]{ints("hole_scores"), ints("scores")}
	frontNineChain   = []extractor[int]{integer("front_nine"), integer("front_nine_total"), integer("out")}
	backNineChain    = []extractor[int]{integer("back_nine"), integer("back_nine_total"), integer("in")}
	playerTotalChain = []extractor[int]{integer("total"), integer("total_score")}
)
