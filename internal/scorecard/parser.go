// Package scorecard turns raw OCR payloads into golf.CourseData.
package scorecard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/confidence"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

var ErrNoResult = errors.New("no OCR result")

// Sources holds the candidate records read from the two payload shapes. A
// nil field means the shape was absent or yielded nothing.
type Sources struct {
	Enhanced *golf.CourseData
	Flat     *golf.CourseData
}

func (s Sources) IsEmpty() bool {
	return s.Enhanced.IsEmpty() && s.Flat.IsEmpty()
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the best structured record from an OCR result.
func (p *Parser) Parse(res *ocr.Result) (*golf.CourseData, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	doc, err := golf.PayloadFrom(res)
	if err != nil {
		return nil, fmt.Errorf("decoding OCR result: %w", err)
	}
	best := SelectBest(ParseSources(doc))
	if best == nil {
		return &golf.CourseData{}, nil
	}
	return best, nil
}

// ParseSources reads both payload shapes. When neither names the course, a
// course name is taken from the raw text and reported on the flat source.
func ParseSources(doc golf.Payload) Sources {
	var s Sources
	if root, ok := enhancedRoot(doc); ok {
		s.Enhanced = nonEmpty(parseEnhanced(root))
	}
	if props, ok := doc.Object("golf_course_properties"); ok {
		s.Flat = nonEmpty(parseFlat(golf.Payload(props)))
	}

	named := (s.Enhanced != nil && s.Enhanced.CourseName != "") ||
		(s.Flat != nil && s.Flat.CourseName != "")
	if raw, ok := doc.Lookup("raw_text"); ok {
		text := parseText(fmt.Sprint(raw))
		if named {
			text.CourseName = ""
		}
		if s.Flat != nil || !text.IsEmpty() {
			s.Flat = nonEmpty(golf.Merge(s.Flat, text))
		}
	}
	return s
}

// SelectBest picks the more complete source as the base and fills its gaps
// from the other. Ties favour the enhanced source.
func SelectBest(s Sources) *golf.CourseData {
	switch {
	case s.Enhanced == nil && s.Flat == nil:
		return nil
	case s.Flat == nil:
		return golf.Merge(s.Enhanced, nil)
	case s.Enhanced == nil:
		return golf.Merge(s.Flat, nil)
	}
	ec, fc := confidence.Completeness(s.Enhanced), confidence.Completeness(s.Flat)
	logger.DebugLog("[scorecard] completeness enhanced=%d flat=%d", ec, fc)
	if fc > ec {
		return golf.Merge(s.Flat, s.Enhanced)
	}
	return golf.Merge(s.Enhanced, s.Flat)
}

func nonEmpty(d *golf.CourseData) *golf.CourseData {
	if d.IsEmpty() {
		return nil
	}
	return d
}

// enhancedRoot finds the enhanced-schema object: structured_data when
// present, otherwise the document itself if it carries enhanced keys.
func enhancedRoot(doc golf.Payload) (golf.Payload, bool) {
	if sd, ok := doc.Object("structured_data"); ok {
		return golf.Payload(sd), true
	}
	for _, key := range []string{"course_information", "tee_boxes", "player_scores"} {
		if _, ok := doc.Lookup(key); ok {
			return doc, true
		}
	}
	return nil, false
}

func parseEnhanced(root golf.Payload) *golf.CourseData {
	d := &golf.CourseData{}
	d.CourseName, _ = first(root, enhancedCourseName)
	d.Location, _ = first(root, enhancedLocation)
	d.TeeName, _ = first(root, enhancedTeeName)
	if v, ok := first(root, enhancedCourseRating); ok {
		d.CourseRating = golf.Float(v)
	}
	if v, ok := first(root, enhancedSlopeRating); ok {
		d.SlopeRating = golf.Int(v)
	}
	d.ParValues, _ = first(root, enhancedParValues)
	d.HandicapValues, _ = first(root, enhancedHandicapValues)
	if v, ok := first(root, enhancedTotalPar); ok {
		d.TotalPar = golf.Int(v)
	}
	if v, ok := first(root, enhancedTotalYardage); ok {
		d.TotalYardage = golf.Int(v)
	}
	d.Date, _ = first(root, enhancedDate)
	d.TeeBoxes = parseTeeBoxes(root)
	if v, ok := root.Lookup("player_scores"); ok {
		d.Players, d.PlayerScores = parsePlayers(v)
	}
	d.FieldConfidence = parseFieldConfidence(root)
	return d
}

func parseFlat(props golf.Payload) *golf.CourseData {
	d := &golf.CourseData{}
	d.CourseName, _ = first(props, flatCourseName)
	d.Location, _ = first(props, flatLocation)
	d.TeeName, _ = first(props, flatTeeName)
	if v, ok := first(props, flatCourseRating); ok {
		d.CourseRating = golf.Float(v)
	}
	if v, ok := first(props, flatSlopeRating); ok {
		d.SlopeRating = golf.Int(v)
	}
	d.ParValues, _ = first(props, flatParValues)
	d.HandicapValues, _ = first(props, flatHandicapValues)
	if v, ok := first(props, flatTotalPar); ok {
		d.TotalPar = golf.Int(v)
	}
	if v, ok := first(props, flatTotalYardage); ok {
		d.TotalYardage = golf.Int(v)
	}
	d.Date, _ = first(props, flatDate)
	if v, ok := props.Lookup("player_scores"); ok {
		d.Players, d.PlayerScores = parsePlayers(v)
	}
	if v, ok := props.Lookup("players"); ok {
		if names := parsePlayerNames(v); len(names) > 0 {
			d.Players = mergeNames(names, d.Players)
		}
	}
	d.FieldConfidence = parseFieldConfidence(props)
	return d
}

func parseTeeBoxes(root golf.Payload) []golf.TeeBox {
	v, ok := root.Lookup("tee_boxes")
	if !ok {
		return nil
	}
	arr, ok := golf.AsArray(v)
	if !ok {
		return nil
	}
	var tees []golf.TeeBox
	for _, item := range arr {
		obj, ok := golf.AsObject(item)
		if !ok {
			continue
		}
		p := golf.Payload(obj)
		name, ok := first(p, teeBoxNameChain)
		if !ok {
			continue
		}
		tee := golf.TeeBox{Name: name}
		if v, ok := first(p, []extractor[float64]{num("course_rating"), num("rating")}); ok {
			tee.CourseRating = golf.Float(v)
		}
		if v, ok := first(p, []extractor[int]{integer("slope_rating"), integer("slope")}); ok {
			tee.SlopeRating = golf.Int(v)
		}
		if v, ok := first(p, []extractor[int]{integer("total_yardage"), integer("yardage")}); ok {
			tee.TotalYardage = golf.Int(v)
		}
		tee.Yardages, _ = first(p, []extractor[[]int]{ints("yardages"), ints("hole_yardages")})
		tees = append(tees, tee)
	}
	return tees
}

// parsePlayers accepts either a list of player rows or a map keyed by player
// name whose values are rows or bare hole-score arrays.
func parsePlayers(v any) ([]string, map[string]golf.PlayerScore) {
	var names []string
	scores := map[string]golf.PlayerScore{}

	if arr, ok := golf.AsArray(v); ok {
		for _, item := range arr {
			obj, ok := golf.AsObject(item)
			if !ok {
				continue
			}
			row := golf.Payload(obj)
			name, ok := first(row, playerNameChain)
			if !ok {
				continue
			}
			if _, seen := scores[name]; !seen {
				names = append(names, name)
			}
			scores[name] = parsePlayerRow(row)
		}
	} else if obj, ok := golf.AsObject(v); ok {
		for _, key := range sortedKeys(obj) {
			name := strings.TrimSpace(key)
			if _, seen := scores[name]; seen || name == "" {
				continue
			}
			if row, ok := golf.AsObject(obj[key]); ok {
				scores[name] = parsePlayerRow(golf.Payload(row))
			} else if holes, ok := golf.AsIntSlice(obj[key]); ok {
				scores[name] = golf.PlayerScore{HoleScores: holes}
			} else {
				continue
			}
			names = append(names, name)
		}
	}

	if len(scores) == 0 {
		return nil, nil
	}
	return names, scores
}

func parsePlayerRow(row golf.Payload) golf.PlayerScore {
	var ps golf.PlayerScore
	ps.HoleScores, _ = first(row, holeScoresChain)
	if v, ok := first(row, frontNineChain); ok {
		ps.FrontNine = golf.Int(v)
	}
	if v, ok := first(row, backNineChain); ok {
		ps.BackNine = golf.Int(v)
	}
	if v, ok := first(row, playerTotalChain); ok {
		ps.Total = golf.Int(v)
	}
	return ps
}

func parsePlayerNames(v any) []string {
	arr, ok := golf.AsArray(v)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range arr {
		if s, ok := golf.AsString(item); ok {
			names = append(names, s)
			continue
		}
		if obj, ok := golf.AsObject(item); ok {
			if s, ok := first(golf.Payload(obj), playerNameChain); ok {
				names = append(names, s)
			}
		}
	}
	return names
}

// mergeNames keeps the listed order and appends names only seen in scores.
func mergeNames(listed, scored []string) []string {
	seen := make(map[string]bool, len(listed))
	out := make([]string, 0, len(listed)+len(scored))
	for _, n := range listed {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range scored {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func parseFieldConfidence(p golf.Payload) map[string]float64 {
	obj, ok := p.Object("field_confidence")
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(obj))
	for k, v := range obj {
		if f, ok := golf.AsNumber(v); ok {
			out[k] = f
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
