package scorecard

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

var (
	numberPattern   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	ratingPattern   = regexp.MustCompile(`(?i)\b(?:course\s+)?rating\b[:\s]*(\d{2}\.\d)`)
	slopePattern    = regexp.MustCompile(`(?i)\bslope(?:\s+rating)?\b[:\s]*(\d{2,3})\b`)
	ratingSlashPair = regexp.MustCompile(`\b(\d{2}\.\d)\s*/\s*(\d{2,3})\b`)
	teePattern      = regexp.MustCompile(`(?i)\b(championship|blue|white|red|gold|black|tips|back|front|ladies)\s+tees?\b`)
	parRowPattern   = regexp.MustCompile(`(?i)^\s*par\b`)
	hcpRowPattern   = regexp.MustCompile(`(?i)^\s*(?:handicap|hdcp|hcp|hdc)\b`)
)

var courseNameTokens = []string{"golf", "country club", "links", "club", "cc"}

// parseText recovers what it can from unstructured OCR text: the course name
// line, tee, rating and slope, and the par and handicap rows.
func parseText(raw string) *golf.CourseData {
	d := &golf.CourseData{}
	lines := strings.Split(raw, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if d.CourseName == "" && looksLikeCourseName(line) {
			d.CourseName = line
		}
		if d.TeeName == "" {
			if m := teePattern.FindStringSubmatch(line); m != nil {
				d.TeeName = strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
			}
		}
		if d.CourseRating == nil {
			if m := ratingPattern.FindStringSubmatch(line); m != nil {
				d.CourseRating = parseFloat(m[1])
			} else if m := ratingSlashPair.FindStringSubmatch(line); m != nil {
				d.CourseRating = parseFloat(m[1])
				if d.SlopeRating == nil {
					d.SlopeRating = parseInt(m[2])
				}
			}
		}
		if d.SlopeRating == nil {
			if m := slopePattern.FindStringSubmatch(line); m != nil {
				d.SlopeRating = parseInt(m[1])
			}
		}
		if len(d.ParValues) == 0 && parRowPattern.MatchString(line) {
			d.ParValues = holeRow(line)
		}
		if len(d.HandicapValues) == 0 && hcpRowPattern.MatchString(line) {
			d.HandicapValues = holeRow(line)
		}
	}
	return d
}

func looksLikeCourseName(line string) bool {
	if parRowPattern.MatchString(line) || hcpRowPattern.MatchString(line) {
		return false
	}
	lower := " " + strings.ToLower(line) + " "
	for _, tok := range courseNameTokens {
		if strings.Contains(lower, " "+tok+" ") {
			return true
		}
	}
	return false
}

// holeRow reads the per-hole numbers from a row, dropping the OUT, IN and
// TOTAL columns printed on most cards.
func holeRow(line string) []int {
	var nums []int
	for _, m := range numberPattern.FindAllString(line, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 20, 21:
		// 9 holes, OUT, 9 holes, IN and an optional TOTAL
		out := append([]int{}, nums[:9]...)
		return append(out, nums[10:19]...)
	case 19:
		return nums[:18]
	}
	if len(nums) < 9 {
		return nil
	}
	return nums
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return golf.Float(f)
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return golf.Int(n)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
