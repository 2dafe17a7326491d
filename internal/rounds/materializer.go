// Package rounds turns a resolved course and parsed player rows into a
// persisted round with per-hole scores.
package rounds

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
)

var (
	ErrNoCourse  = errors.New("no course resolved")
	ErrNoPlayers = errors.New("No players found")
)

const defaultPar = 4

// RoundStore is satisfied by *store.Repository.
type RoundStore interface {
	CreateRoundWithScores(ctx context.Context, round *store.Round, scores []store.RoundScore) error
}

type Input struct {
	UserID string
	ScanID uuid.UUID
	Course *store.Course
	Data   *golf.CourseData
	// PlayedAt defaults to the card's date, then to now.
	PlayedAt time.Time
}

type Outcome struct {
	Round         *store.Round
	PrimaryPlayer string
	ScoresCreated int
}

type Materializer struct {
	rounds RoundStore
	now    func() time.Time
}

func NewMaterializer(rounds RoundStore) *Materializer {
	return &Materializer{rounds: rounds, now: time.Now}
}

// Materialize writes one Round for the first player and a RoundScore for
// every player and hole with a score, all in one transaction.
func (m *Materializer) Materialize(ctx context.Context, in Input) (*Outcome, error) {
	if in.Course == nil {
		return nil, ErrNoCourse
	}
	if in.Data == nil {
		return nil, ErrNoPlayers
	}
	players := playerNames(in.Data)
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	primary := players[0]
	ps := in.Data.PlayerScores[primary]
	round := &store.Round{
		UserID:         in.UserID,
		CourseID:       in.Course.ID,
		PlayedAt:       m.playedAt(in),
		TotalScore:     ps.TotalScore(),
		FrontNineScore: ps.FrontNineScore(),
		BackNineScore:  ps.BackNineScore(),
	}
	if in.ScanID != uuid.Nil {
		scanID := in.ScanID
		round.ScanID = &scanID
	}

	pars := holeValues(in.Course.ParValues, func(int) int { return defaultPar })
	hcps := holeValues(in.Course.HandicapValues, func(hole int) int { return hole })

	var scores []store.RoundScore
	for _, name := range players {
		row := in.Data.PlayerScores[name]
		for hole := 1; hole <= golf.Holes; hole++ {
			score, ok := row.HoleScore(hole)
			if !ok {
				continue
			}
			scores = append(scores, store.RoundScore{
				PlayerName: name,
				HoleNumber: hole,
				Score:      score,
				Par:        pars[hole-1],
				Handicap:   hcps[hole-1],
			})
		}
	}

	if err := m.rounds.CreateRoundWithScores(ctx, round, scores); err != nil {
		return nil, fmt.Errorf("creating round for course %s: %w", in.Course.ID, err)
	}
	logger.DebugLog("[rounds] round %s: %d players, %d scores", round.ID, len(players), len(scores))
	return &Outcome{Round: round, PrimaryPlayer: primary, ScoresCreated: len(scores)}, nil
}

// holeValues returns the course's per-hole values when it has all 18,
// otherwise the fallback for every hole.
func holeValues(values []int, fallback func(hole int) int) []int {
	if len(values) == golf.Holes {
		return values
	}
	out := make([]int, golf.Holes)
	for i := range out {
		out[i] = fallback(i + 1)
	}
	return out
}

// playerNames lists the card's players in order, then any scored player the
// list missed.
func playerNames(d *golf.CourseData) []string {
	seen := map[string]bool{}
	var names []string
	for _, n := range d.Players {
		if n = strings.TrimSpace(n); n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	var extra []string
	for n := range d.PlayerScores {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

func (m *Materializer) playedAt(in Input) time.Time {
	if !in.PlayedAt.IsZero() {
		return in.PlayedAt
	}
	if in.Data.Date != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, in.Data.Date); err == nil {
				return t
			}
		}
		logger.DebugLog("[rounds] unrecognised card date %q", in.Data.Date)
	}
	return m.now()
}
