package score

import (
	"math"

	"git.lost.host/meutraa/keyfall/internal/game"
)

// DefaultScorer accumulates the score of one play session. The zero value
// is not ready for use, construct it with New.
type DefaultScorer struct {
	score      int
	streak     int
	maxStreak  int
	hitCounts  HitCounts
	totalNotes int
	mistakes   []NoteContext
}

func New() *DefaultScorer {
	s := &DefaultScorer{}
	s.Reset()
	return s
}

func (s *DefaultScorer) Reset() {
	s.score = 0
	s.streak = 0
	s.maxStreak = 0
	s.hitCounts = newHitCounts()
	s.totalNotes = 0
	s.mistakes = []NoteContext{}
}

func multiplierFor(streak int) int {
	m := 1 + streak/NotesPerMultiplier
	if m > MaxMultiplier {
		return MaxMultiplier
	}
	return m
}

// Multiplier is derived from the current streak every time it is asked for.
func (s *DefaultScorer) Multiplier() int {
	return multiplierFor(s.streak)
}

func (s *DefaultScorer) RecordHit(kind game.HitResult, ctx *NoteContext) Result {
	s.hitCounts[kind]++
	s.totalNotes++

	if kind.Successful() {
		s.streak++
		if s.streak > s.maxStreak {
			s.maxStreak = s.streak
		}
	} else {
		if ctx != nil {
			c := *ctx
			c.Result = kind
			s.mistakes = append(s.mistakes, c)
		}
		s.streak = 0
	}

	// Evaluated after the streak moved, so the hit that completes a run of
	// ten is already worth double.
	multiplier := s.Multiplier()
	base := BasePoints[kind]
	points := base * multiplier
	s.score += points

	return Result{
		Points:     points,
		Multiplier: multiplier,
		NewStreak:  s.streak,
		BasePoints: base,
	}
}

func (s *DefaultScorer) Score() int {
	return s.score
}

func (s *DefaultScorer) Streak() int {
	return s.streak
}

func (s *DefaultScorer) MaxStreak() int {
	return s.maxStreak
}

func (s *DefaultScorer) TotalNotes() int {
	return s.totalNotes
}

// Accuracy is the rounded percentage of successful results, 100 before
// anything was recorded.
func (s *DefaultScorer) Accuracy() int {
	return accuracy(s.hitCounts.Successes(), s.totalNotes)
}

func (s *DefaultScorer) Stars() int {
	return StarsFor(s.Accuracy())
}

func (s *DefaultScorer) Summary() Summary {
	mistakes := make([]NoteContext, len(s.mistakes))
	copy(mistakes, s.mistakes)
	return Summary{
		Score:      s.score,
		Accuracy:   s.Accuracy(),
		Stars:      s.Stars(),
		MaxStreak:  s.maxStreak,
		HitCounts:  s.hitCounts.clone(),
		TotalNotes: s.totalNotes,
		Mistakes:   mistakes,
	}
}

func accuracy(successes, total int) int {
	if total == 0 {
		return 100
	}
	// Half rounds up, values are never negative
	return int(math.Floor(100*float64(successes)/float64(total) + 0.5))
}

func StarsFor(accuracy int) int {
	switch {
	case accuracy >= 90:
		return 3
	case accuracy >= 70:
		return 2
	}
	return 1
}

// CalculateScore previews what recording kind would earn after a streak of
// priorStreak, without touching any scorer.
func CalculateScore(kind game.HitResult, priorStreak int) Result {
	streak := 0
	if kind.Successful() {
		streak = priorStreak + 1
	}
	multiplier := multiplierFor(streak)
	base := BasePoints[kind]
	return Result{
		Points:     base * multiplier,
		Multiplier: multiplier,
		NewStreak:  streak,
		BasePoints: base,
	}
}
