package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/score"
)

const maxStars = 3

type Report struct {
	Title      string
	DurationMs float64
	Summary    score.Summary
	// Best previous run of the same chart, if any
	Best *score.Record
	Now  time.Time
}

func Stars(n int) string {
	if n < 0 {
		n = 0
	} else if n > maxStars {
		n = maxStars
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}

// Length formats a chart length the way a person would say it.
func Length(ms float64) string {
	return durafmt.Parse(time.Duration(ms * float64(time.Millisecond))).LimitFirstN(2).String()
}

func mistake(m score.NoteContext) string {
	played := "-"
	if m.ActualMidi != score.NoPitch {
		played = game.NoteName(m.ActualMidi)
	}
	return fmt.Sprintf("  %s\t%s\t%s\t%s\t%+.0fms",
		m.NoteID, game.NoteName(m.ExpectedMidi), played, m.Result, m.DeltaMs)
}

func Write(w io.Writer, r Report) error {
	s := r.Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	title := r.Title
	if title == "" {
		title = "Chart"
	}
	fmt.Fprintf(tw, "%s: %s notes in %s\n\n", title, humanize.Comma(int64(s.TotalNotes)), Length(r.DurationMs))
	fmt.Fprintf(tw, "Score\t%s\n", humanize.Comma(int64(s.Score)))
	fmt.Fprintf(tw, "Accuracy\t%d%%\n", s.Accuracy)
	fmt.Fprintf(tw, "Stars\t%s\n", Stars(s.Stars))
	fmt.Fprintf(tw, "Best streak\t%d\n", s.MaxStreak)
	for _, result := range game.HitResults {
		fmt.Fprintf(tw, "%s\t%d\n", result, s.HitCounts[result])
	}

	if r.Best != nil {
		when := humanize.RelTime(r.Best.PlayedAt, r.Now, "ago", "from now")
		fmt.Fprintf(tw, "Previous best\t%s (%s)\n", humanize.Comma(int64(r.Best.Summary.Score)), when)
		if s.Score > r.Best.Summary.Score {
			fmt.Fprintf(tw, "\tNew best by %s!\n", humanize.Comma(int64(s.Score-r.Best.Summary.Score)))
		}
	}

	if len(s.Mistakes) > 0 {
		fmt.Fprintf(tw, "\nMistakes\n")
		for _, m := range s.Mistakes {
			fmt.Fprintln(tw, mistake(m))
		}
	}
	return tw.Flush()
}
