package render

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/input"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

const (
	judgementFrames = 90
	missFrames      = 240
)

type DefaultRenderer struct {
	out         io.Writer
	theme       theme.Theme
	keys        input.KeyMap
	spacing     int
	barRow      int
	buffer      strings.Builder
	decorations []*decoration

	width, height int
	hitRow        int
	centre        int
	sideCol       int

	// Cells holding a note after the previous frame
	drawn []cell
}

type cell struct {
	row, col int
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

func NewRenderer(out io.Writer, th theme.Theme, keys input.KeyMap, spacing, barRow int) *DefaultRenderer {
	if spacing < 1 {
		spacing = 1
	}
	return &DefaultRenderer{
		out:     out,
		theme:   th,
		keys:    keys,
		spacing: spacing,
		barRow:  barRow,
	}
}

// Init takes over the screen. Raw mode belongs to the keyboard reader,
// the renderer never changes the terminal's line discipline.
func (r *DefaultRenderer) Init() error {
	f, ok := r.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return errors.New("renderer output is not a terminal")
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if nil != err {
		return errors.Wrap(err, "unable to get terminal size")
	}
	r.Resize(width, height)

	_, err = io.WriteString(r.out, "\033[?1049h"+ // Enable alternate buffer
		"\033[?25l"+ // Make the cursor invisible
		"\033[J", // Clear the screen
	)
	return err
}

func (r *DefaultRenderer) Deinit() error {
	_, err := io.WriteString(r.out, "\033[?1049l"+ // Disable alternate buffer
		"\033[?25h", // Make the cursor visible
	)
	return err
}

func (r *DefaultRenderer) Resize(width, height int) {
	r.width, r.height = width, height
	r.hitRow = height - r.barRow
	r.centre = width >> 1
	r.sideCol = r.column(r.keys.Lowest()) - 28
	if r.sideCol < 2 {
		r.sideCol = 2
	}
	r.drawn = r.drawn[:0]
}

// HitRow is the terminal row of the hit bar.
func (r *DefaultRenderer) HitRow() int {
	return r.hitRow
}

// column maps a pitch to its terminal column. Pitches outside the key range
// fall onto the nearest edge key.
func (r *DefaultRenderer) column(midi int) int {
	lo, hi := r.keys.Lowest(), r.keys.Highest()
	if midi < lo {
		midi = lo
	} else if midi > hi {
		midi = hi
	}
	span := (hi - lo) * r.spacing
	return r.centre - span/2 + (midi-lo)*r.spacing
}

func (r *DefaultRenderer) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", visibleLen(d.Content)))
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// Judge marks the outcome of a note at its key.
func (r *DefaultRenderer) Judge(midi int, result game.HitResult) {
	col := r.column(midi)
	if result == game.Miss {
		red := "\033[1;31m"
		r.AddDecoration(col-1, r.hitRow-1, red+"╭\033[0m", missFrames)
		r.AddDecoration(col+1, r.hitRow-1, red+"╮\033[0m", missFrames)
		r.AddDecoration(col-1, r.hitRow+1, red+"╰\033[0m", missFrames)
		r.AddDecoration(col+1, r.hitRow+1, red+"╯\033[0m", missFrames)
		return
	}
	r.AddDecoration(col, r.hitRow-1, r.theme.RenderNote(midi, result), judgementFrames)

	// Latest judgement, centred under the field
	label := r.theme.RenderJudgement(result)
	row := r.height >> 1
	r.AddDecoration(r.centre-6, row, strings.Repeat(" ", 12), 0)
	r.AddDecoration(r.centre-visibleLen(label)/2, row, label, judgementFrames)
}

func (r *DefaultRenderer) Draw(rs engine.RenderState) error {
	for _, c := range r.drawn {
		r.Fill(c.row, c.col, " ")
	}
	r.drawn = r.drawn[:0]

	// Hit bar and key labels
	for p := r.keys.Lowest(); p <= r.keys.Highest(); p++ {
		col := r.column(p)
		r.Fill(r.hitRow, col, r.theme.RenderHitField(p))
		if k, ok := r.keys.Key(p); ok && r.hitRow+2 <= r.height {
			r.Fill(r.hitRow+2, col, string(k))
		}
	}

	for _, n := range rs.Notes {
		if !n.IsVisible || n.Hit {
			continue
		}
		row := int(math.Round(n.Y))
		if row < 2 || row > r.height || row == r.hitRow {
			continue
		}
		col := r.column(n.Midi)
		r.Fill(row, col, r.theme.RenderNote(n.Midi, n.HitResult))
		r.drawn = append(r.drawn, cell{row, col})
	}

	r.drawProgress(rs.Progress)
	r.Fill(4, r.sideCol, "          State:  "+pad(rs.State.String(), 10))
	r.Fill(5, r.sideCol, "          Score:  "+pad(humanize.Comma(int64(rs.Score)), 10))
	r.Fill(6, r.sideCol, "         Streak:  "+pad(strconv.Itoa(rs.Streak), 10))
	r.Fill(7, r.sideCol, "     Multiplier:  "+pad("x"+strconv.Itoa(rs.Multiplier), 10))

	r.tickDecorations()
	return r.flush()
}

func (r *DefaultRenderer) drawProgress(progress float64) {
	if r.width <= 0 {
		return
	}
	filled := int(math.Round(progress * float64(r.width)))
	if filled > r.width {
		filled = r.width
	} else if filled < 0 {
		filled = 0
	}
	r.FillColor(1, 1, r.theme.ProgressColor(), strings.Repeat("─", filled))
	r.Fill(1, 1+filled, strings.Repeat(" ", r.width-filled))
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c theme.Color, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() error {
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// visibleLen counts the runes of s outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	esc := false
	for _, c := range s {
		switch {
		case esc:
			if c == 'm' {
				esc = false
			}
		case c == '\033':
			esc = true
		default:
			n++
		}
	}
	return n
}
