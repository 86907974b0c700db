package render

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/input"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

func newTestRenderer() (*DefaultRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &theme.DefaultTheme{}, input.NewKeyMap("awsedftgyhujk", 60), 3, 4)
	r.Resize(80, 40)
	return r, &buf
}

func at(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

func TestColumns(t *testing.T) {
	r, _ := newTestRenderer()
	assert.Equal(t, 36, r.HitRow())

	// 13 keys, 3 apart, centred on column 40
	assert.Equal(t, 22, r.column(60))
	assert.Equal(t, 40, r.column(66))
	assert.Equal(t, 58, r.column(72))
	assert.Equal(t, 22, r.column(10))
	assert.Equal(t, 58, r.column(100))
}

func TestDrawNotes(t *testing.T) {
	r, buf := newTestRenderer()
	th := &theme.DefaultTheme{}

	rs := engine.RenderState{
		State: game.Playing,
		Notes: []engine.NoteProjection{
			{Note: game.Note{Midi: 60}, Y: 10.4, IsVisible: true},
			{Note: game.Note{Midi: 64, Hit: true, HitResult: game.Perfect}, Y: 36, IsVisible: true},
			{Note: game.Note{Midi: 67}, Y: -50, IsVisible: false},
		},
		Score:      12345,
		Streak:     3,
		Multiplier: 1,
		Progress:   0.5,
	}
	require.NoError(t, r.Draw(rs))
	out := buf.String()

	assert.Contains(t, out, at(10, 22)+th.RenderNote(60, game.Unresolved))
	assert.NotContains(t, out, th.RenderNote(64, game.Perfect))
	assert.Contains(t, out, at(36, 22)+"-")
	assert.Contains(t, out, at(36, 25)+"=")
	assert.Contains(t, out, at(38, 22)+"a")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "PLAYING")
	assert.Contains(t, out, at(1, 1)+"\033[38;2;0;118;236m"+strings.Repeat("─", 40)+"\033[0m")
	assert.Contains(t, out, at(1, 41)+strings.Repeat(" ", 40))
	assert.Len(t, r.drawn, 1)

	// The next frame blanks the cell the note left
	buf.Reset()
	rs.Notes = rs.Notes[:0]
	require.NoError(t, r.Draw(rs))
	assert.Contains(t, buf.String(), at(10, 22)+" ")
	assert.Len(t, r.drawn, 0)
}

func TestDecorationsExpire(t *testing.T) {
	r, buf := newTestRenderer()
	r.AddDecoration(5, 5, "x", 1)
	require.Len(t, r.decorations, 1)

	rs := engine.RenderState{}
	require.NoError(t, r.Draw(rs))
	require.Len(t, r.decorations, 1)
	require.NoError(t, r.Draw(rs))
	assert.Len(t, r.decorations, 0)
	assert.Contains(t, buf.String(), at(5, 5)+" ")
}

func TestJudge(t *testing.T) {
	r, _ := newTestRenderer()
	r.Judge(60, game.Miss)
	assert.Len(t, r.decorations, 4)
	for _, d := range r.decorations {
		assert.Equal(t, missFrames, d.Frames)
	}

	r, _ = newTestRenderer()
	r.Judge(66, game.Great)
	assert.Len(t, r.decorations, 3)
	assert.Equal(t, 40, r.decorations[0].X)
	assert.Equal(t, 35, r.decorations[0].Y)
}

func TestProgressBounds(t *testing.T) {
	r, buf := newTestRenderer()
	r.drawProgress(1.7)
	require.NoError(t, r.flush())
	assert.Contains(t, buf.String(), strings.Repeat("─", 80)+"\033[0m"+at(1, 81))

	buf.Reset()
	r.drawProgress(0)
	require.NoError(t, r.flush())
	assert.Contains(t, buf.String(), at(1, 1)+"\033[38;2;0;118;236m\033[0m"+at(1, 1)+strings.Repeat(" ", 80))
}

func TestFillColor(t *testing.T) {
	r, buf := newTestRenderer()
	r.FillColor(3, 7, theme.Color{R: 1, G: 2, B: 3}, "x")
	require.NoError(t, r.flush())
	assert.Equal(t, at(3, 7)+"\033[38;2;1;2;3mx\033[0m", buf.String())
}

func TestVisibleLen(t *testing.T) {
	th := &theme.DefaultTheme{}
	assert.Equal(t, 7, visibleLen(th.RenderJudgement(game.Perfect)))
	assert.Equal(t, 1, visibleLen("\033[1;31m╭\033[0m"))
}

func TestInitNeedsTerminal(t *testing.T) {
	r, buf := newTestRenderer()
	assert.Error(t, r.Init())
	assert.Empty(t, buf.String())

	// A file that is not a terminal is refused too
	f, err := os.CreateTemp(t.TempDir(), "screen")
	require.NoError(t, err)
	defer f.Close()
	r = NewRenderer(f, &theme.DefaultTheme{}, input.NewKeyMap("a", 60), 1, 1)
	assert.Error(t, r.Init())
}

func TestDeinitOnlyRestoresScreen(t *testing.T) {
	r, buf := newTestRenderer()
	require.NoError(t, r.Deinit())
	assert.Equal(t, "\033[?1049l\033[?25h", buf.String())
}
