package render

import (
	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

type Renderer interface {
	Init() error
	Deinit() error
	Resize(width, height int)
	HitRow() int
	AddDecoration(col, row int, content string, frames int)
	Judge(midi int, result game.HitResult)
	Draw(rs engine.RenderState) error
	Fill(row, column int, message string)
	FillColor(row, column int, color theme.Color, message string)
}
