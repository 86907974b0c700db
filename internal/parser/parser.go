package parser

import "git.lost.host/meutraa/keyfall/internal/game"

type Parser interface {
	Parse(raw []byte) (*game.Chart, error)
	ParseFile(path string) (*game.Chart, error)
}

type DefaultParser struct{}

func (p *DefaultParser) Parse(raw []byte) (*game.Chart, error) {
	return ParseChart(raw)
}

func (p *DefaultParser) ParseFile(path string) (*game.Chart, error) {
	return ParseChartFile(path)
}
