package game

import "fmt"

type EngineState uint8

const (
	Idle EngineState = iota
	Playing
	Paused
	Finished
)

func (s EngineState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	case Finished:
		return "FINISHED"
	}
	return fmt.Sprintf("EngineState(%d)", uint8(s))
}

func (s EngineState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
