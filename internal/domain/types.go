package domain

import "fmt"

const (
	BoardSize  = 11
	BoardCells = BoardSize * BoardSize
	AuxLogits  = 5
	PolicySize = BoardCells + AuxLogits
)

// Policy vector layout after the spatial logits.
const (
	Swap2ChooseWhite     = BoardCells + 0
	Swap2ChooseBlack     = BoardCells + 1
	Swap2ContinuePlacing = BoardCells + 2
	StoneChooseWhite     = BoardCells + 3
	StoneChooseBlack     = BoardCells + 4
)

type StoneType int32

const (
	StoneNone StoneType = iota
	StoneBlack
	StoneWhite
)

func (s StoneType) String() string {
	switch s {
	case StoneNone:
		return "none"
	case StoneBlack:
		return "black"
	case StoneWhite:
		return "white"
	}
	return fmt.Sprintf("StoneType(%d)", int32(s))
}

type GamePhase int32

const (
	PhasePlace3Stones GamePhase = iota
	PhaseSwap2Decision
	PhasePlace2MoreStones
	PhaseStoneTypeDecision
	PhaseStandardGomoku

	NumPhases = 5
)

func (p GamePhase) Valid() bool {
	return p >= 0 && p < NumPhases
}

func (p GamePhase) String() string {
	switch p {
	case PhasePlace3Stones:
		return "place_3_stones"
	case PhaseSwap2Decision:
		return "swap2_decision"
	case PhasePlace2MoreStones:
		return "place_2_more_stones"
	case PhaseStoneTypeDecision:
		return "stone_type_decision"
	case PhaseStandardGomoku:
		return "standard_gomoku"
	}
	return fmt.Sprintf("GamePhase(%d)", int32(p))
}

// GamePurpose is the game_purpose column of a recorded game. It selects the
// data source rows are sampled from.
type GamePurpose int32

const (
	PurposeSelfPlay GamePurpose = iota
	PurposeHuman
)

// RawRow is one recorded game action as stored.
type RawRow struct {
	GameID          int64
	StepNumber      int32
	StoneType       StoneType
	SerializedBoard []byte
	GamePhase       GamePhase
	Policy          []float32
	Value           float32
}
