package games

import (
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/protocol"
)

// RPSAction is a Rock-Paper-Scissors move.
type RPSAction int

const (
	// Rock beats Scissors.
	Rock RPSAction = iota
	// Paper beats Rock.
	Paper
	// Scissors beats Paper.
	Scissors
)

// Bytes returns the canonical commitment encoding of the move.
func (a RPSAction) Bytes() []byte {
	switch a {
	case Rock:
		return []byte("Rock")
	case Paper:
		return []byte("Paper")
	case Scissors:
		return []byte("Scissors")
	default:
		return nil
	}
}

// Validate reports whether a is a legal move and belongs to this game.
func (a RPSAction) Validate(t Type) bool {
	if t != RockPaperScissors {
		return false
	}
	return a == Rock || a == Paper || a == Scissors
}

// Beats reports whether a beats other under standard RPS rules.
func (a RPSAction) Beats(other RPSAction) bool {
	switch {
	case a == Rock && other == Scissors:
		return true
	case a == Scissors && other == Paper:
		return true
	case a == Paper && other == Rock:
		return true
	default:
		return false
	}
}

// String renders the move for logging.
func (a RPSAction) String() string {
	switch a {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "unknown"
	}
}

// rpsJudge implements Judge for RockPaperScissors. It never consults an
// Oracle secret.
type rpsJudge struct{}

// ErrInvalidActionType is returned when Judge is handed an Action that
// doesn't belong to a game's move type.
var ErrInvalidActionType = errors.New("games: action does not match game type")

func (rpsJudge) Judge(a, b Action, _ *OracleSecret) (protocol.Result, error) {
	rpsA, ok := a.(RPSAction)
	if !ok {
		return 0, ErrInvalidActionType
	}
	rpsB, ok := b.(RPSAction)
	if !ok {
		return 0, ErrInvalidActionType
	}

	switch {
	case rpsA == rpsB:
		return protocol.Draw, nil
	case rpsA.Beats(rpsB):
		return protocol.AWins, nil
	default:
		return protocol.BWins, nil
	}
}
