// Package protocol holds the identifiers and outcome types shared between
// the Oracle and Player cores: the per-game UUID, the two-player labels,
// and the three possible game results.
package protocol

import (
	"github.com/google/uuid"
	"github.com/lightningnetwork/fibergame/crypto"
)

// GameID uniquely identifies a game session across the Oracle and both
// Players.
type GameID = uuid.UUID

// NewGameID mints a new random game identifier.
func NewGameID() GameID {
	return uuid.New()
}

// Player labels one of the two participants in a game.
type Player int

const (
	// PlayerA is the game's creator.
	PlayerA Player = iota
	// PlayerB is the game's joiner.
	PlayerB
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// String renders the player as "A" or "B".
func (p Player) String() string {
	if p == PlayerA {
		return "A"
	}
	return "B"
}

// Result is the outcome of a completed game.
type Result int

const (
	// AWins indicates player A won the game.
	AWins Result = iota
	// BWins indicates player B won the game.
	BWins
	// Draw indicates neither player won.
	Draw
)

// String renders the result using the exact outcome labels that feed the
// SignaturePoint and Oracle-signature computations; changing these strings
// would silently break every adaptor-signature derivation already in
// flight for live games.
func (r Result) String() string {
	switch r {
	case AWins:
		return crypto.OutcomeAWins
	case BWins:
		return crypto.OutcomeBWins
	default:
		return crypto.OutcomeDraw
	}
}

// Status is the lifecycle state of a game session, shared by the Oracle
// and Player cores (the Player phase machine adds finer-grained states on
// top of this).
type Status int

const (
	// StatusWaitingForOpponent is the state after CreateGame, before
	// JoinGame.
	StatusWaitingForOpponent Status = iota
	// StatusInProgress is the state after JoinGame, before both reveals
	// are judged.
	StatusInProgress
	// StatusCompleted is the terminal state once a result has been
	// judged and signed.
	StatusCompleted
	// StatusCancelled is reserved; nothing in the core triggers it
	// automatically.
	StatusCancelled
)

// String renders the status for logging.
func (s Status) String() string {
	switch s {
	case StatusWaitingForOpponent:
		return "waiting_for_opponent"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
