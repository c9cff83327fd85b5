// Package games implements the rule sets for the two-player games the
// Oracle core adjudicates. Each game type supplies an Action that can be
// committed to with crypto.Commitment and a Judge that turns a revealed
// pair of actions into a protocol.Result.
package games

import "github.com/lightningnetwork/fibergame/protocol"

// Type identifies a supported game.
type Type int

const (
	// RockPaperScissors is the classic three-way cycle; judged purely
	// from the two revealed actions.
	RockPaperScissors Type = iota
	// GuessNumber requires an Oracle-committed secret number in
	// addition to the two revealed guesses.
	GuessNumber
)

// String renders the game type for logging.
func (t Type) String() string {
	switch t {
	case RockPaperScissors:
		return "rock_paper_scissors"
	case GuessNumber:
		return "guess_number"
	default:
		return "unknown"
	}
}

// RequiresOracleSecret reports whether the Oracle must commit a secret
// before play begins (e.g. the target number in GuessNumber).
func (t Type) RequiresOracleSecret() bool {
	return t == GuessNumber
}

// Action is a single player's move in a game. It is the payload committed
// to with a random salt during the commit phase and disclosed during the
// reveal phase.
type Action interface {
	// Bytes returns the canonical encoding committed to in the
	// commit-reveal scheme.
	Bytes() []byte

	// Validate reports whether this action is legal for the given game
	// type.
	Validate(t Type) bool
}

// Judge turns a pair of revealed actions (plus an optional Oracle secret,
// for games that need one) into a result.
type Judge interface {
	// Judge determines the winner. Callers must only pass action pairs
	// that both validated successfully for this game's Type, and must
	// supply secret whenever Type.RequiresOracleSecret is true.
	Judge(a, b Action, secret *OracleSecret) (protocol.Result, error)
}

// JudgeFor returns the Judge implementation for a game type.
func JudgeFor(t Type) Judge {
	switch t {
	case RockPaperScissors:
		return rpsJudge{}
	case GuessNumber:
		return guessNumberJudge{}
	default:
		return nil
	}
}
