package protocol

import "fmt"

// CommitmentMismatchError is returned when a caller's claimed commitment
// echo doesn't match what the Oracle has stored for that player.
type CommitmentMismatchError struct {
	GameID GameID
	Player Player
}

// Error implements the error interface.
func (e *CommitmentMismatchError) Error() string {
	return fmt.Sprintf("protocol: commitment mismatch for game %s player %s", e.GameID, e.Player)
}

var _ error = (*CommitmentMismatchError)(nil)

// RevealMismatchError is returned when a revealed (action, salt) pair does
// not recompute to the player's stored commitment.
type RevealMismatchError struct {
	GameID GameID
	Player Player
}

// Error implements the error interface.
func (e *RevealMismatchError) Error() string {
	return fmt.Sprintf("protocol: reveal does not match commitment for game %s player %s", e.GameID, e.Player)
}

var _ error = (*RevealMismatchError)(nil)

// WrongPhaseError is returned when an operation is attempted in a session
// phase that doesn't support it.
type WrongPhaseError struct {
	GameID  GameID
	Phase   string
	Wanted  string
}

// Error implements the error interface.
func (e *WrongPhaseError) Error() string {
	return fmt.Sprintf("protocol: game %s is in phase %s, operation requires %s", e.GameID, e.Phase, e.Wanted)
}

var _ error = (*WrongPhaseError)(nil)

// InvalidPlayerError is returned when a caller supplies a Player value the
// session doesn't recognize for the operation. Joining an already-joined
// game is reported as a WrongPhaseError, not this error.
type InvalidPlayerError struct {
	GameID GameID
	Player Player
}

// Error implements the error interface.
func (e *InvalidPlayerError) Error() string {
	return fmt.Sprintf("protocol: invalid player %s for game %s", e.Player, e.GameID)
}

var _ error = (*InvalidPlayerError)(nil)

// UnauthorizedCallerError is returned when a caller ID doesn't match the
// party that is permitted to perform an operation.
type UnauthorizedCallerError struct {
	GameID GameID
	Caller string
}

// Error implements the error interface.
func (e *UnauthorizedCallerError) Error() string {
	return fmt.Sprintf("protocol: caller %s is not authorized for game %s", e.Caller, e.GameID)
}

var _ error = (*UnauthorizedCallerError)(nil)

// GameNotFoundError is returned when an operation references an unknown
// game_id.
type GameNotFoundError struct {
	GameID GameID
}

// Error implements the error interface.
func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("protocol: game not found: %s", e.GameID)
}

var _ error = (*GameNotFoundError)(nil)
