package oracle_test

import (
	"testing"

	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/oracle"
	"github.com/lightningnetwork/fibergame/protocol"
	"github.com/stretchr/testify/require"
)

func newJoinedGame(t *testing.T, gameType games.Type) (*oracle.Service, protocol.GameID) {
	t.Helper()

	svc, err := oracle.NewService()
	require.NoError(t, err)

	created, err := svc.CreateGame(gameType, "alice", 1000)
	require.NoError(t, err)

	_, err = svc.JoinGame(created.GameID, "bob")
	require.NoError(t, err)

	return svc, created.GameID
}

func submitCommitment(t *testing.T, svc *oracle.Service, gameID protocol.GameID, player protocol.Player, action games.Action) crypto.Salt {
	t.Helper()

	salt, err := crypto.RandomSalt()
	require.NoError(t, err)

	commitment := crypto.NewCommitment(action.Bytes(), salt)
	require.NoError(t, svc.SubmitCommitment(gameID, player, commitment))

	return salt
}

func TestRPSGameAWins(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	saltA := submitCommitment(t, svc, gameID, protocol.PlayerA, games.Rock)
	saltB := submitCommitment(t, svc, gameID, protocol.PlayerB, games.Scissors)

	commitA := crypto.NewCommitment(games.Rock.Bytes(), saltA)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, saltA, commitA))

	commitB := crypto.NewCommitment(games.Scissors.Bytes(), saltB)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerB, games.Scissors, saltB, commitB))

	view, err := svc.GetResult(gameID, protocol.PlayerA)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusCompleted, view.Status)
	require.NotNil(t, view.Result)
	require.Equal(t, protocol.AWins, *view.Result)
}

func TestRPSGameDraw(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	saltA := submitCommitment(t, svc, gameID, protocol.PlayerA, games.Rock)
	saltB := submitCommitment(t, svc, gameID, protocol.PlayerB, games.Rock)

	commitA := crypto.NewCommitment(games.Rock.Bytes(), saltA)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, saltA, commitA))
	commitB := crypto.NewCommitment(games.Rock.Bytes(), saltB)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerB, games.Rock, saltB, commitB))

	view, err := svc.GetResult(gameID, protocol.PlayerA)
	require.NoError(t, err)
	require.Equal(t, protocol.Draw, *view.Result)
	require.Nil(t, view.PreimageForWinner)
}

func TestGuessNumberBWins(t *testing.T) {
	svc, err := oracle.NewService()
	require.NoError(t, err)

	created, err := svc.CreateGame(games.GuessNumber, "alice", 1000)
	require.NoError(t, err)
	require.NotNil(t, created.OracleCommitment)

	_, err = svc.JoinGame(created.GameID, "bob")
	require.NoError(t, err)

	saltA := submitCommitment(t, svc, created.GameID, protocol.PlayerA, games.GuessNumberAction(30))
	saltB := submitCommitment(t, svc, created.GameID, protocol.PlayerB, games.GuessNumberAction(48))

	commitA := crypto.NewCommitment(games.GuessNumberAction(30).Bytes(), saltA)
	require.NoError(t, svc.SubmitReveal(created.GameID, protocol.PlayerA, games.GuessNumberAction(30), saltA, commitA))
	commitB := crypto.NewCommitment(games.GuessNumberAction(48).Bytes(), saltB)
	require.NoError(t, svc.SubmitReveal(created.GameID, protocol.PlayerB, games.GuessNumberAction(48), saltB, commitB))

	view, err := svc.GetResult(created.GameID, protocol.PlayerA)
	require.NoError(t, err)
	require.Equal(t, protocol.BWins, *view.Result)
}

// TestRevealMismatchRejected ensures a reveal whose action differs from
// the committed one fails and does not advance the game.
func TestRevealMismatchRejected(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	saltA := submitCommitment(t, svc, gameID, protocol.PlayerA, games.Rock)
	saltB, err := crypto.RandomSalt()
	require.NoError(t, err)

	committed := crypto.NewCommitment(games.Scissors.Bytes(), saltB)
	require.NoError(t, svc.SubmitCommitment(gameID, protocol.PlayerB, committed))

	commitA := crypto.NewCommitment(games.Rock.Bytes(), saltA)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, saltA, commitA))

	// B committed to Scissors but reveals Paper.
	err = svc.SubmitReveal(gameID, protocol.PlayerB, games.Paper, saltB, committed)
	require.Error(t, err)
	require.IsType(t, &protocol.RevealMismatchError{}, err)

	status, err := svc.GetGameStatus(gameID)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusInProgress, status.Status)
}

func TestCommitmentMismatchRejected(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	salt, err := crypto.RandomSalt()
	require.NoError(t, err)
	require.NoError(t, svc.SubmitCommitment(gameID, protocol.PlayerA, crypto.NewCommitment(games.Rock.Bytes(), salt)))

	otherSalt, err := crypto.RandomSalt()
	require.NoError(t, err)
	wrongClaim := crypto.NewCommitment(games.Paper.Bytes(), otherSalt)

	err = svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, salt, wrongClaim)
	require.Error(t, err)
	require.IsType(t, &protocol.CommitmentMismatchError{}, err)
}

func TestJoinGameTwiceFails(t *testing.T) {
	svc, err := oracle.NewService()
	require.NoError(t, err)

	created, err := svc.CreateGame(games.RockPaperScissors, "alice", 1000)
	require.NoError(t, err)

	_, err = svc.JoinGame(created.GameID, "bob")
	require.NoError(t, err)

	_, err = svc.JoinGame(created.GameID, "carol")
	require.Error(t, err)
}

func TestGetResultBeforeCompletionIsPending(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	view, err := svc.GetResult(gameID, protocol.PlayerA)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusInProgress, view.Status)
	require.Nil(t, view.Result)
}

// TestRevealAfterCompletionRejected ensures a reveal submitted after the
// game has already completed is rejected rather than re-triggering the
// judge.
func TestRevealAfterCompletionRejected(t *testing.T) {
	svc, gameID := newJoinedGame(t, games.RockPaperScissors)

	saltA := submitCommitment(t, svc, gameID, protocol.PlayerA, games.Rock)
	saltB := submitCommitment(t, svc, gameID, protocol.PlayerB, games.Scissors)

	commitA := crypto.NewCommitment(games.Rock.Bytes(), saltA)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, saltA, commitA))
	commitB := crypto.NewCommitment(games.Scissors.Bytes(), saltB)
	require.NoError(t, svc.SubmitReveal(gameID, protocol.PlayerB, games.Scissors, saltB, commitB))

	view, err := svc.GetResult(gameID, protocol.PlayerA)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusCompleted, view.Status)

	// A second reveal for A, after the game is already Completed, must be
	// rejected rather than accepted and re-judged.
	err = svc.SubmitReveal(gameID, protocol.PlayerA, games.Rock, saltA, commitA)
	require.Error(t, err)
	require.IsType(t, &protocol.WrongPhaseError{}, err)
}

func TestUnknownGameIDReturnsNotFound(t *testing.T) {
	svc, err := oracle.NewService()
	require.NoError(t, err)

	_, err = svc.GetGameStatus(protocol.NewGameID())
	require.Error(t, err)
	require.IsType(t, &protocol.GameNotFoundError{}, err)
}
