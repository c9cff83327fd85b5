package games_test

import (
	"testing"

	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/protocol"
	"github.com/stretchr/testify/require"
)

func judgeRPS(t *testing.T, a, b games.RPSAction) protocol.Result {
	t.Helper()
	res, err := games.JudgeFor(games.RockPaperScissors).Judge(a, b, nil)
	require.NoError(t, err)
	return res
}

func TestRPSRockBeatsScissors(t *testing.T) {
	require.Equal(t, protocol.AWins, judgeRPS(t, games.Rock, games.Scissors))
	require.Equal(t, protocol.BWins, judgeRPS(t, games.Scissors, games.Rock))
}

func TestRPSScissorsBeatsPaper(t *testing.T) {
	require.Equal(t, protocol.AWins, judgeRPS(t, games.Scissors, games.Paper))
	require.Equal(t, protocol.BWins, judgeRPS(t, games.Paper, games.Scissors))
}

func TestRPSPaperBeatsRock(t *testing.T) {
	require.Equal(t, protocol.AWins, judgeRPS(t, games.Paper, games.Rock))
	require.Equal(t, protocol.BWins, judgeRPS(t, games.Rock, games.Paper))
}

func TestRPSDraws(t *testing.T) {
	require.Equal(t, protocol.Draw, judgeRPS(t, games.Rock, games.Rock))
	require.Equal(t, protocol.Draw, judgeRPS(t, games.Paper, games.Paper))
	require.Equal(t, protocol.Draw, judgeRPS(t, games.Scissors, games.Scissors))
}

// TestRPSAllOutcomes checks the full 9-combination outcome table, same as
// the reference implementation's exhaustive test.
func TestRPSAllOutcomes(t *testing.T) {
	actions := []games.RPSAction{games.Rock, games.Paper, games.Scissors}

	var aWins, bWins, draws int
	for _, a := range actions {
		for _, b := range actions {
			switch judgeRPS(t, a, b) {
			case protocol.AWins:
				aWins++
			case protocol.BWins:
				bWins++
			case protocol.Draw:
				draws++
			}
		}
	}

	require.Equal(t, 3, aWins)
	require.Equal(t, 3, bWins)
	require.Equal(t, 3, draws)
}

func TestRPSValidateAction(t *testing.T) {
	require.True(t, games.Rock.Validate(games.RockPaperScissors))
	require.True(t, games.Paper.Validate(games.RockPaperScissors))
	require.True(t, games.Scissors.Validate(games.RockPaperScissors))
	require.False(t, games.GuessNumberAction(50).Validate(games.RockPaperScissors))
}

func TestRPSRejectsWrongActionType(t *testing.T) {
	_, err := games.JudgeFor(games.RockPaperScissors).Judge(games.Rock, games.GuessNumberAction(1), nil)
	require.ErrorIs(t, err, games.ErrInvalidActionType)
}

func TestRPSNoOracleSecretRequired(t *testing.T) {
	require.False(t, games.RockPaperScissors.RequiresOracleSecret())
}
