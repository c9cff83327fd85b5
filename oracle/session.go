package oracle

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/protocol"
)

// playerSlot holds everything the Oracle learns about one side of a game.
type playerSlot struct {
	callerID      string
	paymentHash   *crypto.PaymentHash
	preimage      *crypto.Preimage
	invoiceString string
	commitment    *crypto.Commitment
	revealAction  games.Action
	revealSalt    *crypto.Salt
	revealed      bool
}

// gameSession is the Oracle's private record of one game. All access goes
// through Service, which holds the single lock guarding every session.
type gameSession struct {
	gameID      protocol.GameID
	gameType    games.Type
	stakeAmount uint64
	status      protocol.Status

	nonceSecret *btcec.PrivateKey
	noncePoint  *btcec.PublicKey

	oracleSecret     *games.OracleSecret
	oracleCommitment *[32]byte

	slots [2]playerSlot

	result    *protocol.Result
	signature [64]byte

	createdAt time.Time
}

func (s *gameSession) slot(p protocol.Player) *playerSlot {
	return &s.slots[p]
}

func (s *gameSession) hasOpponent() bool {
	return s.slots[protocol.PlayerB].callerID != ""
}

func (s *gameSession) bothRevealed() bool {
	return s.slots[protocol.PlayerA].revealed && s.slots[protocol.PlayerB].revealed
}
