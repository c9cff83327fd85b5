package player

import (
	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/fiber"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/protocol"
)

// Phase is the local lifecycle of one game from this player's point of
// view; it is finer-grained than the Oracle's shared protocol.Status.
type Phase int

const (
	// PhaseWaitingForOpponent is the state right after CreateGame,
	// before the Oracle reports an opponent has joined.
	PhaseWaitingForOpponent Phase = iota
	// PhaseExchangingInvoices is entered once an opponent is present,
	// before both hold invoices are created and paid.
	PhaseExchangingInvoices
	// PhaseWaitingForAction is entered inside Play once invoices are
	// exchanged and the opponent's invoice is paid, before the commitment
	// is submitted.
	PhaseWaitingForAction
	// PhaseCommitted is entered once this player's commitment has been
	// submitted to the Oracle.
	PhaseCommitted
	// PhaseRevealed is entered once this player has revealed, but the
	// Oracle hasn't judged the game yet (opponent hasn't revealed).
	PhaseRevealed
	// PhaseWaitingForResult is entered once the Oracle reports the
	// game Completed.
	PhaseWaitingForResult
	// PhaseSettled is terminal: Settle has run to completion.
	PhaseSettled
)

// String renders the phase for logging.
func (p Phase) String() string {
	switch p {
	case PhaseWaitingForOpponent:
		return "waiting_for_opponent"
	case PhaseExchangingInvoices:
		return "exchanging_invoices"
	case PhaseWaitingForAction:
		return "waiting_for_action"
	case PhaseCommitted:
		return "committed"
	case PhaseRevealed:
		return "revealed"
	case PhaseWaitingForResult:
		return "waiting_for_result"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// gameSession is this player's private view of a single game. Service
// holds the single lock guarding every session.
type gameSession struct {
	gameID      protocol.GameID
	role        protocol.Player
	gameType    games.Type
	stakeAmount uint64

	preimage    crypto.Preimage
	paymentHash crypto.PaymentHash
	salt        crypto.Salt
	action      games.Action

	opponentPaymentHash *crypto.PaymentHash
	opponentPreimage    *crypto.Preimage

	ownInvoice      *fiber.HoldInvoice
	opponentInvoice *fiber.HoldInvoice
	paidOpponent    bool

	result *protocol.Result
	phase  Phase
}
