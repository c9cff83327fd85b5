package player

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/fiber"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/oracle"
	"github.com/lightningnetwork/fibergame/protocol"
)

// OracleClient is the subset of the Oracle's public contract a Player
// needs. Defining it here, rather than depending on *oracle.Service
// directly, lets tests substitute a stub Oracle without standing up the
// real one.
type OracleClient interface {
	CreateGame(gameType games.Type, callerID string, stakeAmount uint64) (oracle.CreatedGame, error)
	JoinGame(gameID protocol.GameID, callerID string) (oracle.JoinedGame, error)
	SubmitPaymentHash(gameID protocol.GameID, player protocol.Player, hash crypto.PaymentHash, preimage crypto.Preimage) error
	GetPaymentHash(gameID protocol.GameID, player protocol.Player) (crypto.PaymentHash, error)
	SubmitInvoice(gameID protocol.GameID, player protocol.Player, invoiceString string) error
	GetInvoice(gameID protocol.GameID, player protocol.Player) (string, error)
	SubmitCommitment(gameID protocol.GameID, player protocol.Player, commitment crypto.Commitment) error
	SubmitReveal(gameID protocol.GameID, player protocol.Player, action games.Action, salt crypto.Salt, claimedCommitment crypto.Commitment) error
	GetResult(gameID protocol.GameID, caller protocol.Player) (oracle.ResultView, error)
	GetGameStatus(gameID protocol.GameID) (oracle.StatusView, error)
}

// Service drives one local player's side of any number of concurrent
// games, against a single Oracle and a single Fiber node.
type Service struct {
	mu sync.Mutex

	playerID string
	oracleC  OracleClient
	fiberC   fiber.Client

	sessions map[protocol.GameID]*gameSession
}

// NewService returns a Service acting as playerID, driving games through
// oracleC and settling through fiberC.
func NewService(playerID string, oracleC OracleClient, fiberC fiber.Client) *Service {
	return &Service{
		playerID: playerID,
		oracleC:  oracleC,
		fiberC:   fiberC,
		sessions: make(map[protocol.GameID]*gameSession),
	}
}

func (s *Service) session(gameID protocol.GameID) (*gameSession, error) {
	session, ok := s.sessions[gameID]
	if !ok {
		return nil, &protocol.GameNotFoundError{GameID: gameID}
	}
	return session, nil
}

// CreateGame starts a new game as PlayerA: mints a preimage, registers the
// session with the Oracle, and submits this player's payment hash.
func (s *Service) CreateGame(gameType games.Type, stakeAmount uint64) (protocol.GameID, error) {
	created, err := s.oracleC.CreateGame(gameType, s.playerID, stakeAmount)
	if err != nil {
		return protocol.GameID{}, err
	}

	if err := s.registerSelf(created.GameID, protocol.PlayerA, gameType, stakeAmount); err != nil {
		return protocol.GameID{}, err
	}

	log.Infof("Player %s: created game %s", s.playerID, created.GameID)
	return created.GameID, nil
}

// JoinGame joins an existing game as PlayerB.
func (s *Service) JoinGame(gameID protocol.GameID) error {
	joined, err := s.oracleC.JoinGame(gameID, s.playerID)
	if err != nil {
		return err
	}

	if err := s.registerSelf(gameID, protocol.PlayerB, joined.GameType, joined.StakeAmount); err != nil {
		return err
	}

	log.Infof("Player %s: joined game %s", s.playerID, gameID)
	return nil
}

// registerSelf creates the local session and submits this player's
// payment hash to the Oracle.
func (s *Service) registerSelf(gameID protocol.GameID, role protocol.Player, gameType games.Type, stakeAmount uint64) error {
	preimage, err := crypto.RandomPreimage()
	if err != nil {
		return err
	}
	paymentHash := preimage.PaymentHash()

	salt, err := crypto.RandomSalt()
	if err != nil {
		return err
	}

	if err := s.oracleC.SubmitPaymentHash(gameID, role, paymentHash, preimage); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[gameID] = &gameSession{
		gameID:      gameID,
		role:        role,
		gameType:    gameType,
		stakeAmount: stakeAmount,
		preimage:    preimage,
		paymentHash: paymentHash,
		salt:        salt,
		phase:       PhaseWaitingForOpponent,
	}
	s.mu.Unlock()

	return nil
}

// ErrOpponentNotReady is returned by Play when this player has created and
// submitted their own invoice but the opponent hasn't submitted theirs
// yet. It is retryable: call Play again with the same action once the
// opponent has made progress.
var ErrOpponentNotReady = errors.New("player: opponent has not yet submitted an invoice")

// ensureInvoicesExchanged implements step 1 of Play: fetch the opponent's
// payment hash, create this player's own invoice against it, submit that
// invoice string to the Oracle, then fetch the opponent's invoice. The
// last step can only succeed once the opponent has gone through the same
// sequence, so this is safe — and expected — to call more than once.
func (s *Service) ensureInvoicesExchanged(session *gameSession) error {
	if session.ownInvoice != nil && session.opponentInvoice != nil {
		return nil
	}

	opponent := session.role.Opponent()

	if session.ownInvoice == nil {
		opponentHash, err := s.oracleC.GetPaymentHash(session.gameID, opponent)
		if err != nil {
			return err
		}

		ownInvoice, err := s.fiberC.CreateHoldInvoice(opponentHash, session.stakeAmount, defaultInvoiceExpirySecs)
		if err != nil {
			return err
		}
		if err := s.oracleC.SubmitInvoice(session.gameID, session.role, ownInvoice.InvoiceString); err != nil {
			return err
		}

		session.opponentPaymentHash = &opponentHash
		session.ownInvoice = &ownInvoice
		session.phase = PhaseExchangingInvoices
	}

	opponentInvoiceString, err := s.oracleC.GetInvoice(session.gameID, opponent)
	if err != nil {
		return ErrOpponentNotReady
	}

	// The opponent's own invoice is bound to its opponent's payment hash
	// (the hold-invoice asymmetry invariant) — from this player's side,
	// that is this player's own payment hash.
	session.opponentInvoice = &fiber.HoldInvoice{
		PaymentHash:   session.paymentHash,
		AmountShannon: session.stakeAmount,
		InvoiceString: opponentInvoiceString,
	}
	return nil
}

// defaultInvoiceExpirySecs is the hold-invoice expiry window this player
// requests for its own invoice; the Oracle and opponent never see this
// value directly, it only bounds how long this player's funds can be
// locked before the Fiber node itself expires the hold.
const defaultInvoiceExpirySecs = 3600

// Play drives one round of the strict control flow from spec §4.5: ensure
// invoices are exchanged, pay the opponent's invoice, commit and reveal
// the chosen action.
func (s *Service) Play(gameID protocol.GameID, action games.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}
	if session.phase == PhaseSettled {
		return &protocol.WrongPhaseError{GameID: gameID, Phase: session.phase.String(), Wanted: "not settled"}
	}
	if !action.Validate(session.gameType) {
		return errors.New("player: action is not valid for this game type")
	}

	// Step 1: exchange invoices.
	if err := s.ensureInvoicesExchanged(session); err != nil {
		return err
	}

	// Step 2: pay the opponent's invoice if not already paid.
	if !session.paidOpponent {
		if _, err := s.fiberC.PayHoldInvoice(*session.opponentInvoice); err != nil {
			return err
		}
		session.paidOpponent = true
		session.phase = PhaseWaitingForAction
	}

	// Step 3: commit.
	session.action = action
	commitment := crypto.NewCommitment(action.Bytes(), session.salt)
	if err := s.oracleC.SubmitCommitment(gameID, session.role, commitment); err != nil {
		return err
	}
	session.phase = PhaseCommitted

	// Step 4: reveal.
	if err := s.oracleC.SubmitReveal(gameID, session.role, action, session.salt, commitment); err != nil {
		return err
	}

	// Step 5: advance phase per Oracle's view of the game.
	status, err := s.oracleC.GetGameStatus(gameID)
	if err != nil {
		return err
	}
	if status.Status == protocol.StatusCompleted {
		session.phase = PhaseWaitingForResult
	} else {
		session.phase = PhaseRevealed
	}

	log.Infof("Player %s: played game %s phase=%s", s.playerID, gameID, session.phase)
	return nil
}

// Settle executes the settlement branch for a completed game: the winner
// claims the opponent's stake, the loser (or both, on a draw) cancels
// their own invoice. Re-entry after Settled is rejected.
func (s *Service) Settle(gameID protocol.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}
	if session.phase == PhaseSettled {
		return fiber.ErrAlreadySettled
	}

	// A player who revealed before their opponent has no later call that
	// re-polls the Oracle, so the local phase can still read Revealed
	// even once the game has completed. Refresh it here before the
	// phase guard below.
	if session.phase != PhaseWaitingForResult {
		status, err := s.oracleC.GetGameStatus(gameID)
		if err != nil {
			return err
		}
		if status.Status == protocol.StatusCompleted {
			session.phase = PhaseWaitingForResult
		}
	}
	if session.phase != PhaseWaitingForResult {
		return &protocol.WrongPhaseError{GameID: gameID, Phase: session.phase.String(), Wanted: "waiting_for_result"}
	}

	view, err := s.oracleC.GetResult(gameID, session.role)
	if err != nil {
		return err
	}
	if view.Result == nil {
		return errors.New("player: oracle has not judged this game yet")
	}
	session.result = view.Result

	ownInvoiceHash := *session.opponentPaymentHash

	won := (session.role == protocol.PlayerA && *view.Result == protocol.AWins) ||
		(session.role == protocol.PlayerB && *view.Result == protocol.BWins)

	switch {
	case won:
		if view.PreimageForWinner == nil {
			return errors.New("player: oracle did not release opponent preimage to winner")
		}
		session.opponentPreimage = view.PreimageForWinner
		if err := s.fiberC.SettleInvoice(ownInvoiceHash, *view.PreimageForWinner); err != nil {
			return err
		}
	default:
		if err := s.fiberC.CancelInvoice(ownInvoiceHash); err != nil {
			return err
		}
	}

	session.phase = PhaseSettled
	log.Infof("Player %s: settled game %s result=%s", s.playerID, gameID, *view.Result)
	return nil
}

// var _ confirms the real Oracle satisfies the narrow interface this
// package actually depends on.
var _ OracleClient = (*oracle.Service)(nil)

// Phase reports a session's current local phase, for tests and demos.
func (s *Service) Phase(gameID protocol.GameID) (Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return 0, err
	}
	return session.phase, nil
}
