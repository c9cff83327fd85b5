package oracle

import (
	"crypto/sha256"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/protocol"
)

// CreatedGame is returned by CreateGame: the cryptographic material the
// joining player needs before either side exchanges payment hashes.
type CreatedGame struct {
	GameID           protocol.GameID
	OraclePubKey     *btcec.PublicKey
	NoncePoint       *btcec.PublicKey
	OracleCommitment *[32]byte
}

// JoinedGame is returned by JoinGame, mirroring CreatedGame plus the game
// parameters B needs to start play.
type JoinedGame struct {
	OraclePubKey     *btcec.PublicKey
	NoncePoint       *btcec.PublicKey
	OracleCommitment *[32]byte
	GameType         games.Type
	StakeAmount      uint64
}

// ResultView is the response to GetResult. PreimageForWinner is set only
// when the caller's role matches the winning side; both sides see it unset
// on a draw.
type ResultView struct {
	Status            protocol.Status
	Result            *protocol.Result
	Signature         *[64]byte
	PreimageForWinner *crypto.Preimage
}

// StatusView is the response to the cheap-polling GetGameStatus call.
type StatusView struct {
	Status      protocol.Status
	HasOpponent bool
}

// Service is the Oracle core: it owns a long-term keypair and mediates
// every game session it creates, never touching player funds directly.
type Service struct {
	mu sync.Mutex

	privKey *btcec.PrivateKey
	pubKey  *btcec.PublicKey

	sessions map[protocol.GameID]*gameSession
}

// NewService generates a fresh long-term Oracle keypair and returns an
// empty Service.
func NewService() (*Service, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}

	return &Service{
		privKey:  priv,
		pubKey:   priv.PubKey(),
		sessions: make(map[protocol.GameID]*gameSession),
	}, nil
}

// PubKey returns the Oracle's long-term public key.
func (s *Service) PubKey() *btcec.PublicKey {
	return s.pubKey
}

func (s *Service) session(gameID protocol.GameID) (*gameSession, error) {
	session, ok := s.sessions[gameID]
	if !ok {
		return nil, &protocol.GameNotFoundError{GameID: gameID}
	}
	return session, nil
}

// CreateGame mints a fresh per-game nonce keypair, samples an Oracle
// secret if the game type needs one, and creates the session in
// WaitingForOpponent.
func (s *Service) CreateGame(gameType games.Type, aID string, stakeAmount uint64) (CreatedGame, error) {
	nonceSecret, err := btcec.NewPrivateKey()
	if err != nil {
		return CreatedGame{}, err
	}

	session := &gameSession{
		gameID:      protocol.NewGameID(),
		gameType:    gameType,
		stakeAmount: stakeAmount,
		status:      protocol.StatusWaitingForOpponent,
		nonceSecret: nonceSecret,
		noncePoint:  nonceSecret.PubKey(),
		createdAt:   time.Now(),
	}
	session.slots[protocol.PlayerA].callerID = aID

	var commitment *[32]byte
	if gameType.RequiresOracleSecret() {
		secret, err := games.RandomOracleSecret()
		if err != nil {
			return CreatedGame{}, err
		}
		c := secret.Commitment()
		session.oracleSecret = &secret
		session.oracleCommitment = &c
		commitment = &c
	}

	s.mu.Lock()
	s.sessions[session.gameID] = session
	s.mu.Unlock()

	log.Infof("Oracle: created game %s type=%s stake=%v", session.gameID, gameType, stakeAmount)

	return CreatedGame{
		GameID:           session.gameID,
		OraclePubKey:     s.pubKey,
		NoncePoint:       session.noncePoint,
		OracleCommitment: commitment,
	}, nil
}

// JoinGame transitions a game from WaitingForOpponent to InProgress.
func (s *Service) JoinGame(gameID protocol.GameID, bID string) (JoinedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return JoinedGame{}, err
	}

	if session.status != protocol.StatusWaitingForOpponent {
		return JoinedGame{}, &protocol.WrongPhaseError{
			GameID: gameID, Phase: session.status.String(), Wanted: protocol.StatusWaitingForOpponent.String(),
		}
	}

	session.slots[protocol.PlayerB].callerID = bID
	session.status = protocol.StatusInProgress

	log.Infof("Oracle: game %s joined by %s", gameID, bID)

	return JoinedGame{
		OraclePubKey:     s.pubKey,
		NoncePoint:       session.noncePoint,
		OracleCommitment: session.oracleCommitment,
		GameType:         session.gameType,
		StakeAmount:      session.stakeAmount,
	}, nil
}

// SubmitPaymentHash stores a player's payment hash and preimage. The
// Oracle holds the preimage in escrow and releases it only to the winner
// in GetResult.
func (s *Service) SubmitPaymentHash(gameID protocol.GameID, player protocol.Player, hash crypto.PaymentHash, preimage crypto.Preimage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}

	slot := session.slot(player)
	slot.paymentHash = &hash
	slot.preimage = &preimage
	return nil
}

// GetPaymentHash returns a player's previously submitted payment hash.
func (s *Service) GetPaymentHash(gameID protocol.GameID, player protocol.Player) (crypto.PaymentHash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return crypto.PaymentHash{}, err
	}

	slot := session.slot(player)
	if slot.paymentHash == nil {
		return crypto.PaymentHash{}, errors.New("oracle: payment hash not yet submitted")
	}
	return *slot.paymentHash, nil
}

// SubmitInvoice stores a player's invoice string.
func (s *Service) SubmitInvoice(gameID protocol.GameID, player protocol.Player, invoiceString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}

	session.slot(player).invoiceString = invoiceString
	return nil
}

// GetInvoice returns a player's previously submitted invoice string.
func (s *Service) GetInvoice(gameID protocol.GameID, player protocol.Player) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return "", err
	}

	slot := session.slot(player)
	if slot.invoiceString == "" {
		return "", errors.New("oracle: invoice not yet submitted")
	}
	return slot.invoiceString, nil
}

// SubmitCommitment stores a player's commitment. A later call overwrites
// an earlier one as long as the game hasn't reached Completed; see
// DESIGN.md for why duplicate submission is allowed rather than rejected.
func (s *Service) SubmitCommitment(gameID protocol.GameID, player protocol.Player, commitment crypto.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}
	if session.status == protocol.StatusCompleted {
		return &protocol.WrongPhaseError{
			GameID: gameID, Phase: session.status.String(), Wanted: protocol.StatusInProgress.String(),
		}
	}

	session.slot(player).commitment = &commitment
	return nil
}

// SubmitReveal verifies a player's revealed action against their stored
// commitment. Once both players have revealed, the judge runs and the
// session advances to Completed.
func (s *Service) SubmitReveal(
	gameID protocol.GameID, player protocol.Player, action games.Action, salt crypto.Salt,
	claimedCommitment crypto.Commitment,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return err
	}
	if session.status == protocol.StatusCompleted {
		return &protocol.WrongPhaseError{
			GameID: gameID, Phase: session.status.String(), Wanted: protocol.StatusInProgress.String(),
		}
	}

	slot := session.slot(player)
	if slot.commitment == nil {
		return &protocol.WrongPhaseError{GameID: gameID, Phase: "no_commitment", Wanted: "committed"}
	}
	if claimedCommitment != *slot.commitment {
		return &protocol.CommitmentMismatchError{GameID: gameID, Player: player}
	}
	if !action.Validate(session.gameType) {
		return &protocol.RevealMismatchError{GameID: gameID, Player: player}
	}
	if !slot.commitment.Verify(action.Bytes(), salt) {
		return &protocol.RevealMismatchError{GameID: gameID, Player: player}
	}

	slot.revealAction = action
	slot.revealSalt = &salt
	slot.revealed = true

	if !session.bothRevealed() {
		return nil
	}

	return s.judgeAndComplete(session)
}

// judgeAndComplete runs the game's judge once both reveals are present.
// Caller must hold s.mu.
func (s *Service) judgeAndComplete(session *gameSession) error {
	judge := games.JudgeFor(session.gameType)

	result, err := judge.Judge(
		session.slots[protocol.PlayerA].revealAction,
		session.slots[protocol.PlayerB].revealAction,
		session.oracleSecret,
	)
	if err != nil {
		return err
	}

	session.result = &result
	session.status = protocol.StatusCompleted
	session.signature = computeSignature(session.gameID, result)

	log.Infof("Oracle: game %s completed result=%s", session.gameID, result)

	return nil
}

// computeSignature produces the deterministic 64-byte placeholder the
// reference source uses: the first 32 bytes are SHA-256(game_id ‖ ":" ‖
// result_label), the last 32 are zero. See DESIGN.md for why this, rather
// than a real Schnorr signature over SignaturePoint, is what Service
// returns for parity with the reference implementation.
func computeSignature(gameID protocol.GameID, result protocol.Result) [64]byte {
	h := sha256.New()
	h.Write(gameID[:])
	h.Write([]byte(":"))
	h.Write([]byte(result.String()))

	var sig [64]byte
	copy(sig[:32], h.Sum(nil))
	return sig
}

// GetResult returns the current outcome view for a game. The caller's own
// role determines whether PreimageForWinner is populated: it is the
// opponent's preimage, handed over only when this call is made as the
// winning side.
func (s *Service) GetResult(gameID protocol.GameID, caller protocol.Player) (ResultView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return ResultView{}, err
	}

	view := ResultView{Status: session.status}
	if session.result == nil {
		return view, nil
	}

	view.Result = session.result
	sig := session.signature
	view.Signature = &sig

	winner, ok := winningPlayer(*session.result)
	if ok && winner == caller {
		loser := caller.Opponent()
		view.PreimageForWinner = session.slots[loser].preimage
	}

	return view, nil
}

func winningPlayer(r protocol.Result) (protocol.Player, bool) {
	switch r {
	case protocol.AWins:
		return protocol.PlayerA, true
	case protocol.BWins:
		return protocol.PlayerB, true
	default:
		return 0, false
	}
}

// GetGameStatus is a cheap polling endpoint exposing only status and
// whether an opponent has joined.
func (s *Service) GetGameStatus(gameID protocol.GameID) (StatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return StatusView{}, err
	}

	return StatusView{
		Status:      session.status,
		HasOpponent: session.hasOpponent(),
	}, nil
}

// DebugSession dumps a session's internal state for diagnostics. Not part
// of the public game protocol.
func (s *Service) DebugSession(gameID protocol.GameID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(gameID)
	if err != nil {
		return "", err
	}
	return spew.Sdump(session), nil
}
