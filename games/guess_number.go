package games

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/protocol"
)

// OracleSecret is the Oracle's pre-committed target number for a
// GuessNumber game, together with the nonce used to hide it behind a
// commitment until judging time.
type OracleSecret struct {
	// SecretNumber is the Oracle's target, in [0, 100).
	SecretNumber uint8
	// Nonce randomizes the commitment so SecretNumber can't be brute
	// forced from it ahead of the reveal.
	Nonce [32]byte
}

// RandomOracleSecret generates a secret with a uniformly random target
// number and a fresh random nonce.
func RandomOracleSecret() (OracleSecret, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return OracleSecret{}, err
	}

	// Reject bytes 200..255 so the reduction mod 100 below is unbiased.
	var b [1]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return OracleSecret{}, err
		}
		if b[0] < 200 {
			break
		}
	}

	return OracleSecret{
		SecretNumber: b[0] % 100,
		Nonce:        nonce,
	}, nil
}

// NewOracleSecret builds a secret around a caller-chosen target number,
// with a freshly generated nonce. number must be in [0, 100).
func NewOracleSecret(number uint8) (OracleSecret, error) {
	if number >= 100 {
		return OracleSecret{}, errors.New("games: secret number must be in [0, 100)")
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return OracleSecret{}, err
	}

	return OracleSecret{SecretNumber: number, Nonce: nonce}, nil
}

// Commitment computes H(secret_number || nonce).
func (s OracleSecret) Commitment() [32]byte {
	h := sha256.New()
	h.Write([]byte{s.SecretNumber})
	h.Write(s.Nonce[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyCommitment reports whether s matches a previously published
// commitment.
func (s OracleSecret) VerifyCommitment(commitment [32]byte) bool {
	return s.Commitment() == commitment
}

// GuessNumberAction is a player's guess at the Oracle's secret number, in
// [0, 100).
type GuessNumberAction uint8

// Bytes returns the single-byte commitment encoding of the guess.
func (a GuessNumberAction) Bytes() []byte {
	return []byte{uint8(a)}
}

// Validate reports whether a is a legal guess and belongs to this game.
func (a GuessNumberAction) Validate(t Type) bool {
	return t == GuessNumber && uint8(a) < 100
}

// guessNumberJudge implements Judge for GuessNumber. It requires an
// Oracle secret to determine distances.
type guessNumberJudge struct{}

func distance(guess, secret uint8) uint8 {
	if guess > secret {
		return guess - secret
	}
	return secret - guess
}

func (guessNumberJudge) Judge(a, b Action, secret *OracleSecret) (protocol.Result, error) {
	guessA, ok := a.(GuessNumberAction)
	if !ok {
		return 0, ErrInvalidActionType
	}
	guessB, ok := b.(GuessNumberAction)
	if !ok {
		return 0, ErrInvalidActionType
	}
	if secret == nil {
		return 0, errors.New("games: guess_number judging requires an oracle secret")
	}

	distA := distance(uint8(guessA), secret.SecretNumber)
	distB := distance(uint8(guessB), secret.SecretNumber)

	switch {
	case distA < distB:
		return protocol.AWins, nil
	case distB < distA:
		return protocol.BWins, nil
	default:
		return protocol.Draw, nil
	}
}
