package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/google/uuid"
)

// Outcome labels used as the fourth input to SignaturePoint computation and
// as the Oracle's signed result string. They must match byte-for-byte
// between the Oracle and both Players.
const (
	OutcomeAWins = "A wins"
	OutcomeBWins = "B wins"
	OutcomeDraw  = "Draw"
)

// SignaturePoint is the adaptor-signature point for one possible game
// outcome:
//
//	S = R + H(R || O || game_id || result) * O
//
// where R is the Oracle's per-game nonce point and O is the Oracle's
// long-term public key. The discrete log of S becomes known to whichever
// party the Oracle addresses its signature to for that outcome; this is
// what lets the winner alone recover the loser's preimage.
type SignaturePoint struct {
	pub *btcec.PublicKey
}

// ComputeSignaturePoint computes the signature point for a single outcome.
func ComputeSignaturePoint(oraclePub, noncePub *btcec.PublicKey, gameID uuid.UUID,
	result string) (SignaturePoint, error) {

	h := sha256.New()
	h.Write(noncePub.SerializeCompressed())
	h.Write(oraclePub.SerializeCompressed())
	h.Write(gameID[:])
	h.Write([]byte(result))
	challenge := h.Sum(nil)

	var e btcec.ModNScalar
	e.SetByteSlice(challenge)

	// tweaked = e * O
	var oracleJ btcec.JacobianPoint
	oraclePub.AsJacobian(&oracleJ)

	var tweakedJ btcec.JacobianPoint
	btcec.ScalarMultNonConst(&e, &oracleJ, &tweakedJ)

	// combined = R + tweaked
	var nonceJ btcec.JacobianPoint
	noncePub.AsJacobian(&nonceJ)

	var combinedJ btcec.JacobianPoint
	btcec.AddNonConst(&nonceJ, &tweakedJ, &combinedJ)
	combinedJ.ToAffine()

	pub := btcec.NewPublicKey(&combinedJ.X, &combinedJ.Y)

	return SignaturePoint{pub: pub}, nil
}

// SignaturePoints holds the three outcome points for a single game.
type SignaturePoints struct {
	AWins SignaturePoint
	BWins SignaturePoint
	Draw  SignaturePoint
}

// ComputeSignaturePoints computes the signature points for all three
// possible outcomes of a game.
func ComputeSignaturePoints(oraclePub, noncePub *btcec.PublicKey,
	gameID uuid.UUID) (SignaturePoints, error) {

	aWins, err := ComputeSignaturePoint(oraclePub, noncePub, gameID, OutcomeAWins)
	if err != nil {
		return SignaturePoints{}, fmt.Errorf("a_wins point: %w", err)
	}
	bWins, err := ComputeSignaturePoint(oraclePub, noncePub, gameID, OutcomeBWins)
	if err != nil {
		return SignaturePoints{}, fmt.Errorf("b_wins point: %w", err)
	}
	draw, err := ComputeSignaturePoint(oraclePub, noncePub, gameID, OutcomeDraw)
	if err != nil {
		return SignaturePoints{}, fmt.Errorf("draw point: %w", err)
	}

	return SignaturePoints{AWins: aWins, BWins: bWins, Draw: draw}, nil
}

// PubKey returns the underlying secp256k1 point.
func (s SignaturePoint) PubKey() *btcec.PublicKey {
	return s.pub
}

// Bytes returns the 33-byte compressed serialization of the point.
func (s SignaturePoint) Bytes() [33]byte {
	var out [33]byte
	copy(out[:], s.pub.SerializeCompressed())
	return out
}

// Hash returns SHA256(compressed point bytes), the XOR mask used for
// EncryptedPreimage.
func (s SignaturePoint) Hash() [32]byte {
	return sha256.Sum256(s.pub.SerializeCompressed())
}

// String returns the lowercase, "0x"-prefixed hex encoding of the
// compressed point.
func (s SignaturePoint) String() string {
	b := s.Bytes()
	return encodeFixed(b[:])
}

// Equal reports whether two signature points are the same curve point.
func (s SignaturePoint) Equal(other SignaturePoint) bool {
	return s.pub.IsEqual(other.pub)
}
