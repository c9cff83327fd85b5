package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SaltSize is the length in bytes of a Salt.
const SaltSize = 32

// Salt is the per-action randomness mixed into a Commitment to defeat
// dictionary attacks against the (small) action space of a game.
type Salt [SaltSize]byte

// RandomSalt generates a new Salt using a cryptographically secure random
// source.
func RandomSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return Salt{}, fmt.Errorf("unable to generate salt: %w", err)
	}
	return s, nil
}

// String returns the lowercase, "0x"-prefixed hex encoding of the salt.
func (s Salt) String() string {
	return encodeFixed(s[:])
}

// NewSaltFromHex parses a Salt from a hex string, with or without a "0x"
// prefix.
func NewSaltFromHex(s string) (Salt, error) {
	b, err := decodeFixed(s, SaltSize)
	if err != nil {
		return Salt{}, err
	}

	var out Salt
	copy(out[:], b)
	return out, nil
}

// CommitmentSize is the length in bytes of a Commitment.
const CommitmentSize = 32

// Commitment binds a party to an action before it is revealed:
// Commitment = SHA256(actionBytes || salt). It is binding (collision
// resistant) and hiding given the salt's entropy.
type Commitment [CommitmentSize]byte

// NewCommitment computes the commitment for the given action bytes and
// salt.
func NewCommitment(actionBytes []byte, salt Salt) Commitment {
	h := sha256.New()
	h.Write(actionBytes)
	h.Write(salt[:])

	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

// Verify reports whether the given action bytes and salt reproduce this
// commitment.
func (c Commitment) Verify(actionBytes []byte, salt Salt) bool {
	return c == NewCommitment(actionBytes, salt)
}

// String returns the lowercase, "0x"-prefixed hex encoding of the
// commitment.
func (c Commitment) String() string {
	return encodeFixed(c[:])
}

// NewCommitmentFromHex parses a Commitment from a hex string, with or
// without a "0x" prefix.
func NewCommitmentFromHex(s string) (Commitment, error) {
	b, err := decodeFixed(s, CommitmentSize)
	if err != nil {
		return Commitment{}, err
	}

	var c Commitment
	copy(c[:], b)
	return c, nil
}
