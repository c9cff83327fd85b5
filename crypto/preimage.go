package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// PreimageSize is the length in bytes of a Preimage and a PaymentHash.
const PreimageSize = 32

// Preimage is the 32-byte secret that unlocks a hold invoice. It is owned
// exclusively by its creator until the settlement step, at which point it is
// revealed to exactly one counterparty.
type Preimage [PreimageSize]byte

// RandomPreimage generates a new Preimage using a cryptographically secure
// random source.
func RandomPreimage() (Preimage, error) {
	var p Preimage
	if _, err := rand.Read(p[:]); err != nil {
		return Preimage{}, fmt.Errorf("unable to generate preimage: %w", err)
	}
	return p, nil
}

// PaymentHash computes the PaymentHash that corresponds to this preimage.
func (p Preimage) PaymentHash() PaymentHash {
	return PaymentHash(sha256.Sum256(p[:]))
}

// String returns the lowercase, "0x"-prefixed hex encoding of the preimage.
func (p Preimage) String() string {
	return encodeFixed(p[:])
}

// NewPreimageFromHex parses a Preimage from a hex string, with or without a
// "0x" prefix.
func NewPreimageFromHex(s string) (Preimage, error) {
	b, err := decodeFixed(s, PreimageSize)
	if err != nil {
		return Preimage{}, err
	}

	var p Preimage
	copy(p[:], b)
	return p, nil
}
