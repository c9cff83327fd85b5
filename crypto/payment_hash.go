package crypto

// PaymentHash is the SHA-256 digest of a Preimage. It is freely shareable;
// possession of the hash alone does not reveal the preimage.
type PaymentHash [PreimageSize]byte

// Verify reports whether the given preimage hashes to this PaymentHash.
func (h PaymentHash) Verify(p Preimage) bool {
	return p.PaymentHash() == h
}

// String returns the lowercase, "0x"-prefixed hex encoding of the hash.
func (h PaymentHash) String() string {
	return encodeFixed(h[:])
}

// NewPaymentHashFromHex parses a PaymentHash from a hex string, with or
// without a "0x" prefix.
func NewPaymentHashFromHex(s string) (PaymentHash, error) {
	b, err := decodeFixed(s, PreimageSize)
	if err != nil {
		return PaymentHash{}, err
	}

	var h PaymentHash
	copy(h[:], b)
	return h, nil
}
