package crypto

// EncryptedPreimage is a preimage masked by the hash of a SignaturePoint:
//
//	encrypted = preimage XOR H(sig_point)
//
// Encryption and decryption are the same XOR operation; only the party who
// learns the discrete log behind the correct SignaturePoint (because the
// Oracle signed that particular outcome) can recover the original preimage.
type EncryptedPreimage [PreimageSize]byte

// EncryptPreimage masks a preimage with the given signature point.
func EncryptPreimage(p Preimage, s SignaturePoint) EncryptedPreimage {
	mask := s.Hash()

	var out EncryptedPreimage
	for i := range out {
		out[i] = p[i] ^ mask[i]
	}
	return out
}

// Decrypt unmasks this ciphertext using the given signature point. If the
// point does not match the one used to encrypt, the result is not the
// original preimage.
func (e EncryptedPreimage) Decrypt(s SignaturePoint) Preimage {
	mask := s.Hash()

	var out Preimage
	for i := range out {
		out[i] = e[i] ^ mask[i]
	}
	return out
}

// String returns the lowercase, "0x"-prefixed hex encoding of the
// ciphertext.
func (e EncryptedPreimage) String() string {
	return encodeFixed(e[:])
}

// NewEncryptedPreimageFromHex parses an EncryptedPreimage from a hex
// string, with or without a "0x" prefix.
func NewEncryptedPreimageFromHex(s string) (EncryptedPreimage, error) {
	b, err := decodeFixed(s, PreimageSize)
	if err != nil {
		return EncryptedPreimage{}, err
	}

	var out EncryptedPreimage
	copy(out[:], b)
	return out, nil
}
