package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// decodeFixed decodes a hex string of the given byte length, accepting an
// optional "0x" prefix. It rejects malformed hex and wrong-length input.
func decodeFixed(s string, n int) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("invalid length: got %d bytes, want %d", len(b), n)
	}

	return b, nil
}

// encodeFixed lowercase-hex-encodes b with a "0x" prefix, the canonical
// emission format for all 32- and 33-byte types in this package.
func encodeFixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
