/*
Package randx provides random identifiers and seeds.

Identifiers (session and message IDs) are UUID v4 strings. Deck shuffling draws
from a math/rand/v2 generator whose seed comes from crypto/rand here.
*/
package randx

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"

	"github.com/google/uuid"
)

// SessionID generates the identifier of a table session.
// Reconnection tokens are bound to it.
func SessionID() string {
	return uuid.NewString()
}

// MessageID generates a standard UUID v4 string to identify an outbound message.
func MessageID() string {
	return uuid.New().String()
}

// NewRand returns a PCG generator seeded from crypto/rand.
func NewRand() (*mrand.Rand, error) {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}

	src := mrand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
	return mrand.New(src), nil
}
