package identity

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
)

var (
	// idReader is used for random id generation. This declaration allows us to
	// replace it for testing.
	idReader = cryptorand.Reader
)

// parameters for random identifier generation.
const (
	randomIDEntropyBytes = 17
	randomIDBase         = 36

	// All identifiers are padded out or truncated to 25 characters, the
	// length of floor(log(2^128-1, 36)) + 1. The extra byte of entropy fills
	// the high bits so the first character is evenly distributed.
	maxRandomIDLength = 25
)

// NewID generates a new identifier for use where random identifiers with low
// collision probability are required.
func NewID() string {
	var p [randomIDEntropyBytes]byte

	if _, err := io.ReadFull(idReader, p[:]); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}

	p[0] |= 0x80 // set high bit to avoid the need for padding
	return (&big.Int{}).SetBytes(p[:]).Text(randomIDBase)[1 : maxRandomIDLength+1]
}

// NewUUID returns a random (version 4) UUID in its canonical 36 character
// form. Binding identifiers are UUIDs.
func NewUUID() string {
	id, err := uuid.NewRandomFromReader(idReader)
	if err != nil {
		panic(fmt.Errorf("failed to generate uuid: %v", err))
	}
	return id.String()
}

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
