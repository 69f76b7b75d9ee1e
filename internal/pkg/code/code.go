package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	codeFloor = 100000
	codeSpan  = 900000
)

// Generate returns a verification code drawn uniformly at random from
// [100000, 999999]. The leading digit is never zero, so the code is always
// exactly six characters as text.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeFloor, 10), nil
}
