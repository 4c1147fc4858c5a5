package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// NewCode generates a project code from name, e.g. "ENGINE-12345-6789".
func NewCode(name string) (string, error) {
	a, err := randInt(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", codePrefix(name), a, b), nil
}

// codePrefix keeps the first six letters or digits of name, upper cased.
func codePrefix(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(name) {
		if sb.Len() >= 6 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "PRJ"
	}
	return sb.String()
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
