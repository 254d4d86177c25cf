package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// GenerateNumericCode returns length uniformly random decimal digits.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}
	// 250 is the largest multiple of 10 below 256; higher bytes are
	// discarded so every digit is equally likely.
	digits := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(digits) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate digits: %w", err)
		}
		for _, b := range buf {
			if b >= 250 || len(digits) == length {
				continue
			}
			digits = append(digits, '0'+b%10)
		}
	}
	return string(digits), nil
}
