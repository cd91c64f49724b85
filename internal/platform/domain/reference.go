package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReference returns a human-readable reference such as "RR-7KQ2MX".
func GenerateReference(prefix string) (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate %s reference: %w", prefix, err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return prefix + "-" + string(result), nil
}
