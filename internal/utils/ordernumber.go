package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber produces a human-readable order number of the form
// FG-<year>-<5-digit zero-padded random>. The random suffix alone is not
// unique; callers verify against the order_number unique index and retry.
func GenerateOrderNumber() (string, error) {
	max := big.NewInt(100000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FG-%d-%05d", time.Now().Year(), n.Int64()), nil
}
