package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// GameCodeAlphabet leaves out 0/O and 1/I.
	GameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	GameCodeLength   = 6

	maxCodeAttempts = 20
)

// CodeGenerator produces candidate join codes.
type CodeGenerator func() (string, error)

func GenerateGameCode() (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(GameCodeAlphabet)))
	for i := 0; i < GameCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate game code: %w", err)
		}
		sb.WriteByte(GameCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeGameCode upper-cases and trims user-entered codes.
func NormalizeGameCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidGameCode(code string) bool {
	if len(code) != GameCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(GameCodeAlphabet, r) {
			return false
		}
	}
	return true
}
