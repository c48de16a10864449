package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateKey builds a deterministic key using all provided parts.
func GenerateKey(parts ...interface{}) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%v:", part)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// UpdateKey identifies one Telegram update for a user. Message updates hash
// the update ID, callback updates the callback unique ID, so a redelivered
// update maps to the same key.
func UpdateKey(userID int64, updateID int, callbackID string) string {
	if callbackID != "" {
		return GenerateKey("callback", userID, callbackID)
	}

	return GenerateKey("update", userID, updateID)
}
