package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keySeparator joins the parts of a query key.
const keySeparator = ":"

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key joins query key parts, e.g. Key("event-logs", "7") is "event-logs:7".
func Key(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

// AutomatonKey is the key of an event log's prefix automaton.
func AutomatonKey(logID string) string {
	return Key("event-logs", logID, "prefix-automaton")
}

// ColumnsKey is the key of an event log's column list.
func ColumnsKey(logID string) string {
	return Key("event-logs", logID, "columns")
}
