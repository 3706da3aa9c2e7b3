package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// keyVersion changes whenever a cached encoding (snapshot, move record,
// layout) changes shape, so stale entries are never decoded.
const keyVersion = "v1"

// hashKey builds "<stage>:v1:<sha256 of the JSON-encoded parts>".
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return stage + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
