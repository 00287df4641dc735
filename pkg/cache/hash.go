package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key returns "prefix:" followed by the hex SHA-256 of parts encoded as a
// JSON array. Equal parts always give equal keys. Key panics when a part
// cannot be encoded as JSON (a channel or func, say), since two such keys
// would otherwise collide.
func Key(prefix string, parts ...any) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(parts); err != nil {
		panic(fmt.Sprintf("cache: key %q: %v", prefix, err))
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
