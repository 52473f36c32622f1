package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := gojson.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashValue hashes the JSON encoding of v.
func HashValue(v any) (string, error) {
	data, err := gojson.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
