package cache

import "strings"

const (
	GlobalKeyPrefix = "quizquest"
)

// GenerateCacheKey builds prefix:service:type:identifier, with paramsKey
// joined by "_" appended as a final segment when given.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// RevokedTokenKey is where a logged-out token id is remembered until it expires.
func RevokedTokenKey(tokenID string) string {
	return GenerateCacheKey("auth", "revoked", tokenID)
}
