package authlane

import "strings"

// testKeyPrefix marks development/staging API credentials. The middleware is
// more forgiving about missing cookies under these keys (it serves the
// interstitial instead of signing the request out).
const testKeyPrefix = "test_"

// IsDevelopmentOrStaging reports whether apiKey is a test/staging credential.
func IsDevelopmentOrStaging(apiKey string) bool {
	return strings.HasPrefix(apiKey, testKeyPrefix)
}

// IsProduction reports whether apiKey is a production credential.
func IsProduction(apiKey string) bool {
	return !IsDevelopmentOrStaging(apiKey)
}
