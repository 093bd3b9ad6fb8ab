package utils

import (
	"os"
	"strings"
)

// GCS is the only provider the upload flow supports today; the env var
// exists so a second provider can be introduced without an API change.
const StorageProviderGCS = "gcs"

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderGCS
	}
	return provider
}
