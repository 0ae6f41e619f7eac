package config

import (
	"os"
	"strconv"
	"time"

	"github.com/uniauth/saml-idp-core/logging"
)

var logger = logging.Log()

// Config provides the settings consumed by the trust and policy core. An
// implementation has to be threaded into the components at construction,
// there is no implicit global settings access.
type Config interface {
	// Hours a recorded user agreement stays valid. Zero or negative means
	// agreements never expire.
	AgreementValidityHours() int
	// True when uploaded metadata files live in an object store and have to
	// be addressed by URL instead of a local path.
	ObjectStorageEnabled() bool
	// Base directory respectively base URL for uploaded metadata files.
	MediaDir() string
	MediaUrl() string
	// Timeout applied to remote and mdq reachability checks.
	MetadataRequestTimeout() time.Duration
}

type EnvConfig struct{}

func (EnvConfig) AgreementValidityHours() int {
	validityEnv := os.Getenv("AGREEMENT_VALIDITY_HOURS")
	if validityEnv == "" {
		return 0
	}
	validityHours, err := strconv.Atoi(validityEnv)
	if err != nil {
		logger.Warnf("Invalid AGREEMENT_VALIDITY_HOURS %s, agreements will not expire.", validityEnv)
		return 0
	}
	return validityHours
}

func (EnvConfig) ObjectStorageEnabled() bool {
	objectStorage, err := strconv.ParseBool(os.Getenv("OBJECT_STORAGE_ENABLED"))
	if err != nil {
		return false
	}
	return objectStorage
}

func (EnvConfig) MediaDir() string {
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		logger.Warnf("No media dir configured, use the working directory.")
		return "."
	}
	return mediaDir
}

func (EnvConfig) MediaUrl() string {
	return os.Getenv("MEDIA_URL")
}

func (EnvConfig) MetadataRequestTimeout() time.Duration {
	timeoutEnv := os.Getenv("METADATA_REQUEST_TIMEOUT_SECONDS")
	if timeoutEnv == "" {
		return 30 * time.Second
	}
	timeoutSeconds, err := strconv.Atoi(timeoutEnv)
	if err != nil || timeoutSeconds <= 0 {
		logger.Warnf("Invalid METADATA_REQUEST_TIMEOUT_SECONDS %s, use the 30s default.", timeoutEnv)
		return 30 * time.Second
	}
	return time.Duration(timeoutSeconds) * time.Second
}
