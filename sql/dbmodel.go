package sql

import "time"

// Row types persisted through rel. Table and column names follow the rel
// conventions (pluralized snake case).

type ServiceProvider struct {
	// the SP entity id, stable key of the trust entry
	ID                         string
	DisplayName                string
	MetadataUrl                string
	Description                string
	AgreementScreen            bool
	AgreementConsentForm       bool
	AgreementMessage           string
	SigningAlgorithm           string
	DigestAlgorithm            string
	DisableEncryptedAssertions bool
	AttributeProcessor         string
	AttributeMapping           string
	ForceAttributeRelease      bool
	IsValid                    bool
	IsActive                   bool
	LastSeen                   *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

type MetadataSource struct {
	ID        int64
	Name      string
	Kind      string
	Url       string
	File      string
	Kwargs    string
	IsValid   bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AgreementRecord struct {
	ID         int64
	User       string
	SpEntityId string
	Attrs      string
	CreatedAt  time.Time
}

type PersistentIdentifier struct {
	ID           int64
	User         string
	SpEntityId   string
	PersistentId string
	CreatedAt    time.Time
}
