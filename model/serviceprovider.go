package model

import (
	"encoding/json"
	"time"
)

// Name of the attribute processor applied when an SP does not configure one.
const DefaultProcessor = "base"

// xmldsig signing algorithm identifiers allowed for assertion signing.
const (
	SigRsaSha1   = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	SigRsaSha224 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha224"
	SigRsaSha256 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	SigRsaSha384 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha384"
	SigRsaSha512 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha512"
)

// xmldsig digest algorithm identifiers allowed for assertion digests.
const (
	DigestSha1      = "http://www.w3.org/2000/09/xmldsig#sha1"
	DigestSha224    = "http://www.w3.org/2001/04/xmldsig-more#sha224"
	DigestSha256    = "http://www.w3.org/2001/04/xmlenc#sha256"
	DigestSha384    = "http://www.w3.org/2001/04/xmldsig-more#sha384"
	DigestSha512    = "http://www.w3.org/2001/04/xmlenc#sha512"
	DigestRipemd160 = "http://www.w3.org/2001/04/xmlenc#ripemd160"
)

var allowedSigningAlgorithms = []string{SigRsaSha1, SigRsaSha224, SigRsaSha256, SigRsaSha384, SigRsaSha512}

var allowedDigestAlgorithms = []string{DigestSha1, DigestSha224, DigestSha256, DigestSha384, DigestSha512, DigestRipemd160}

// DefaultAttributeMapping maps the internal attribute names to themselves. Used
// when an SP is created without an explicit mapping.
var DefaultAttributeMapping = map[string]string{
	"email":        "email",
	"first_name":   "first_name",
	"last_name":    "last_name",
	"is_staff":     "is_staff",
	"is_superuser": "is_superuser",
}

// ServiceProvider is one federated SP trust entry. EntityId is the stable,
// globally unique key. IsActive may only be true while IsValid is true; both
// flags are written together by the validation engine.
type ServiceProvider struct {
	EntityId                   string     `json:"entityId"`
	DisplayName                string     `json:"displayName"`
	MetadataUrl                string     `json:"metadataUrl,omitempty"`
	Description                string     `json:"description,omitempty"`
	AgreementScreen            bool       `json:"agreementScreen"`
	AgreementConsentForm       bool       `json:"agreementConsentForm"`
	AgreementMessage           string     `json:"agreementMessage,omitempty"`
	SigningAlgorithm           string     `json:"signingAlgorithm,omitempty"`
	DigestAlgorithm            string     `json:"digestAlgorithm,omitempty"`
	DisableEncryptedAssertions bool       `json:"disableEncryptedAssertions"`
	AttributeProcessor         string     `json:"attributeProcessor,omitempty"`
	AttributeMapping           string     `json:"attributeMapping,omitempty"`
	ForceAttributeRelease      bool       `json:"forceAttributeRelease"`
	IsValid                    bool       `json:"isValid"`
	IsActive                   bool       `json:"isActive"`
	Created                    time.Time  `json:"created,omitempty"`
	Updated                    time.Time  `json:"updated,omitempty"`
	LastSeen                   *time.Time `json:"lastSeen,omitempty"`
}

// SPConfig is the projection of an active SP consumed by the protocol-library
// binding. Field names follow the wire contract of the configuration snapshot.
type SPConfig struct {
	Processor                   string            `json:"processor"`
	AttributeMapping            map[string]string `json:"attribute_mapping"`
	ForceAttributeRelease       bool              `json:"force_attribute_release"`
	DisplayName                 string            `json:"display_name"`
	DisplayDescription          string            `json:"display_description"`
	DisplayAgreementMessage     string            `json:"display_agreement_message"`
	SigningAlgorithm            string            `json:"signing_algorithm"`
	DigestAlgorithm             string            `json:"digest_algorithm"`
	DisableEncryptedAssertions  bool              `json:"disable_encrypted_assertions"`
	ShowUserAgreementScreen     bool              `json:"show_user_agreement_screen"`
	DisplayAgreementConsentForm bool              `json:"display_agreement_consent_form"`
}

// ParseAttributeMapping parses the serialized attribute mapping of an SP.
func ParseAttributeMapping(serialized string) (mapping map[string]string, err error) {
	err = json.Unmarshal([]byte(serialized), &mapping)
	return mapping, err
}

// SerializeAttributeMapping is the inverse of ParseAttributeMapping.
func SerializeAttributeMapping(mapping map[string]string) (string, error) {
	serialized, err := json.Marshal(mapping)
	return string(serialized), err
}

func IsAllowedSigningAlgorithm(algorithm string) bool {
	return containsString(allowedSigningAlgorithms, algorithm)
}

func IsAllowedDigestAlgorithm(algorithm string) bool {
	return containsString(allowedDigestAlgorithms, algorithm)
}

func containsString(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
