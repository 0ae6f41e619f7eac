package consent

import (
	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

var logger = logging.Log()

// AgreementRepository stores the consent events. Records are append-only;
// the latest record per (user, sp) pair is the current consent.
type AgreementRepository interface {
	CreateAgreement(record model.AgreementRecord) (created model.AgreementRecord, httpErr model.HttpError)
	// LatestAgreement returns the most recent record for the pair, a not
	// found error when the user never consented for this SP.
	LatestAgreement(user string, spEntityId string) (record model.AgreementRecord, httpErr model.HttpError)
	DeleteForProvider(spEntityId string) model.HttpError
}
