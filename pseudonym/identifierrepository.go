package pseudonym

import (
	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

var logger = logging.Log()

// IdentifierRepository stores the per-(sp, user) pseudonyms. The store
// enforces uniqueness per (sp, persistent_id) and per (sp, user); a conflict
// on insert surfaces as a 409 so the allocator can retry respectively return
// the winning row.
type IdentifierRepository interface {
	FindIdentifier(spEntityId string, user string) (identifier model.PersistentIdentifier, httpErr model.HttpError)
	InsertIdentifier(identifier model.PersistentIdentifier) (created model.PersistentIdentifier, httpErr model.HttpError)
	DeleteForProvider(spEntityId string) model.HttpError
}
