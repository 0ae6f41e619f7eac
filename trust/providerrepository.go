package trust

import (
	"time"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

var logger = logging.Log()

// ProviderRepository stores the SP trust entries. Entries are keyed by their
// entity id and carry the validity/activity flags written by the validation
// engine.
type ProviderRepository interface {
	CreateProvider(provider model.ServiceProvider) model.HttpError
	GetProvider(entityId string) (provider model.ServiceProvider, httpErr model.HttpError)
	PutProvider(provider model.ServiceProvider) model.HttpError
	DeleteProvider(entityId string) model.HttpError
	GetProviders(limit int, offset int) (providers []model.ServiceProvider, httpErr model.HttpError)
	GetActiveProviders() (providers []model.ServiceProvider, httpErr model.HttpError)
	MarkSeen(entityId string, seenAt time.Time) model.HttpError
}

// Cascade removes the rows depending on an SP when the SP itself is deleted.
type Cascade interface {
	DeleteForProvider(entityId string) model.HttpError
}
