package trust

import (
	"net/http"
	"sort"
	"time"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

/**
* Quick in-memory implementation of the provider repository. Should only be used for dev and testing, does not have any persistence.
 */
type InMemoryRepo struct {
	providerMap *map[string]model.ServiceProvider
}

func NewInmemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{providerMap: &map[string]model.ServiceProvider{}}
}

func (repo *InMemoryRepo) CreateProvider(provider model.ServiceProvider) (httpErr model.HttpError) {
	if _, ok := (*repo.providerMap)[provider.EntityId]; ok {
		logger.Warnf("Provider %s already exists.", logging.PrettyPrintObject(provider))
		return model.HttpError{Status: http.StatusConflict, Message: "Provider already exists.", RootError: nil}
	}
	provider.Created = time.Now()
	provider.Updated = provider.Created
	(*repo.providerMap)[provider.EntityId] = provider
	return httpErr
}

func (repo *InMemoryRepo) GetProvider(entityId string) (provider model.ServiceProvider, httpErr model.HttpError) {
	provider, ok := (*repo.providerMap)[entityId]
	if !ok {
		logger.Warnf("No such provider %s exists.", entityId)
		return provider, model.HttpError{Status: http.StatusNotFound, Message: "Provider not found.", RootError: nil}
	}
	return provider, httpErr
}

func (repo *InMemoryRepo) PutProvider(provider model.ServiceProvider) (httpErr model.HttpError) {
	existing, ok := (*repo.providerMap)[provider.EntityId]
	if !ok {
		logger.Warnf("Provider %s not found.", provider.EntityId)
		return model.HttpError{Status: http.StatusNotFound, Message: "Provider not found.", RootError: nil}
	}
	provider.Created = existing.Created
	provider.Updated = time.Now()
	(*repo.providerMap)[provider.EntityId] = provider
	return httpErr
}

func (repo *InMemoryRepo) DeleteProvider(entityId string) (httpErr model.HttpError) {
	if _, ok := (*repo.providerMap)[entityId]; !ok {
		logger.Warnf("No such provider %s exists.", entityId)
		return model.HttpError{Status: http.StatusNotFound, Message: "Provider not found.", RootError: nil}
	}
	delete(*repo.providerMap, entityId)
	return httpErr
}

func (repo *InMemoryRepo) GetProviders(limit int, offset int) (providers []model.ServiceProvider, httpErr model.HttpError) {
	for _, entityId := range repo.sortedEntityIds() {
		if len(providers) == limit {
			return providers, httpErr
		}
		if offset > 0 {
			offset--
			continue
		}
		providers = append(providers, (*repo.providerMap)[entityId])
	}
	return providers, httpErr
}

func (repo *InMemoryRepo) GetActiveProviders() (providers []model.ServiceProvider, httpErr model.HttpError) {
	for _, entityId := range repo.sortedEntityIds() {
		provider := (*repo.providerMap)[entityId]
		if provider.IsActive {
			providers = append(providers, provider)
		}
	}
	return providers, httpErr
}

func (repo *InMemoryRepo) MarkSeen(entityId string, seenAt time.Time) (httpErr model.HttpError) {
	provider, ok := (*repo.providerMap)[entityId]
	if !ok {
		return model.HttpError{Status: http.StatusNotFound, Message: "Provider not found.", RootError: nil}
	}
	provider.LastSeen = &seenAt
	(*repo.providerMap)[entityId] = provider
	return httpErr
}

func (repo *InMemoryRepo) sortedEntityIds() []string {
	entityIds := []string{}
	for entityId := range *repo.providerMap {
		entityIds = append(entityIds, entityId)
	}
	sort.Strings(entityIds)
	return entityIds
}
