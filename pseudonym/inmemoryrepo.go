package pseudonym

import (
	"net/http"
	"sync"
	"time"

	"github.com/uniauth/saml-idp-core/model"
)

/**
* Quick in-memory implementation of the identifier repository. Should only be used for dev and testing, does not have any persistence.
 */
type InMemoryRepo struct {
	lock        sync.Mutex
	identifiers *[]model.PersistentIdentifier
	nextId      int64
}

func NewInmemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{identifiers: &[]model.PersistentIdentifier{}, nextId: 1}
}

func (repo *InMemoryRepo) FindIdentifier(spEntityId string, user string) (identifier model.PersistentIdentifier, httpErr model.HttpError) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	for _, identifier := range *repo.identifiers {
		if identifier.SpEntityId == spEntityId && identifier.User == user {
			return identifier, httpErr
		}
	}
	return identifier, model.HttpError{Status: http.StatusNotFound, Message: "No identifier allocated.", RootError: nil}
}

func (repo *InMemoryRepo) InsertIdentifier(identifier model.PersistentIdentifier) (created model.PersistentIdentifier, httpErr model.HttpError) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	for _, existing := range *repo.identifiers {
		if existing.SpEntityId != identifier.SpEntityId {
			continue
		}
		if existing.User == identifier.User || existing.PersistentId == identifier.PersistentId {
			return created, model.HttpError{Status: http.StatusConflict, Message: "Identifier already exists.", RootError: nil}
		}
	}
	identifier.Id = repo.nextId
	repo.nextId++
	if identifier.Created.IsZero() {
		identifier.Created = time.Now()
	}
	*repo.identifiers = append(*repo.identifiers, identifier)
	return identifier, httpErr
}

func (repo *InMemoryRepo) DeleteForProvider(spEntityId string) (httpErr model.HttpError) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	remaining := []model.PersistentIdentifier{}
	for _, identifier := range *repo.identifiers {
		if identifier.SpEntityId != spEntityId {
			remaining = append(remaining, identifier)
		}
	}
	*repo.identifiers = remaining
	return httpErr
}
