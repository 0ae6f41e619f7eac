package pseudonym

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/uniauth/saml-idp-core/model"
)

// A colliding random identifier is close to impossible, the bound only
// guards against a broken randomness source.
const allocationAttempts = 3

// Allocator issues the stable pseudonym representing a user towards one SP.
// Atomicity comes from the unique indexes of the store plus a
// regenerate-on-conflict loop, not from explicit locking.
type Allocator struct {
	identifierRepo IdentifierRepository
}

func NewAllocator(identifierRepo IdentifierRepository) *Allocator {
	return &Allocator{identifierRepo: identifierRepo}
}

// GetOrCreate returns the existing identifier for the (user, sp) pair or
// allocates a fresh random 128-bit one. The same pair always resolves to the
// same identifier, also when two requests race: the loser of the insert race
// reads and returns the winning row.
func (allocator *Allocator) GetOrCreate(user string, spEntityId string) (identifier model.PersistentIdentifier, httpErr model.HttpError) {
	identifier, httpErr = allocator.identifierRepo.FindIdentifier(spEntityId, user)
	if httpErr == (model.HttpError{}) {
		return identifier, httpErr
	}
	if httpErr.Status != http.StatusNotFound {
		return identifier, httpErr
	}

	for attempt := 0; attempt < allocationAttempts; attempt++ {
		randomUuid, err := uuid.NewRandom()
		if err != nil {
			logger.Warnf("Was not able to generate a new uuid. Err: %v", err)
			return identifier, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to generate an identifier.", RootError: err}
		}

		created, httpErr := allocator.identifierRepo.InsertIdentifier(model.PersistentIdentifier{
			User:         user,
			SpEntityId:   spEntityId,
			PersistentId: randomUuid.String(),
		})
		if httpErr == (model.HttpError{}) {
			return created, httpErr
		}
		if httpErr.Status != http.StatusConflict {
			return created, httpErr
		}

		// a concurrent request may have allocated the pair, return its row
		existing, findErr := allocator.identifierRepo.FindIdentifier(spEntityId, user)
		if findErr == (model.HttpError{}) {
			return existing, findErr
		}
		logger.Debugf("Identifier collision at %s, regenerate and retry.", spEntityId)
	}
	return identifier, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to allocate an identifier.", RootError: &model.ValidationError{Kind: model.ErrorAllocationConflict, Message: "All allocation attempts hit a conflict."}}
}
