package pseudonym

import (
	"net/http"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

func TestGetOrCreateIsStable(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	repo := NewInmemoryRepo()
	allocator := NewAllocator(repo)

	first, httpErr := allocator.GetOrCreate("user", "https://sp.example.org/saml")
	if httpErr != (model.HttpError{}) {
		t.Errorf("The first allocation should succeed, but was %v.", httpErr)
	}
	if first.PersistentId == "" {
		t.Errorf("An identifier should have been allocated.")
	}

	second, httpErr := allocator.GetOrCreate("user", "https://sp.example.org/saml")
	if httpErr != (model.HttpError{}) {
		t.Errorf("The second allocation should succeed, but was %v.", httpErr)
	}
	if first.PersistentId != second.PersistentId {
		t.Errorf("The same pair should always resolve to the same identifier. First: %s, Second: %s.", first.PersistentId, second.PersistentId)
	}
}

func TestGetOrCreateSeparatesPairs(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	repo := NewInmemoryRepo()
	allocator := NewAllocator(repo)

	userAtSp, _ := allocator.GetOrCreate("user", "https://sp.example.org/saml")
	otherUserAtSp, _ := allocator.GetOrCreate("anotherUser", "https://sp.example.org/saml")
	userAtOtherSp, _ := allocator.GetOrCreate("user", "https://other.example.org/saml")

	if userAtSp.PersistentId == otherUserAtSp.PersistentId {
		t.Errorf("Two users at the same sp should not share an identifier.")
	}
	if userAtSp.PersistentId == userAtOtherSp.PersistentId {
		t.Errorf("The same user should be unlinkable between sps.")
	}
}

// conflictingRepo reports a conflict on the first insert, as a concurrent
// allocation for the same pair would.
type conflictingRepo struct {
	backend  IdentifierRepository
	rejected bool
}

func (repo *conflictingRepo) FindIdentifier(spEntityId string, user string) (model.PersistentIdentifier, model.HttpError) {
	return repo.backend.FindIdentifier(spEntityId, user)
}

func (repo *conflictingRepo) InsertIdentifier(identifier model.PersistentIdentifier) (model.PersistentIdentifier, model.HttpError) {
	if !repo.rejected {
		repo.rejected = true
		winner := identifier
		winner.PersistentId = "winning-identifier"
		repo.backend.InsertIdentifier(winner)
		return model.PersistentIdentifier{}, model.HttpError{Status: http.StatusConflict, Message: "Identifier already exists.", RootError: nil}
	}
	return repo.backend.InsertIdentifier(identifier)
}

func (repo *conflictingRepo) DeleteForProvider(spEntityId string) model.HttpError {
	return repo.backend.DeleteForProvider(spEntityId)
}

func TestGetOrCreateReturnsTheRaceWinner(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	repo := &conflictingRepo{backend: NewInmemoryRepo()}
	allocator := NewAllocator(repo)

	identifier, httpErr := allocator.GetOrCreate("user", "https://sp.example.org/saml")
	if httpErr != (model.HttpError{}) {
		t.Errorf("The allocation should survive a lost insert race, but was %v.", httpErr)
	}
	if identifier.PersistentId != "winning-identifier" {
		t.Errorf("The loser of the race should return the winning row, but was %s.", identifier.PersistentId)
	}
}
