package trust

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-rel/rel"
	"github.com/go-rel/reltest"
	log "github.com/sirupsen/logrus"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

func getSqlMock() (dbMock *reltest.Repository, sqlRepo ProviderRepository) {
	dbMock = reltest.New()
	sqlRepo = NewSqlRepository(dbMock)
	return
}

type creationTest struct {
	testName      string
	testProvider  model.ServiceProvider
	expectedError model.HttpError
}

func getCreationTests() []creationTest {
	return []creationTest{
		{"Successfully create the provider.", getProvider("https://sp.example.org/saml", false, false, "{}"), model.HttpError{}},
		{"Fail if no entity id is provided.", getProvider("", false, false, "{}"), model.HttpError{Status: http.StatusBadRequest, Message: "Providers need an entity id.", RootError: nil}},
	}
}

func TestCreateProvider(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	log.Infof("TestCreateProvider ----------------- TEST ON SQL-REPO -----------------")
	for _, tc := range getCreationTests() {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestCreateProvider +++++++++++++++++ Running test: %s", tc.testName)
			dbMock, sqlRepo := getSqlMock()

			if tc.expectedError == (model.HttpError{}) {
				dbMock.ExpectFind(rel.Eq("id", tc.testProvider.EntityId)).Error(errors.New("no_such_provider"))
				dbMock.ExpectInsert().ForType("*sql.ServiceProvider")
			}

			httpError := sqlRepo.CreateProvider(tc.testProvider)

			// only test on status, to allow the reason beeing implementation specific
			if httpError.Status != tc.expectedError.Status {
				t.Errorf("%s: Provider creation through unexpected error. Expected: %v, Actual: %v.", tc.testName, tc.expectedError, httpError)
			}
			dbMock.AssertExpectations(t)
		})
	}

	log.Infof("TestCreateProvider +++++++++++++++++ Running test: Fail on conflicting entityId.")
	dbMock, sqlRepo := getSqlMock()
	dbMock.ExpectFind(rel.Eq("id", "https://sp.example.org/saml")).Result(toSqlProvider(getProvider("https://sp.example.org/saml", false, false, "{}")))

	httpError := sqlRepo.CreateProvider(getProvider("https://sp.example.org/saml", false, false, "{}"))
	if httpError.Status != http.StatusConflict {
		t.Errorf("If the provider already exists, a conflict should be thrown, but error is %v.", httpError)
	}
}

func TestGetProvider(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	log.Infof("TestGetProvider ----------------- TEST ON SQL-REPO -----------------")
	dbMock, sqlRepo := getSqlMock()
	storedProvider := getProvider("https://sp.example.org/saml", true, true, "{\"email\":\"mail\"}")
	dbMock.ExpectFind(rel.Eq("id", storedProvider.EntityId)).Result(toSqlProvider(storedProvider))

	provider, httpError := sqlRepo.GetProvider(storedProvider.EntityId)
	if httpError != (model.HttpError{}) {
		t.Errorf("The provider should be retrieved, but error is %v.", httpError)
	}
	if provider.EntityId != storedProvider.EntityId || provider.AttributeMapping != storedProvider.AttributeMapping {
		t.Errorf("The provider was not mapped back as expected. Expected: %v, Actual: %v.", storedProvider, provider)
	}

	log.Infof("TestGetProvider +++++++++++++++++ Running test: Return a not found for unknown providers.")
	dbMock, sqlRepo = getSqlMock()
	dbMock.ExpectFind(rel.Eq("id", "https://unknown.example.org/saml")).Error(errors.New("no_such_provider"))

	_, httpError = sqlRepo.GetProvider("https://unknown.example.org/saml")
	if httpError.Status != http.StatusNotFound {
		t.Errorf("A not found should be returned for unknown providers, but error is %v.", httpError)
	}
}

func TestMarkSeenInMemory(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	repo := NewInmemoryRepo()
	provider := getProvider("https://sp.example.org/saml", true, true, "{}")
	repo.CreateProvider(provider)

	stored, _ := repo.GetProvider(provider.EntityId)
	if stored.LastSeen != nil {
		t.Errorf("A fresh provider should not have been seen.")
	}

	seenAt := stored.Created.Add(time.Hour)
	httpError := repo.MarkSeen(provider.EntityId, seenAt)
	if httpError != (model.HttpError{}) {
		t.Errorf("Marking the provider seen should succeed, but error is %v.", httpError)
	}
	stored, _ = repo.GetProvider(provider.EntityId)
	if stored.LastSeen == nil || !stored.LastSeen.Equal(seenAt) {
		t.Errorf("The last seen timestamp was not recorded. Expected: %v, Actual: %v.", seenAt, stored.LastSeen)
	}

	if httpError = repo.MarkSeen("https://unknown.example.org/saml", seenAt); httpError.Status != http.StatusNotFound {
		t.Errorf("A not found should be returned for unknown providers, but error is %v.", httpError)
	}
}
