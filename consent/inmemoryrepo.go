package consent

import (
	"net/http"
	"time"

	"github.com/uniauth/saml-idp-core/model"
)

/**
* Quick in-memory implementation of the agreement repository. Should only be used for dev and testing, does not have any persistence.
 */
type InMemoryRepo struct {
	records *[]model.AgreementRecord
	nextId  int64
}

func NewInmemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{records: &[]model.AgreementRecord{}, nextId: 1}
}

func (repo *InMemoryRepo) CreateAgreement(record model.AgreementRecord) (created model.AgreementRecord, httpErr model.HttpError) {
	record.Id = repo.nextId
	repo.nextId++
	if record.Created.IsZero() {
		record.Created = time.Now()
	}
	*repo.records = append(*repo.records, record)
	return record, httpErr
}

func (repo *InMemoryRepo) LatestAgreement(user string, spEntityId string) (latest model.AgreementRecord, httpErr model.HttpError) {
	found := false
	for _, record := range *repo.records {
		if record.User != user || record.SpEntityId != spEntityId {
			continue
		}
		if !found || record.Created.After(latest.Created) || (record.Created.Equal(latest.Created) && record.Id > latest.Id) {
			latest = record
			found = true
		}
	}
	if !found {
		return latest, model.HttpError{Status: http.StatusNotFound, Message: "No agreement recorded.", RootError: nil}
	}
	return latest, httpErr
}

func (repo *InMemoryRepo) DeleteForProvider(spEntityId string) (httpErr model.HttpError) {
	remaining := []model.AgreementRecord{}
	for _, record := range *repo.records {
		if record.SpEntityId != spEntityId {
			remaining = append(remaining, record)
		}
	}
	*repo.records = remaining
	return httpErr
}
