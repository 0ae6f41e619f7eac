package consent

import (
	"context"
	"net/http"

	"github.com/go-rel/rel"
	"github.com/go-rel/rel/sort"
	"github.com/go-rel/rel/where"

	"github.com/uniauth/saml-idp-core/model"
	dbModel "github.com/uniauth/saml-idp-core/sql"
)

type SqlRepo struct {
	repo *rel.Repository
}

func NewSqlRepository(repository rel.Repository) *SqlRepo {
	sqlRepo := new(SqlRepo)
	sqlRepo.repo = &repository
	return sqlRepo
}

func (sqlRepo *SqlRepo) CreateAgreement(record model.AgreementRecord) (created model.AgreementRecord, httpErr model.HttpError) {
	sqlRecord := toSqlAgreement(record)
	sqlRecord.ID = 0
	err := (*sqlRepo.repo).Insert(context.TODO(), &sqlRecord)
	if err != nil {
		return created, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to store agreement.", RootError: err}
	}
	return fromSqlAgreement(sqlRecord), httpErr
}

func (sqlRepo *SqlRepo) LatestAgreement(user string, spEntityId string) (record model.AgreementRecord, httpErr model.HttpError) {
	var sqlRecord dbModel.AgreementRecord
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlRecord, where.Eq("user", user).AndEq("sp_entity_id", spEntityId), sort.Desc("created_at"), sort.Desc("id"))
	if err != nil {
		return record, model.HttpError{Status: http.StatusNotFound, Message: "No agreement recorded.", RootError: err}
	}
	return fromSqlAgreement(sqlRecord), httpErr
}

func (sqlRepo *SqlRepo) DeleteForProvider(spEntityId string) (httpErr model.HttpError) {
	_, err := (*sqlRepo.repo).DeleteAny(context.TODO(), rel.From("agreement_records").Where(where.Eq("sp_entity_id", spEntityId)))
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to delete agreements.", RootError: err}
	}
	return httpErr
}

func toSqlAgreement(record model.AgreementRecord) dbModel.AgreementRecord {
	return dbModel.AgreementRecord{
		ID:         record.Id,
		User:       record.User,
		SpEntityId: record.SpEntityId,
		Attrs:      record.Attrs,
		CreatedAt:  record.Created,
	}
}

func fromSqlAgreement(sqlRecord dbModel.AgreementRecord) model.AgreementRecord {
	return model.AgreementRecord{
		Id:         sqlRecord.ID,
		User:       sqlRecord.User,
		SpEntityId: sqlRecord.SpEntityId,
		Attrs:      sqlRecord.Attrs,
		Created:    sqlRecord.CreatedAt,
	}
}
