package pseudonym

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-rel/rel"
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

func (sqlRepo *SqlRepo) FindIdentifier(spEntityId string, user string) (identifier model.PersistentIdentifier, httpErr model.HttpError) {
	var sqlIdentifier dbModel.PersistentIdentifier
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlIdentifier, where.Eq("sp_entity_id", spEntityId).AndEq("user", user))
	if err != nil {
		return identifier, model.HttpError{Status: http.StatusNotFound, Message: "No identifier allocated.", RootError: err}
	}
	return fromSqlIdentifier(sqlIdentifier), httpErr
}

func (sqlRepo *SqlRepo) InsertIdentifier(identifier model.PersistentIdentifier) (created model.PersistentIdentifier, httpErr model.HttpError) {
	sqlIdentifier := toSqlIdentifier(identifier)
	sqlIdentifier.ID = 0
	err := (*sqlRepo.repo).Insert(context.TODO(), &sqlIdentifier)
	if err != nil {
		// the unique indexes win races between concurrent allocations
		if errors.Is(err, rel.ErrUniqueConstraint) {
			return created, model.HttpError{Status: http.StatusConflict, Message: "Identifier already exists.", RootError: err}
		}
		return created, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to store identifier.", RootError: err}
	}
	return fromSqlIdentifier(sqlIdentifier), httpErr
}

func (sqlRepo *SqlRepo) DeleteForProvider(spEntityId string) (httpErr model.HttpError) {
	_, err := (*sqlRepo.repo).DeleteAny(context.TODO(), rel.From("persistent_identifiers").Where(where.Eq("sp_entity_id", spEntityId)))
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to delete identifiers.", RootError: err}
	}
	return httpErr
}

func toSqlIdentifier(identifier model.PersistentIdentifier) dbModel.PersistentIdentifier {
	return dbModel.PersistentIdentifier{
		ID:           identifier.Id,
		User:         identifier.User,
		SpEntityId:   identifier.SpEntityId,
		PersistentId: identifier.PersistentId,
		CreatedAt:    identifier.Created,
	}
}

func fromSqlIdentifier(sqlIdentifier dbModel.PersistentIdentifier) model.PersistentIdentifier {
	return model.PersistentIdentifier{
		Id:           sqlIdentifier.ID,
		User:         sqlIdentifier.User,
		SpEntityId:   sqlIdentifier.SpEntityId,
		PersistentId: sqlIdentifier.PersistentId,
		Created:      sqlIdentifier.CreatedAt,
	}
}
