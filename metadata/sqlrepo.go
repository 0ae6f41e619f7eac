package metadata

import (
	"context"
	"fmt"
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

func (sqlRepo *SqlRepo) CreateSource(source model.MetadataSource) (created model.MetadataSource, httpErr model.HttpError) {
	sqlSource := toSqlSource(source)
	sqlSource.ID = 0
	err := (*sqlRepo.repo).Insert(context.TODO(), &sqlSource)
	if err != nil {
		return created, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to store source.", RootError: err}
	}
	return fromSqlSource(sqlSource), httpErr
}

func (sqlRepo *SqlRepo) GetSource(id int64) (source model.MetadataSource, httpErr model.HttpError) {
	var sqlSource dbModel.MetadataSource
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlSource, where.Eq("id", id))
	if err != nil {
		return source, model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Source %d not found.", id), RootError: err}
	}
	return fromSqlSource(sqlSource), httpErr
}

func (sqlRepo *SqlRepo) PutSource(source model.MetadataSource) (httpErr model.HttpError) {
	var sqlSource dbModel.MetadataSource
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlSource, where.Eq("id", source.Id))
	if err != nil {
		return model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Source %d not found.", source.Id), RootError: err}
	}
	updatedSource := toSqlSource(source)
	updatedSource.CreatedAt = sqlSource.CreatedAt
	err = (*sqlRepo.repo).Update(context.TODO(), &updatedSource)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to update source.", RootError: err}
	}
	return httpErr
}

func (sqlRepo *SqlRepo) DeleteSource(id int64) (httpErr model.HttpError) {
	var sqlSource dbModel.MetadataSource
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlSource, where.Eq("id", id))
	if err != nil {
		return model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Source %d not found.", id), RootError: err}
	}
	err = (*sqlRepo.repo).Delete(context.TODO(), &sqlSource)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Was not able to delete source %d.", id), RootError: err}
	}
	return httpErr
}

func (sqlRepo *SqlRepo) GetSources(limit int, offset int) (sources []model.MetadataSource, httpErr model.HttpError) {
	var sqlSources []dbModel.MetadataSource
	err := (*sqlRepo.repo).FindAll(context.TODO(), &sqlSources, rel.Limit(limit), rel.Offset(offset))
	if err != nil {
		return sources, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to query for sources.", RootError: err}
	}
	for _, sqlSource := range sqlSources {
		sources = append(sources, fromSqlSource(sqlSource))
	}
	return sources, httpErr
}

func (sqlRepo *SqlRepo) GetUsableSources() (sources []model.MetadataSource, httpErr model.HttpError) {
	var sqlSources []dbModel.MetadataSource
	err := (*sqlRepo.repo).FindAll(context.TODO(), &sqlSources, where.Eq("is_active", true).AndEq("is_valid", true))
	if err != nil {
		return sources, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to query for usable sources.", RootError: err}
	}
	for _, sqlSource := range sqlSources {
		sources = append(sources, fromSqlSource(sqlSource))
	}
	return sources, httpErr
}

func toSqlSource(source model.MetadataSource) dbModel.MetadataSource {
	return dbModel.MetadataSource{
		ID:        source.Id,
		Name:      source.Name,
		Kind:      source.Kind,
		Url:       source.Url,
		File:      source.File,
		Kwargs:    source.Kwargs,
		IsValid:   source.IsValid,
		IsActive:  source.IsActive,
		CreatedAt: source.Created,
		UpdatedAt: source.Updated,
	}
}

func fromSqlSource(sqlSource dbModel.MetadataSource) model.MetadataSource {
	return model.MetadataSource{
		Id:       sqlSource.ID,
		Name:     sqlSource.Name,
		Kind:     sqlSource.Kind,
		Url:      sqlSource.Url,
		File:     sqlSource.File,
		Kwargs:   sqlSource.Kwargs,
		IsValid:  sqlSource.IsValid,
		IsActive: sqlSource.IsActive,
		Created:  sqlSource.CreatedAt,
		Updated:  sqlSource.UpdatedAt,
	}
}
