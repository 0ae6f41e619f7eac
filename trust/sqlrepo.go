package trust

import (
	"context"
	"fmt"
	"net/http"
	"time"

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

func (sqlRepo *SqlRepo) CreateProvider(provider model.ServiceProvider) (httpErr model.HttpError) {
	if provider.EntityId == "" {
		return model.HttpError{Status: http.StatusBadRequest, Message: "Providers need an entity id.", RootError: nil}
	}

	err := (*sqlRepo.repo).Find(context.TODO(), &dbModel.ServiceProvider{}, where.Eq("id", provider.EntityId))
	if err == nil {
		logger.Debugf("Provider %s already exists.", provider.EntityId)
		return model.HttpError{Status: http.StatusConflict, Message: "Provider already exists.", RootError: nil}
	}

	sqlProvider := toSqlProvider(provider)
	err = (*sqlRepo.repo).Insert(context.TODO(), &sqlProvider)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to store provider.", RootError: err}
	}
	return httpErr
}

func (sqlRepo *SqlRepo) GetProvider(entityId string) (provider model.ServiceProvider, httpErr model.HttpError) {
	var sqlProvider dbModel.ServiceProvider
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlProvider, where.Eq("id", entityId))
	if err != nil {
		return provider, model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Provider %s not found.", entityId), RootError: err}
	}
	return fromSqlProvider(sqlProvider), httpErr
}

func (sqlRepo *SqlRepo) PutProvider(provider model.ServiceProvider) (httpErr model.HttpError) {
	var sqlProvider dbModel.ServiceProvider
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlProvider, where.Eq("id", provider.EntityId))
	if err != nil {
		return model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Provider %s not found.", provider.EntityId), RootError: err}
	}

	updatedProvider := toSqlProvider(provider)
	updatedProvider.CreatedAt = sqlProvider.CreatedAt
	err = (*sqlRepo.repo).Update(context.TODO(), &updatedProvider)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to update provider.", RootError: err}
	}
	return httpErr
}

func (sqlRepo *SqlRepo) DeleteProvider(entityId string) (httpErr model.HttpError) {
	var sqlProvider dbModel.ServiceProvider
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlProvider, where.Eq("id", entityId))
	if err != nil {
		return model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Provider %s not found.", entityId), RootError: err}
	}
	err = (*sqlRepo.repo).Delete(context.TODO(), &sqlProvider)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Was not able to delete provider %s.", entityId), RootError: err}
	}
	return httpErr
}

func (sqlRepo *SqlRepo) GetProviders(limit int, offset int) (providers []model.ServiceProvider, httpErr model.HttpError) {
	var sqlProviders []dbModel.ServiceProvider
	err := (*sqlRepo.repo).FindAll(context.TODO(), &sqlProviders, rel.Limit(limit), rel.Offset(offset))
	if err != nil {
		return providers, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to query for providers.", RootError: err}
	}
	for _, sqlProvider := range sqlProviders {
		providers = append(providers, fromSqlProvider(sqlProvider))
	}
	return providers, httpErr
}

func (sqlRepo *SqlRepo) GetActiveProviders() (providers []model.ServiceProvider, httpErr model.HttpError) {
	var sqlProviders []dbModel.ServiceProvider
	err := (*sqlRepo.repo).FindAll(context.TODO(), &sqlProviders, where.Eq("is_active", true))
	if err != nil {
		return providers, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to query for active providers.", RootError: err}
	}
	for _, sqlProvider := range sqlProviders {
		providers = append(providers, fromSqlProvider(sqlProvider))
	}
	return providers, httpErr
}

func (sqlRepo *SqlRepo) MarkSeen(entityId string, seenAt time.Time) (httpErr model.HttpError) {
	var sqlProvider dbModel.ServiceProvider
	err := (*sqlRepo.repo).Find(context.TODO(), &sqlProvider, where.Eq("id", entityId))
	if err != nil {
		return model.HttpError{Status: http.StatusNotFound, Message: fmt.Sprintf("Provider %s not found.", entityId), RootError: err}
	}
	sqlProvider.LastSeen = &seenAt
	err = (*sqlRepo.repo).Update(context.TODO(), &sqlProvider)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to update last seen.", RootError: err}
	}
	return httpErr
}

func toSqlProvider(provider model.ServiceProvider) dbModel.ServiceProvider {
	return dbModel.ServiceProvider{
		ID:                         provider.EntityId,
		DisplayName:                provider.DisplayName,
		MetadataUrl:                provider.MetadataUrl,
		Description:                provider.Description,
		AgreementScreen:            provider.AgreementScreen,
		AgreementConsentForm:       provider.AgreementConsentForm,
		AgreementMessage:           provider.AgreementMessage,
		SigningAlgorithm:           provider.SigningAlgorithm,
		DigestAlgorithm:            provider.DigestAlgorithm,
		DisableEncryptedAssertions: provider.DisableEncryptedAssertions,
		AttributeProcessor:         provider.AttributeProcessor,
		AttributeMapping:           provider.AttributeMapping,
		ForceAttributeRelease:      provider.ForceAttributeRelease,
		IsValid:                    provider.IsValid,
		IsActive:                   provider.IsActive,
		LastSeen:                   provider.LastSeen,
		CreatedAt:                  provider.Created,
		UpdatedAt:                  provider.Updated,
	}
}

func fromSqlProvider(sqlProvider dbModel.ServiceProvider) model.ServiceProvider {
	return model.ServiceProvider{
		EntityId:                   sqlProvider.ID,
		DisplayName:                sqlProvider.DisplayName,
		MetadataUrl:                sqlProvider.MetadataUrl,
		Description:                sqlProvider.Description,
		AgreementScreen:            sqlProvider.AgreementScreen,
		AgreementConsentForm:       sqlProvider.AgreementConsentForm,
		AgreementMessage:           sqlProvider.AgreementMessage,
		SigningAlgorithm:           sqlProvider.SigningAlgorithm,
		DigestAlgorithm:            sqlProvider.DigestAlgorithm,
		DisableEncryptedAssertions: sqlProvider.DisableEncryptedAssertions,
		AttributeProcessor:         sqlProvider.AttributeProcessor,
		AttributeMapping:           sqlProvider.AttributeMapping,
		ForceAttributeRelease:      sqlProvider.ForceAttributeRelease,
		IsValid:                    sqlProvider.IsValid,
		IsActive:                   sqlProvider.IsActive,
		LastSeen:                   sqlProvider.LastSeen,
		Created:                    sqlProvider.CreatedAt,
		Updated:                    sqlProvider.UpdatedAt,
	}
}
