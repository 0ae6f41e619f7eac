package trust

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

// ProviderController is the admin surface over the SP trust entries and the
// configuration snapshot consumed by the protocol library.
type ProviderController struct {
	providerRepo ProviderRepository
	registry     *Registry
	cascades     []Cascade
}

func NewProviderController(providerRepo ProviderRepository, registry *Registry, cascades ...Cascade) *ProviderController {
	return &ProviderController{providerRepo: providerRepo, registry: registry, cascades: cascades}
}

func (pc *ProviderController) CreateServiceProvider(c *gin.Context) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()})
		return
	}

	var provider model.ServiceProvider
	err = json.Unmarshal(bodyData, &provider)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()})
		return
	}
	if provider.EntityId == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Providers need an entity id."})
		return
	}

	applyProviderDefaults(&provider)
	if problem := checkAlgorithms(provider); problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	// entries start unvalidated and disabled, only validation changes that
	provider.IsValid = false
	provider.IsActive = false

	httpErr := pc.providerRepo.CreateProvider(provider)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to create provider %s.", logging.PrettyPrintObject(provider))
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Failed to create provider.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatus(http.StatusCreated)
}

func (pc *ProviderController) ReplaceServiceProvider(c *gin.Context) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()})
		return
	}

	var provider model.ServiceProvider
	err = json.Unmarshal(bodyData, &provider)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()})
		return
	}

	entityId := c.Param("id")
	if provider.EntityId != entityId {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Entity id cannot be updated."})
		return
	}

	existing, httpErr := pc.providerRepo.GetProvider(entityId)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Provider not found.", Detail: httpErr.Message})
		return
	}

	applyProviderDefaults(&provider)
	if problem := checkAlgorithms(provider); problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	// validity is owned by the validation engine, activation requires it
	provider.IsValid = existing.IsValid
	if provider.IsActive && !provider.IsValid {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Provider has to be validated before it can be activated."})
		return
	}
	provider.LastSeen = existing.LastSeen

	httpErr = pc.providerRepo.PutProvider(provider)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to replace provider %s.", logging.PrettyPrintObject(provider))
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Failed to replace provider.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (pc *ProviderController) GetServiceProviderById(c *gin.Context) {
	entityId := c.Param("id")
	provider, httpErr := pc.providerRepo.GetProvider(entityId)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Provider not found.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, provider)
}

func (pc *ProviderController) DeleteServiceProviderById(c *gin.Context) {
	entityId := c.Param("id")
	httpErr := pc.providerRepo.DeleteProvider(entityId)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Provider not found.", Detail: httpErr.Message})
		return
	}
	for _, cascade := range pc.cascades {
		cascadeErr := cascade.DeleteForProvider(entityId)
		if cascadeErr != (model.HttpError{}) {
			logger.Warnf("Cascade deletion for provider %s failed: %s", entityId, cascadeErr.Message)
		}
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (pc *ProviderController) GetServiceProviders(c *gin.Context) {
	query := c.Request.URL.Query()
	limitParam := query.Get("limit")
	if limitParam == "" {
		limitParam = "100"
	}
	offsetParam := query.Get("offset")
	if offsetParam == "" {
		offsetParam = "0"
	}
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "InvalidParameter", Status: http.StatusBadRequest, Title: "Invalid query parameter", Detail: fmt.Sprintf("Limit is not a valid number: %s", limitParam)})
		return
	}
	offset, err := strconv.Atoi(offsetParam)
	if err != nil || offset < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "InvalidParameter", Status: http.StatusBadRequest, Title: "Invalid query parameter", Detail: fmt.Sprintf("Offset is not a valid number: %s", offsetParam)})
		return
	}

	providers, httpErr := pc.providerRepo.GetProviders(limit, offset)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ProblemDetails{Type: "RepositoryError", Status: http.StatusInternalServerError, Title: "Unable to get providers from repo", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, providers)
}

// MarkServiceProviderSeen is called by the assertion-issuing collaborator
// after a successful issuance for the SP.
func (pc *ProviderController) MarkServiceProviderSeen(c *gin.Context) {
	entityId := c.Param("id")
	httpErr := pc.providerRepo.MarkSeen(entityId, time.Now())
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Provider not found.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// GetActiveConfiguration serves the configuration snapshot consumed by the
// protocol-library binding.
func (pc *ProviderController) GetActiveConfiguration(c *gin.Context) {
	configuration, httpErr := pc.registry.ActiveConfiguration()
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ProblemDetails{Type: "RepositoryError", Status: http.StatusInternalServerError, Title: "Unable to build the configuration snapshot.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, configuration)
}

func applyProviderDefaults(provider *model.ServiceProvider) {
	if provider.AttributeProcessor == "" {
		provider.AttributeProcessor = model.DefaultProcessor
	}
	if provider.AttributeMapping == "" {
		serialized, _ := model.SerializeAttributeMapping(model.DefaultAttributeMapping)
		provider.AttributeMapping = serialized
	}
	if provider.SigningAlgorithm == "" {
		provider.SigningAlgorithm = model.SigRsaSha256
	}
	if provider.DigestAlgorithm == "" {
		provider.DigestAlgorithm = model.DigestSha256
	}
}

func checkAlgorithms(provider model.ServiceProvider) *model.ProblemDetails {
	if !model.IsAllowedSigningAlgorithm(provider.SigningAlgorithm) {
		return &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Signing algorithm is not allowed.", Detail: provider.SigningAlgorithm}
	}
	if !model.IsAllowedDigestAlgorithm(provider.DigestAlgorithm) {
		return &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Digest algorithm is not allowed.", Detail: provider.DigestAlgorithm}
	}
	return nil
}
