package validation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniauth/saml-idp-core/model"
)

// ValidationController exposes the admin re-validation endpoints. A failed
// validation is not an error of the request: the flag change is persisted
// and the failure description is returned for the administrator to act on.
type ValidationController struct {
	engine *Engine
}

func NewValidationController(engine *Engine) *ValidationController {
	return &ValidationController{engine: engine}
}

type validationResult struct {
	IsValid  bool   `json:"isValid"`
	IsActive bool   `json:"isActive"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func (vc *ValidationController) ValidateServiceProvider(c *gin.Context) {
	entityId := c.Param("id")
	provider, httpErr := vc.engine.providerRepo.GetProvider(entityId)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Provider not found.", Detail: httpErr.Message})
		return
	}

	validated, validationErr, httpErr := vc.engine.ValidateServiceProvider(provider)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Was not able to persist the validation result.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, asResult(validated.IsValid, validated.IsActive, validationErr))
}

func (vc *ValidationController) ValidateMetadataSource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "InvalidParameter", Status: http.StatusBadRequest, Title: "Invalid source id", Detail: c.Param("id")})
		return
	}
	source, httpErr := vc.engine.sourceRepo.GetSource(id)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Source not found.", Detail: httpErr.Message})
		return
	}

	validated, validationErr, httpErr := vc.engine.ValidateMetadataSource(source)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Was not able to persist the validation result.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, asResult(validated.IsValid, validated.IsActive, validationErr))
}

func asResult(isValid bool, isActive bool, validationErr *model.ValidationError) validationResult {
	result := validationResult{IsValid: isValid, IsActive: isActive}
	if validationErr != nil {
		result.Error = validationErr.Message
		result.Kind = string(validationErr.Kind)
	}
	return result
}

// RevalidateSources re-runs the source checks for every stored entry. Used
// by the optional scheduled re-validation, one bad entry never stops the
// sweep.
func (vc *ValidationController) RevalidateSources() {
	sources, httpErr := vc.engine.sourceRepo.GetSources(1000, 0)
	if httpErr != (model.HttpError{}) {
		logger.Warnf("Was not able to list the sources for re-validation. Err: %s", httpErr.Message)
		return
	}
	for _, source := range sources {
		if _, validationErr, httpErr := vc.engine.ValidateMetadataSource(source); httpErr != (model.HttpError{}) {
			logger.Warnf("Re-validation of source %d could not be persisted. Err: %s", source.Id, httpErr.Message)
		} else if validationErr != nil {
			logger.Infof("Source %d failed re-validation: %s", source.Id, validationErr.Message)
		}
	}
}
