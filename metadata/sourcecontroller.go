package metadata

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

// SourceController is the admin surface over the metadata feeds and the
// source snapshot consumed by the protocol library.
type SourceController struct {
	sourceRepo SourceRepository
	aggregator *Aggregator
}

func NewSourceController(sourceRepo SourceRepository, aggregator *Aggregator) *SourceController {
	return &SourceController{sourceRepo: sourceRepo, aggregator: aggregator}
}

func (sc *SourceController) CreateMetadataSource(c *gin.Context) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()})
		return
	}

	var source model.MetadataSource
	err = json.Unmarshal(bodyData, &source)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()})
		return
	}
	if problem := checkSource(source); problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	// feeds start unvalidated and disabled, only validation changes that
	source.IsValid = false
	source.IsActive = false

	created, httpErr := sc.sourceRepo.CreateSource(source)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to create source %s.", logging.PrettyPrintObject(source))
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Failed to create source.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusCreated, created)
}

func (sc *SourceController) ReplaceMetadataSource(c *gin.Context) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()})
		return
	}

	var source model.MetadataSource
	err = json.Unmarshal(bodyData, &source)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()})
		return
	}

	id, idErr := sourceId(c)
	if idErr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *idErr)
		return
	}
	if source.Id != id {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Id cannot be updated."})
		return
	}
	if problem := checkSource(source); problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	existing, httpErr := sc.sourceRepo.GetSource(id)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Source not found.", Detail: httpErr.Message})
		return
	}

	// validity is owned by the validation engine, activation requires it
	source.IsValid = existing.IsValid
	if source.IsActive && !source.IsValid {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Source has to be validated before it can be activated."})
		return
	}

	httpErr = sc.sourceRepo.PutSource(source)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to replace source %s.", logging.PrettyPrintObject(source))
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Failed to replace source.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (sc *SourceController) GetMetadataSourceById(c *gin.Context) {
	id, idErr := sourceId(c)
	if idErr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *idErr)
		return
	}
	source, httpErr := sc.sourceRepo.GetSource(id)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Source not found.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, source)
}

func (sc *SourceController) DeleteMetadataSourceById(c *gin.Context) {
	id, idErr := sourceId(c)
	if idErr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *idErr)
		return
	}
	httpErr := sc.sourceRepo.DeleteSource(id)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "NotFound", Status: httpErr.Status, Title: "Source not found.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (sc *SourceController) GetMetadataSources(c *gin.Context) {
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

	sources, httpErr := sc.sourceRepo.GetSources(limit, offset)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ProblemDetails{Type: "RepositoryError", Status: http.StatusInternalServerError, Title: "Unable to get sources from repo", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, sources)
}

// GetMetadataStore serves the source snapshot consumed by the protocol
// library.
func (sc *SourceController) GetMetadataStore(c *gin.Context) {
	snapshot, httpErr := sc.aggregator.ActiveSources()
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ProblemDetails{Type: "RepositoryError", Status: http.StatusInternalServerError, Title: "Unable to build the source snapshot.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, snapshot)
}

func sourceId(c *gin.Context) (int64, *model.ProblemDetails) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &model.ProblemDetails{Type: "InvalidParameter", Status: http.StatusBadRequest, Title: "Invalid source id", Detail: c.Param("id")}
	}
	return id, nil
}

func checkSource(source model.MetadataSource) *model.ProblemDetails {
	if source.Name == "" {
		return &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Sources need a name."}
	}
	if !model.IsKnownSourceKind(source.Kind) {
		return &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Source kind is not supported.", Detail: source.Kind}
	}
	if (source.Kind == model.SourceKindRemote || source.Kind == model.SourceKindMdq) && source.Url == "" {
		return &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Remote and mdq sources need a url."}
	}
	return nil
}
