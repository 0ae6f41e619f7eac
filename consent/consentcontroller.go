package consent

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniauth/saml-idp-core/model"
)

// ConsentController is the surface the SSO flow uses to decide whether the
// consent screen has to be shown and to record an accepted agreement.
type ConsentController struct {
	tracker *Tracker
}

func NewConsentController(tracker *Tracker) *ConsentController {
	return &ConsentController{tracker: tracker}
}

type agreementRequest struct {
	User       string   `json:"user"`
	SpEntityId string   `json:"spEntityId"`
	Attrs      []string `json:"attrs"`
}

type agreementCheck struct {
	NeedsAgreement bool `json:"needsAgreement"`
}

func (cc *ConsentController) CheckAgreement(c *gin.Context) {
	request, problem := readAgreementRequest(c)
	if problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	needsAgreement, httpErr := cc.tracker.NeedsAgreement(request.User, request.SpEntityId, request.Attrs)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ProblemDetails{Type: "RepositoryError", Status: http.StatusInternalServerError, Title: "Unable to check the agreement.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, agreementCheck{NeedsAgreement: needsAgreement})
}

func (cc *ConsentController) CreateAgreement(c *gin.Context) {
	request, problem := readAgreementRequest(c)
	if problem != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, *problem)
		return
	}

	record, httpErr := cc.tracker.RecordAgreement(request.User, request.SpEntityId, request.Attrs)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "RepositoryError", Status: httpErr.Status, Title: "Failed to record the agreement.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusCreated, record)
}

func readAgreementRequest(c *gin.Context) (request agreementRequest, problem *model.ProblemDetails) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		return request, &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()}
	}
	err = json.Unmarshal(bodyData, &request)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		return request, &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()}
	}
	if request.User == "" || request.SpEntityId == "" {
		return request, &model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "User and spEntityId are required."}
	}
	return request, nil
}
