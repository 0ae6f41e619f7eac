package pseudonym

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniauth/saml-idp-core/model"
)

// PseudonymController is the surface the SSO flow uses to resolve the
// persistent identifier of a user towards an SP.
type PseudonymController struct {
	allocator *Allocator
}

func NewPseudonymController(allocator *Allocator) *PseudonymController {
	return &PseudonymController{allocator: allocator}
}

type pseudonymRequest struct {
	User       string `json:"user"`
	SpEntityId string `json:"spEntityId"`
}

func (pc *PseudonymController) GetOrCreatePseudonym(c *gin.Context) {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to read body", Detail: err.Error()})
		return
	}

	var request pseudonymRequest
	err = json.Unmarshal(bodyData, &request)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "Unable to unmarshal body.", Detail: err.Error()})
		return
	}
	if request.User == "" || request.SpEntityId == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Type: "BadRequest", Status: http.StatusBadRequest, Title: "User and spEntityId are required."})
		return
	}

	identifier, httpErr := pc.allocator.GetOrCreate(request.User, request.SpEntityId)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ProblemDetails{Type: "AllocationError", Status: httpErr.Status, Title: "Was not able to resolve the identifier.", Detail: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, identifier)
}
