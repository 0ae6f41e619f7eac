package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hellofresh/health-go/v5"
)

var healthCheck *health.Health

func init() {
	healthCheck, _ = health.New(health.WithComponent(health.Component{
		Name: "saml-idp-core",
	}))
}

func HealthReq(c *gin.Context) {
	checkResult := healthCheck.Measure(c.Request.Context())
	if checkResult.Status == health.StatusOK {
		c.AbortWithStatusJSON(http.StatusOK, checkResult)
	} else {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, checkResult)
	}
}

// RegisterCheck attaches a named check to the health endpoint, e.g. the
// storage-backend ping.
func RegisterCheck(name string, check health.CheckFunc) {
	err := healthCheck.Register(health.Config{Name: name, Timeout: 5 * time.Second, Check: check})
	if err != nil {
		logger.Warnf("Was not able to register the %s health check. Err: %v", name, err)
	}
}
