package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penglongli/gin-metrics/ginmetrics"
	"github.com/procyon-projects/chrono"
	"github.com/subosito/gotenv"

	"github.com/uniauth/saml-idp-core/config"
	"github.com/uniauth/saml-idp-core/consent"
	idphttp "github.com/uniauth/saml-idp-core/http"
	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/metadata"
	"github.com/uniauth/saml-idp-core/processor"
	"github.com/uniauth/saml-idp-core/pseudonym"
	dbSql "github.com/uniauth/saml-idp-core/sql"
	"github.com/uniauth/saml-idp-core/trust"
	"github.com/uniauth/saml-idp-core/validation"
)

/**
* Global logger
 */
var logger = logging.Log()

/**
* Port to run the idp-core at. Default is 8080.
 */
var serverPort int = 8080

func init() {
	gotenv.Load()

	serverPortEnvVar := os.Getenv("SERVER_PORT")
	if serverPortEnvVar == "" {
		return
	}
	port, err := strconv.Atoi(serverPortEnvVar)
	if err != nil {
		logger.Fatalf("No valid server port was provided: %s.", serverPortEnvVar)
		return
	}
	serverPort = port
}

/**
* Startup method to run the gin-server.
 */
func main() {
	envConfig := config.EnvConfig{}
	idphttp.SetTimeout(envConfig.MetadataRequestTimeout())

	var providerRepo trust.ProviderRepository
	var sourceRepo metadata.SourceRepository
	var agreementRepo consent.AgreementRepository
	var identifierRepo pseudonym.IdentifierRepository

	if os.Getenv("MYSQL_HOST") != "" {
		repository := dbSql.GetMySqlRepository()
		providerRepo = trust.NewSqlRepository(repository)
		sourceRepo = metadata.NewSqlRepository(repository)
		agreementRepo = consent.NewSqlRepository(repository)
		identifierRepo = pseudonym.NewSqlRepository(repository)
		idphttp.RegisterCheck("mysql", repository.Ping)
		logger.Infof("Connected to mysql as storage backend.")
	} else {
		logger.Warn("Repositories are kept in-memory. No persistence will be applied, do NEVER use this for anything but development or testing!")
		providerRepo = trust.NewInmemoryRepo()
		sourceRepo = metadata.NewInmemoryRepo()
		agreementRepo = consent.NewInmemoryRepo()
		identifierRepo = pseudonym.NewInmemoryRepo()
	}

	var fileStore metadata.FileStore
	if envConfig.ObjectStorageEnabled() {
		fileStore = metadata.ObjectFileStore{BaseUrl: envConfig.MediaUrl()}
		logger.Infof("Attached metadata files are served from object storage at %s.", envConfig.MediaUrl())
	} else {
		fileStore = metadata.DiskFileStore{BaseDir: envConfig.MediaDir()}
	}

	processorRegistry := processor.NewRegistry()

	trustRegistry := trust.NewRegistry(providerRepo)
	aggregator := metadata.NewAggregator(sourceRepo, fileStore)
	entityIndex := metadata.NewStoreEntityIndex(sourceRepo, fileStore)
	engine := validation.NewEngine(providerRepo, sourceRepo, processorRegistry, entityIndex, fileStore, idphttp.HttpClient())
	tracker := consent.NewTracker(agreementRepo, envConfig.AgreementValidityHours(), consent.RealClock{})
	allocator := pseudonym.NewAllocator(identifierRepo)

	providerController := trust.NewProviderController(providerRepo, trustRegistry, agreementRepo, identifierRepo)
	sourceController := metadata.NewSourceController(sourceRepo, aggregator)
	validationController := validation.NewValidationController(engine)
	consentController := consent.NewConsentController(tracker)
	pseudonymController := pseudonym.NewPseudonymController(allocator)

	router := gin.New()
	router.Use(logging.GinHandlerFunc(), gin.Recovery())

	monitor := ginmetrics.GetMonitor()
	monitor.SetMetricPath("/metrics")
	monitor.Use(router)

	router.GET("/health", idphttp.HealthReq)

	admin := router.Group("/")
	if adminSecret := os.Getenv("ADMIN_TOKEN_SECRET"); adminSecret != "" {
		admin.Use(idphttp.AdminTokenHandlerFunc(adminSecret))
	} else {
		logger.Warn("No admin token secret configured, the admin api is unprotected.")
	}

	// sp trust entries
	admin.POST("/provider", providerController.CreateServiceProvider)
	admin.GET("/provider", providerController.GetServiceProviders)
	admin.GET("/provider/:id", providerController.GetServiceProviderById)
	admin.PUT("/provider/:id", providerController.ReplaceServiceProvider)
	admin.DELETE("/provider/:id", providerController.DeleteServiceProviderById)
	admin.POST("/provider/:id/validate", validationController.ValidateServiceProvider)

	// metadata feeds
	admin.POST("/source", sourceController.CreateMetadataSource)
	admin.GET("/source", sourceController.GetMetadataSources)
	admin.GET("/source/:id", sourceController.GetMetadataSourceById)
	admin.PUT("/source/:id", sourceController.ReplaceMetadataSource)
	admin.DELETE("/source/:id", sourceController.DeleteMetadataSourceById)
	admin.POST("/source/:id/validate", validationController.ValidateMetadataSource)

	// snapshots and sso collaborator surface
	router.GET("/configuration", providerController.GetActiveConfiguration)
	router.GET("/mdstore", sourceController.GetMetadataStore)
	router.POST("/provider/:id/seen", providerController.MarkServiceProviderSeen)
	router.POST("/agreement/check", consentController.CheckAgreement)
	router.POST("/agreement", consentController.CreateAgreement)
	router.POST("/pseudonym", pseudonymController.GetOrCreatePseudonym)

	scheduleSourceRevalidation(validationController)

	router.Run(fmt.Sprintf("0.0.0.0:%v", serverPort))
}

// scheduleSourceRevalidation starts the optional periodic re-validation of
// the metadata feeds. The core itself stays scheduler-free, re-validation is
// just another external trigger.
func scheduleSourceRevalidation(validationController *validation.ValidationController) {
	intervalEnv := os.Getenv("SOURCE_REVALIDATION_INTERVAL_MINUTES")
	if intervalEnv == "" {
		return
	}
	minutes, err := strconv.Atoi(intervalEnv)
	if err != nil || minutes <= 0 {
		logger.Warnf("Invalid SOURCE_REVALIDATION_INTERVAL_MINUTES %s, re-validation stays disabled.", intervalEnv)
		return
	}

	taskScheduler := chrono.NewDefaultTaskScheduler()
	_, err = taskScheduler.ScheduleWithFixedDelay(func(ctx context.Context) {
		validationController.RevalidateSources()
	}, time.Duration(minutes)*time.Minute)
	if err != nil {
		logger.Warnf("Was not able to schedule the source re-validation. Err: %v", err)
		return
	}
	logger.Infof("Metadata sources will be re-validated every %d minutes.", minutes)
}
