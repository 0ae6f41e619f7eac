package trust

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

func getProvider(entityId string, isValid bool, isActive bool, mapping string) model.ServiceProvider {
	return model.ServiceProvider{
		EntityId:           entityId,
		DisplayName:        "Test SP",
		AttributeProcessor: model.DefaultProcessor,
		AttributeMapping:   mapping,
		SigningAlgorithm:   model.SigRsaSha256,
		DigestAlgorithm:    model.DigestSha256,
		IsValid:            isValid,
		IsActive:           isActive,
	}
}

type configurationTest struct {
	testName        string
	dbProviders     []model.ServiceProvider
	expectedEntries []string
}

func getConfigurationTests() []configurationTest {
	return []configurationTest{
		{"An active provider is part of the configuration.",
			[]model.ServiceProvider{getProvider("https://sp.example.org/saml", true, true, "{\"email\":\"mail\"}")},
			[]string{"https://sp.example.org/saml"}},
		{"An inactive provider is not part of the configuration.",
			[]model.ServiceProvider{getProvider("https://sp.example.org/saml", true, false, "{\"email\":\"mail\"}")},
			[]string{}},
		{"Activity alone decides, validity is not re-checked.",
			[]model.ServiceProvider{getProvider("https://sp.example.org/saml", false, true, "{\"email\":\"mail\"}")},
			[]string{"https://sp.example.org/saml"}},
		{"A provider with an unusable mapping only excludes itself.",
			[]model.ServiceProvider{
				getProvider("https://broken.example.org/saml", true, true, "no-json"),
				getProvider("https://sp.example.org/saml", true, true, "{\"email\":\"mail\"}")},
			[]string{"https://sp.example.org/saml"}},
		{"An empty registry produces an empty configuration.",
			[]model.ServiceProvider{},
			[]string{}},
	}
}

func TestActiveConfiguration(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	for _, tc := range getConfigurationTests() {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestActiveConfiguration +++++++++++++++++ Running test: %s", tc.testName)
			repo := NewInmemoryRepo()
			for _, provider := range tc.dbProviders {
				(*repo.providerMap)[provider.EntityId] = provider
			}
			registry := NewRegistry(repo)

			configuration, httpErr := registry.ActiveConfiguration()
			if httpErr != (model.HttpError{}) {
				t.Errorf("%s: Building the configuration should not fail, but was %v.", tc.testName, httpErr)
			}
			if len(configuration) != len(tc.expectedEntries) {
				t.Errorf("%s: Expected %d entries, but got %d.", tc.testName, len(tc.expectedEntries), len(configuration))
			}
			for _, entityId := range tc.expectedEntries {
				if _, ok := configuration[entityId]; !ok {
					t.Errorf("%s: Expected %s to be part of the configuration.", tc.testName, entityId)
				}
			}
		})
	}
}

func TestAsConfig(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	provider := model.ServiceProvider{
		EntityId:                   "https://sp.example.org/saml",
		DisplayName:                "Test SP",
		Description:                "An sp for testing.",
		AgreementScreen:            true,
		AgreementConsentForm:       true,
		AgreementMessage:           "Please agree.",
		SigningAlgorithm:           model.SigRsaSha256,
		DigestAlgorithm:            model.DigestSha256,
		DisableEncryptedAssertions: true,
		AttributeProcessor:         model.DefaultProcessor,
		AttributeMapping:           "{\"email\":\"mail\",\"first_name\":\"givenName\"}",
		ForceAttributeRelease:      true,
		IsValid:                    true,
		IsActive:                   true,
	}

	expectedConfig := model.SPConfig{
		Processor:                   model.DefaultProcessor,
		AttributeMapping:            map[string]string{"email": "mail", "first_name": "givenName"},
		ForceAttributeRelease:       true,
		DisplayName:                 "Test SP",
		DisplayDescription:          "An sp for testing.",
		DisplayAgreementMessage:     "Please agree.",
		SigningAlgorithm:            model.SigRsaSha256,
		DigestAlgorithm:             model.DigestSha256,
		DisableEncryptedAssertions:  true,
		ShowUserAgreementScreen:     true,
		DisplayAgreementConsentForm: true,
	}

	config, err := AsConfig(provider)
	if err != nil {
		t.Errorf("The projection should succeed, but was %v.", err)
	}
	if !cmp.Equal(expectedConfig, config) {
		t.Errorf("The projection differs: %s", cmp.Diff(expectedConfig, config))
	}

	// the projection has to be deterministic for a fixed entry
	again, _ := AsConfig(provider)
	if !cmp.Equal(config, again) {
		t.Errorf("The projection is not deterministic: %s", cmp.Diff(config, again))
	}
}

func TestAsConfigRejectsBrokenMapping(t *testing.T) {
	_, err := AsConfig(getProvider("https://sp.example.org/saml", true, true, "no-json"))
	if err == nil {
		t.Errorf("A broken mapping should not project into a configuration.")
	}
}
