package trust

import (
	"github.com/uniauth/saml-idp-core/model"
)

// Registry produces the per-SP release configuration consumed by the
// protocol-library binding.
type Registry struct {
	providerRepo ProviderRepository
}

func NewRegistry(providerRepo ProviderRepository) *Registry {
	return &Registry{providerRepo: providerRepo}
}

// ActiveConfiguration projects every active SP entry into its release
// configuration, keyed by entity id. An entry that cannot be projected only
// excludes itself, it never aborts the snapshot.
func (registry *Registry) ActiveConfiguration() (configuration map[string]model.SPConfig, httpErr model.HttpError) {
	providers, httpErr := registry.providerRepo.GetActiveProviders()
	if httpErr != (model.HttpError{}) {
		return configuration, httpErr
	}

	configuration = map[string]model.SPConfig{}
	for _, provider := range providers {
		config, err := AsConfig(provider)
		if err != nil {
			logger.Warnf("Provider %s has an unusable attribute mapping and is excluded from the configuration. Err: %v", provider.EntityId, err)
			continue
		}
		configuration[provider.EntityId] = config
	}
	return configuration, model.HttpError{}
}

// AsConfig is the pure projection of a single SP entry. Deterministic for a
// fixed entry, no I/O.
func AsConfig(provider model.ServiceProvider) (config model.SPConfig, err error) {
	attributeMapping, err := model.ParseAttributeMapping(provider.AttributeMapping)
	if err != nil {
		return config, err
	}
	return model.SPConfig{
		Processor:                   provider.AttributeProcessor,
		AttributeMapping:            attributeMapping,
		ForceAttributeRelease:       provider.ForceAttributeRelease,
		DisplayName:                 provider.DisplayName,
		DisplayDescription:          provider.Description,
		DisplayAgreementMessage:     provider.AgreementMessage,
		SigningAlgorithm:            provider.SigningAlgorithm,
		DigestAlgorithm:             provider.DigestAlgorithm,
		DisableEncryptedAssertions:  provider.DisableEncryptedAssertions,
		ShowUserAgreementScreen:     provider.AgreementScreen,
		DisplayAgreementConsentForm: provider.AgreementConsentForm,
	}, nil
}
