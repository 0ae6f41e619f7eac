package validation

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/metadata"
	"github.com/uniauth/saml-idp-core/model"
	"github.com/uniauth/saml-idp-core/processor"
	"github.com/uniauth/saml-idp-core/trust"
)

var logger = logging.Log()

// EntityIndex answers whether an entity id is present in the currently
// aggregated metadata. Backed by the protocol-library binding.
type EntityIndex interface {
	HasEntity(entityId string) bool
}

// ProcessorResolver resolves an attribute-processor reference to the
// registered strategy.
type ProcessorResolver interface {
	Resolve(name string) (processor.Processor, *model.ValidationError)
}

// Interface to the http-client
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Engine runs the structural and reachability checks on SP and
// metadata-source entries and writes the resulting validity/activity flags.
// The flag pair is only ever written here: a failing check forces
// is_active=false and sets is_valid to the then-current is_active value, a
// fully successful run sets is_valid=true and leaves is_active as the
// administrator configured it.
type Engine struct {
	providerRepo trust.ProviderRepository
	sourceRepo   metadata.SourceRepository
	processors   ProcessorResolver
	entityIndex  EntityIndex
	fileStore    metadata.FileStore
	client       httpClient
}

func NewEngine(providerRepo trust.ProviderRepository, sourceRepo metadata.SourceRepository, processors ProcessorResolver, entityIndex EntityIndex, fileStore metadata.FileStore, client httpClient) *Engine {
	return &Engine{providerRepo: providerRepo, sourceRepo: sourceRepo, processors: processors, entityIndex: entityIndex, fileStore: fileStore, client: client}
}

// ValidateServiceProvider re-derives the flags of an SP entry. All checks
// run even after a failure, the message of the last failing check is the one
// reported.
func (engine *Engine) ValidateServiceProvider(provider model.ServiceProvider) (validated model.ServiceProvider, validationErr *model.ValidationError, httpErr model.HttpError) {
	if _, err := engine.processors.Resolve(provider.AttributeProcessor); err != nil {
		validationErr = err
		provider.IsActive = false
	}

	if _, err := model.ParseAttributeMapping(provider.AttributeMapping); err != nil {
		validationErr = &model.ValidationError{Kind: model.ErrorMalformedMapping, Message: fmt.Sprintf("Attribute mapping is not a valid JSON mapping: %v", err), RootError: err}
		provider.IsActive = false
	}

	if !engine.entityIndex.HasEntity(provider.EntityId) {
		validationErr = &model.ValidationError{Kind: model.ErrorEntityNotInMetadata, Message: fmt.Sprintf("%s is not present in any metadata.", provider.EntityId)}
		provider.IsActive = false
	}

	if validationErr != nil {
		provider.IsValid = provider.IsActive
	} else {
		provider.IsValid = true
	}

	httpErr = engine.providerRepo.PutProvider(provider)
	if httpErr != (model.HttpError{}) {
		logger.Warnf("Was not able to persist the validation result for %s. Err: %s", provider.EntityId, httpErr.Message)
		return provider, validationErr, httpErr
	}
	return provider, validationErr, model.HttpError{}
}

// ValidateMetadataSource re-derives the flags of a metadata feed. Validation
// is idempotent, every call re-checks reachability respectively document
// well-formedness; the kwargs check always runs last and its failure wins.
func (engine *Engine) ValidateMetadataSource(source model.MetadataSource) (validated model.MetadataSource, validationErr *model.ValidationError, httpErr model.HttpError) {
	switch source.Kind {
	case model.SourceKindMdq:
		if err := engine.checkEndpoint(http.MethodHead, source.Url+"/entities/"); err != nil {
			validationErr = err
			source.IsActive = false
		}
	case model.SourceKindRemote:
		if err := engine.checkEndpoint(http.MethodGet, source.Url); err != nil {
			validationErr = err
			source.IsActive = false
		}
	case model.SourceKindLocal:
		if err := engine.checkLocalDocuments(source); err != nil {
			validationErr = err
			source.IsActive = false
		}
		if source.Url == "" && source.File == "" {
			validationErr = &model.ValidationError{Kind: model.ErrorEmptySource, Message: "Empty file or url for \"local\" kind. Metadata is not valid."}
			source.IsActive = false
		}
	}

	if _, err := model.ParseKwargs(source.Kwargs); err != nil {
		validationErr = &model.ValidationError{Kind: model.ErrorMalformedKwargs, Message: fmt.Sprintf("Kwargs JSON format error: %v", err), RootError: err}
		source.IsActive = false
	}

	if validationErr != nil {
		source.IsValid = source.IsActive
	} else {
		source.IsValid = true
	}

	httpErr = engine.sourceRepo.PutSource(source)
	if httpErr != (model.HttpError{}) {
		logger.Warnf("Was not able to persist the validation result for source %d. Err: %s", source.Id, httpErr.Message)
		return source, validationErr, httpErr
	}
	return source, validationErr, model.HttpError{}
}

func (engine *Engine) checkEndpoint(method string, url string) *model.ValidationError {
	request, err := http.NewRequest(method, url, nil)
	if err != nil {
		return &model.ValidationError{Kind: model.ErrorSourceUnreachable, Message: fmt.Sprintf("Endpoint is not reachable: %v", err), RootError: err}
	}
	response, err := engine.client.Do(request)
	if err != nil {
		return &model.ValidationError{Kind: model.ErrorSourceUnreachable, Message: fmt.Sprintf("Endpoint is not reachable: %v", err), RootError: err}
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return &model.ValidationError{Kind: model.ErrorSourceUnreachable, Message: fmt.Sprintf("%s query failed with status %d.", url, response.StatusCode)}
	}
	return nil
}

func (engine *Engine) checkLocalDocuments(source model.MetadataSource) *model.ValidationError {
	if source.File != "" {
		document, err := engine.readAttachedFile(source.File)
		if err != nil {
			return &model.ValidationError{Kind: model.ErrorMalformedXML, Message: fmt.Sprintf("Found an invalid XML: %v", err), RootError: err}
		}
		if err := metadata.CheckXMLDocument(document); err != nil {
			return &model.ValidationError{Kind: model.ErrorMalformedXML, Message: fmt.Sprintf("Found an invalid XML: %v", err), RootError: err}
		}
	}
	if source.Url != "" {
		entries, err := os.ReadDir(source.Url)
		if err != nil {
			return &model.ValidationError{Kind: model.ErrorMalformedXML, Message: fmt.Sprintf("Found an invalid XML: %v", err), RootError: err}
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			document, err := os.ReadFile(filepath.Join(source.Url, entry.Name()))
			if err != nil {
				return &model.ValidationError{Kind: model.ErrorMalformedXML, Message: fmt.Sprintf("Found an invalid XML: %v", err), RootError: err}
			}
			if err := metadata.CheckXMLDocument(document); err != nil {
				return &model.ValidationError{Kind: model.ErrorMalformedXML, Message: fmt.Sprintf("Found an invalid XML: %v", err), RootError: err}
			}
		}
	}
	return nil
}

// readAttachedFile loads the attached document from its resolved location,
// fetching it over http when the deployment stores files in an object store.
func (engine *Engine) readAttachedFile(fileRef string) ([]byte, error) {
	location := engine.fileStore.Resolve(fileRef)
	if location.Kind == metadata.LocationPath {
		return os.ReadFile(location.Value)
	}

	request, err := http.NewRequest(http.MethodGet, location.Value, nil)
	if err != nil {
		return nil, err
	}
	response, err := engine.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s failed with status %d", location.Value, response.StatusCode)
	}
	return ioutil.ReadAll(response.Body)
}
