package processor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uniauth/saml-idp-core/model"
)

func TestBaseProcessorReleasesMappedAttributes(t *testing.T) {
	userAttributes := map[string]interface{}{"email": "user@example.org", "first_name": "User", "is_staff": true}
	attributeMapping := map[string]string{"email": "mail", "first_name": "givenName", "last_name": "sn"}

	released := BaseProcessor{}.TransformAttributes(userAttributes, attributeMapping)

	expected := map[string]interface{}{"mail": "user@example.org", "givenName": "User"}
	if !cmp.Equal(expected, released) {
		t.Errorf("The released attributes differ: %s", cmp.Diff(expected, released))
	}
}

func TestRegistryResolvesTheBaseProcessor(t *testing.T) {
	registry := NewRegistry()

	if _, validationErr := registry.Resolve(model.DefaultProcessor); validationErr != nil {
		t.Errorf("The base processor should always be registered, but was %v.", validationErr)
	}

	_, validationErr := registry.Resolve("no-such-processor")
	if validationErr == nil {
		t.Errorf("An unregistered processor should not resolve.")
	} else if validationErr.Kind != model.ErrorUnknownProcessor {
		t.Errorf("Expected error kind %s, but was %s.", model.ErrorUnknownProcessor, validationErr.Kind)
	}
}

func TestRegisteredProcessorsResolve(t *testing.T) {
	registry := NewRegistry()
	registry.Register("uppercase", BaseProcessor{})

	if _, validationErr := registry.Resolve("uppercase"); validationErr != nil {
		t.Errorf("A registered processor should resolve, but was %v.", validationErr)
	}
}
