package processor

// Processor is a pluggable strategy transforming internal user attributes
// into the SAML attribute values released to an SP. Implementations are
// registered by name at process start and resolved by the name an SP entry
// configures.
type Processor interface {
	TransformAttributes(userAttributes map[string]interface{}, attributeMapping map[string]string) map[string]interface{}
}

// BaseProcessor releases the mapped attributes as-is: every internal
// attribute present on the user and named in the mapping is emitted under
// its SAML name.
type BaseProcessor struct{}

func (BaseProcessor) TransformAttributes(userAttributes map[string]interface{}, attributeMapping map[string]string) map[string]interface{} {
	released := map[string]interface{}{}
	for internalName, samlName := range attributeMapping {
		if value, ok := userAttributes[internalName]; ok {
			released[samlName] = value
		}
	}
	return released
}
