package model

// Property declares a subtype-specific field and its default value
type Property struct {
	Key   string // The field name as it appears on the node
	Value any    // Default assigned when a node of the type is constructed
}

// NewProperty creates a new Property with the given key and default value
func NewProperty(key string, value any) Property {
	return Property{
		Key:   key,
		Value: value,
	}
}

// PropertyContainer holds the subtype-specific fields of a node or edge
type PropertyContainer struct {
	Properties map[string]any
}

// NewPropertyContainer creates an empty PropertyContainer
func NewPropertyContainer() *PropertyContainer {
	return &PropertyContainer{Properties: make(map[string]any)}
}

// AddProperty adds or updates a property
func (p *PropertyContainer) AddProperty(key string, value any) {
	if p.Properties == nil {
		p.Properties = make(map[string]any)
	}
	p.Properties[key] = value
}

// GetProperty retrieves a property value by key
func (p *PropertyContainer) GetProperty(key string) (any, bool) {
	value, exists := p.Properties[key]
	return value, exists
}

// RemoveProperty removes a property
func (p *PropertyContainer) RemoveProperty(key string) {
	delete(p.Properties, key)
}

// RenameProperty moves the value stored under oldKey to newKey. An existing
// value under newKey is overwritten. Returns false when oldKey is absent.
func (p *PropertyContainer) RenameProperty(oldKey, newKey string) bool {
	value, exists := p.Properties[oldKey]
	if !exists {
		return false
	}
	delete(p.Properties, oldKey)
	p.Properties[newKey] = value
	return true
}
