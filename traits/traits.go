// Package traits defines the field- and shape-level traits the converter
// pipeline consults: required-ness, wire-key renaming, unused-data
// opt-in, constructor-parameter binding, and timestamp formatting.
package traits

// Required represents a property that must be assigned during
// deserialization; MissingRequiredProperty is raised if it is not.
type Required struct{}

// TraitID identifies the trait.
func (*Required) TraitID() string { return "mpschema#required" }

// Key renames a property's wire name away from its Go field name.
type Key struct {
	Name string
}

// TraitID identifies the trait.
func (*Key) TraitID() string { return "mpschema#key" }

// UnusedData marks the property that should receive an UnusedDataPacket
// of unrecognized fields encountered during deserialization, opting the
// owning shape into unknown-key preservation instead of silent skipping.
type UnusedData struct{}

// TraitID identifies the trait.
func (*UnusedData) TraitID() string { return "mpschema#unusedData" }

// ConstructorParam marks a property as feeding a non-default constructor
// parameter instead of a setter, naming the parameter.
type ConstructorParam struct {
	Name string
}

// TraitID identifies the trait.
func (*ConstructorParam) TraitID() string { return "mpschema#constructorParam" }

// Sensitive marks a property whose value should never appear in
// diagnostic log output.
type Sensitive struct{}

// TraitID identifies the trait.
func (*Sensitive) TraitID() string { return "mpschema#sensitive" }
