package traits

// TimestampFormat pins the wire representation of a DateTime-shaped
// property (e.g. "epoch-seconds", "date-time"), mirroring
// smithy.api#timestampFormat for the subset meaningful to a binary codec
// that has no native timestamp token of its own.
type TimestampFormat struct {
	Format string
}

// TraitID identifies the trait.
func (*TimestampFormat) TraitID() string { return "mpschema#timestampFormat" }

// DefaultValuesPolicyOverride lets one property opt out of the
// serializer-wide default-values policy (e.g. always emit a particular
// property even when SkipIfDefault is in effect).
type DefaultValuesPolicyOverride struct {
	AlwaysEmit bool
}

// TraitID identifies the trait.
func (*DefaultValuesPolicyOverride) TraitID() string { return "mpschema#defaultValuesPolicyOverride" }
