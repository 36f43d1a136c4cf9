package mpschema

// Trait represents metadata attached to a shape or property that the
// converter pipeline consults at construction time (required-ness, a
// renamed wire key, opt-in unused-data capture, and so on). Traits live in
// the mpschema/traits package; Trait itself is kept in the root package so
// Schema can reference it without an import cycle.
type Trait interface {
	TraitID() string
}
