package servicelayer

// InterfaceSpec identifies a capability a service provides or requires:
// an interface name plus an optional qualifier that disambiguates
// multiple providers of the same interface.
//
// The empty Qualifier means "unqualified", which is distinct from every
// qualifier value: an unqualified spec matches only providers registered
// without a qualifier, and a qualified spec matches only providers
// registered with exactly that qualifier. There is no wildcard or
// fallback matching.
//
// InterfaceSpec is a value type; two specs are equal iff both fields
// match.
type InterfaceSpec struct {
	Interface string
	Qualifier string
}

// Qualified reports whether the spec carries a qualifier.
func (s InterfaceSpec) Qualified() bool {
	return s.Qualifier != ""
}

// String renders the spec as "name" or "name[qualifier]" for error
// messages and logs.
func (s InterfaceSpec) String() string {
	if s.Qualifier == "" {
		return s.Interface
	}
	return s.Interface + "[" + s.Qualifier + "]"
}
