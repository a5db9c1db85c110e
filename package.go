package servicelayer

// Package bundles the services one deployment unit contributes to a
// layer, together with its consumer references: static declarations that
// code in the package intends to look up the given interface dynamically
// at runtime via GetService. Packages are read-only once supplied to New.
type Package struct {
	// Name is the package name, unique across the layer.
	Name string

	// Services are the service descriptors this package contributes.
	Services []ServiceDescriptor

	// References authorize dynamic lookups. A GetService call from this
	// package succeeds only for interface/qualifier pairs declared here;
	// anything else reports the undeclared outcome.
	References []InterfaceSpec
}
