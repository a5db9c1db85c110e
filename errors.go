package servicelayer

import (
	"errors"
)

// Layer errors. Build-time errors abort New before anything is
// constructed; lifecycle errors abort the call whose state guard they
// enforce. Lookup outcomes (not-found, ambiguous, undeclared) are
// ordinary result values, never errors - see LookupResult.
var (
	// Build-time validation errors
	ErrDuplicatePackage        = errors.New("duplicate package name")
	ErrDuplicateService        = errors.New("duplicate service id")
	ErrNilConstructor          = errors.New("service has no constructor")
	ErrDependencyNotResolvable = errors.New("declared dependency cannot be resolved")
	ErrDependencyAmbiguous     = errors.New("declared dependency has multiple providers")
	ErrReferenceNotResolvable  = errors.New("consumer reference cannot be resolved")

	// Lifecycle errors
	ErrLayerAlreadyStarted = errors.New("service layer already started")
	ErrLayerNotStarted     = errors.New("service layer not started")
	ErrLayerDestroyed      = errors.New("service layer destroyed")
	ErrCircularDependency  = errors.New("circular dependency detected")
	ErrServiceInvalidState = errors.New("service in invalid lifecycle state")

	// Property errors
	ErrPropertyNotFound = errors.New("property not found")
	ErrPropertyInvalid  = errors.New("property cannot be converted")
)
