package servicelayer

// Dependencies carries everything a constructor receives: the resolved
// dependency instances keyed by their declared reference names, and the
// service's own static properties.
type Dependencies struct {
	References map[string]any
	Properties Properties
}

// Constructor builds a service instance from its resolved dependencies.
// Every dependency listed in the descriptor's Requires is present in
// deps.References, fully constructed, before the constructor runs.
// The layer treats constructors as synchronous and opaque; it applies no
// timeout or cancellation to them.
type Constructor func(deps Dependencies) (any, error)

// Destructor releases a service instance's resources. It runs at most
// once, after every dependent has released the instance.
type Destructor func() error

// ProvidedInterface declares one interface a service satisfies,
// optionally under a qualifier.
type ProvidedInterface struct {
	Interface string
	Qualifier string
}

func (p ProvidedInterface) spec() InterfaceSpec {
	return InterfaceSpec{Interface: p.Interface, Qualifier: p.Qualifier}
}

// ServiceDependency declares one dependency a service requires at
// construction. Ref is the key under which the resolved instance is
// passed to the constructor.
type ServiceDependency struct {
	Spec InterfaceSpec
	Ref  string
}

// ServiceDescriptor describes one service contributed by a package: the
// interfaces it implements, the dependencies it needs, its static
// configuration, and the entry points the layer drives. Descriptors are
// read-only once handed to New.
type ServiceDescriptor struct {
	// Name is the service name, unique within its package. The layer
	// addresses the service by the id "package.name".
	Name string

	// Provides lists the interfaces this service satisfies.
	Provides []ProvidedInterface

	// Requires lists the dependencies resolved and constructed before
	// this service's constructor runs, in declaration order.
	Requires []ServiceDependency

	// Properties holds static configuration owned by this service.
	Properties Properties

	// Constructor builds the instance. Required; New rejects descriptors
	// without one.
	Constructor Constructor

	// Destructor tears the instance down. Optional.
	Destructor Destructor
}

// ServiceState tracks a service instance through its lifecycle. The only
// legal transitions are not-constructed -> constructing -> constructed
// -> destroyed; a service reaches constructed at most once per layer
// lifetime.
type ServiceState int

const (
	StateNotConstructed ServiceState = iota
	StateConstructing
	StateConstructed
	StateDestroyed
)

func (s ServiceState) String() string {
	switch s {
	case StateNotConstructed:
		return "not-constructed"
	case StateConstructing:
		return "constructing"
	case StateConstructed:
		return "constructed"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// serviceNode is one entry in the layer's arena: a descriptor plus the
// mutable lifecycle state, addressed by the stable id "package.service".
// Recursion during construction and destruction walks ids, never raw
// references. Only the layer mutates nodes.
type serviceNode struct {
	id   string
	pkg  string
	desc ServiceDescriptor

	state    ServiceState
	refCount int
	instance any

	// rootHeld marks nodes the layer constructed directly during Start,
	// as opposed to nodes first pulled in as a dependency. The layer
	// releases its own reference to exactly these nodes on Destroy.
	rootHeld bool
}
