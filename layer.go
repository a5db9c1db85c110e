// Package servicelayer is a dependency-injection runtime. It wires a set
// of declared services - each exposing interfaces and depending on
// interfaces exposed by other services - into a dependency graph,
// constructs them dependencies-first, shares instances between dependents
// with reference counting, and tears everything down in reverse order.
// Dynamic lookups are authorized against the consumer references each
// package declared up front.
//
// Basic usage:
//
//	layer, err := servicelayer.New(packages, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := layer.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer layer.Destroy()
//
//	result, err := layer.GetService("geo", servicelayer.InterfaceSpec{Interface: "geo.Projector"})
package servicelayer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// LayerState tracks the layer as a whole. Transitions are monotonic:
// not-started -> started -> destroyed, with destroy reachable from any
// state.
type LayerState int

const (
	LayerNotStarted LayerState = iota
	LayerStarted
	LayerDestroyed
)

func (s LayerState) String() string {
	switch s {
	case LayerNotStarted:
		return "not-started"
	case LayerStarted:
		return "started"
	case LayerDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// ServiceLayer owns the full service set, the lookup index, and the
// consumer declaration index. It drives construction and destruction and
// exposes the authorized dynamic-lookup entry point.
//
// A single mutex guards Start, Destroy, and GetService: recursive
// construction walks and mutates shared node state, so the whole surface
// is serialized. Constructors and destructors run under that lock and
// must not call back into the layer.
type ServiceLayer struct {
	mu    sync.Mutex
	state LayerState

	nodes    map[string]*serviceNode
	order    []string
	lookup   lookupIndex
	declared declarationIndex

	logger Logger

	observerMu sync.RWMutex
	observers  map[string]*observerRegistration
}

// New builds a service layer from the supplied packages and validates
// the whole dependency graph up front: duplicate names, missing
// constructors, and any declared dependency or consumer reference that
// cannot be resolved fail the build with a descriptive error before
// anything is constructed. A nil logger is replaced with NoopLogger.
func New(packages []Package, logger Logger) (*ServiceLayer, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	layer := &ServiceLayer{
		nodes:     make(map[string]*serviceNode),
		logger:    logger,
		observers: make(map[string]*observerRegistration),
	}

	seen := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		if seen[pkg.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePackage, pkg.Name)
		}
		seen[pkg.Name] = true

		for _, desc := range pkg.Services {
			id := pkg.Name + "." + desc.Name
			if _, exists := layer.nodes[id]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateService, id)
			}
			if desc.Constructor == nil {
				return nil, fmt.Errorf("%w: %s", ErrNilConstructor, id)
			}
			layer.nodes[id] = &serviceNode{id: id, pkg: pkg.Name, desc: desc}
			layer.order = append(layer.order, id)
		}
	}

	layer.lookup = buildLookupIndex(layer.order, layer.nodes)
	if err := layer.validate(packages); err != nil {
		return nil, err
	}
	layer.declared = buildDeclarationIndex(packages)

	logger.Debug("Service layer built", "packages", len(packages), "services", len(layer.order))
	return layer, nil
}

// validate checks every declared service dependency and every consumer
// reference against the lookup index. Dependencies must resolve to
// exactly one provider. Consumer references must have at least one
// provider; an ambiguous target is allowed here and surfaces as the
// ambiguous outcome when the lookup actually happens.
func (l *ServiceLayer) validate(packages []Package) error {
	for _, id := range l.order {
		for _, dep := range l.nodes[id].desc.Requires {
			res := l.lookup.resolve(dep.Spec)
			switch res.outcome {
			case LookupNotFound:
				return fmt.Errorf("%w: %s required by %s", ErrDependencyNotResolvable, dep.Spec, id)
			case LookupAmbiguous:
				return fmt.Errorf("%w: %s required by %s (providers: %s)",
					ErrDependencyAmbiguous, dep.Spec, id, strings.Join(res.providers, ", "))
			}
		}
	}
	for _, pkg := range packages {
		for _, ref := range pkg.References {
			if res := l.lookup.resolve(ref); res.outcome == LookupNotFound {
				return fmt.Errorf("%w: %s declared by package %s", ErrReferenceNotResolvable, ref, pkg.Name)
			}
		}
	}
	return nil
}

// State returns the layer's current lifecycle state.
func (l *ServiceLayer) State() LayerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start constructs every service in the layer, dependencies first. A
// second call is rejected, not silently ignored. On failure the layer is
// left as-is: already-constructed services stay alive and Destroy
// remains the way to tear them down.
func (l *ServiceLayer) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case LayerStarted:
		return fmt.Errorf("%w: Start called twice", ErrLayerAlreadyStarted)
	case LayerDestroyed:
		return fmt.Errorf("%w: Start called after Destroy", ErrLayerDestroyed)
	}

	for _, id := range l.order {
		node := l.nodes[id]
		if node.state != StateNotConstructed {
			// Already pulled in as a dependency of an earlier service.
			continue
		}
		if _, err := l.construct(id, nil); err != nil {
			l.emitEvent(context.Background(), EventTypeLayerFailed, map[string]any{"error": err.Error()})
			return err
		}
		node.rootHeld = true
	}

	l.state = LayerStarted
	l.logger.Info("Service layer started", "services", len(l.order))
	l.emitEvent(context.Background(), EventTypeLayerStarted, map[string]any{"services": len(l.order)})
	return nil
}

// construct recursively materializes the node and everything it depends
// on, returning the shared instance. path is the chain of ids currently
// under construction, used to report cycles.
func (l *ServiceLayer) construct(id string, path []string) (any, error) {
	node := l.nodes[id]
	switch node.state {
	case StateConstructed:
		node.refCount++
		l.logger.Debug("Sharing service", "service", id, "refCount", node.refCount)
		l.emitEvent(context.Background(), EventTypeServiceShared,
			map[string]any{"service": id, "refCount": node.refCount})
		return node.instance, nil
	case StateConstructing:
		// The graph is validated acyclic against declared descriptors, so
		// hitting a node twice on one path means the descriptors were
		// tampered with after validation. Last-resort guard.
		chain := strings.Join(append(slices.Clone(path), id), " -> ")
		return nil, fmt.Errorf("%w: cycle: %s", ErrCircularDependency, chain)
	case StateNotConstructed:
		// proceed
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrServiceInvalidState, id, node.state)
	}

	node.state = StateConstructing
	path = append(path, id)

	references := make(map[string]any, len(node.desc.Requires))
	for _, dep := range node.desc.Requires {
		res := l.lookup.resolve(dep.Spec)
		if res.outcome != LookupFound {
			return nil, fmt.Errorf("%w: %s required by %s resolved %s after validation",
				ErrServiceInvalidState, dep.Spec, id, res.outcome)
		}
		instance, err := l.construct(res.nodeID, path)
		if err != nil {
			return nil, err
		}
		references[dep.Ref] = instance
	}

	instance, err := node.desc.Constructor(Dependencies{References: references, Properties: node.desc.Properties})
	if err != nil {
		return nil, fmt.Errorf("failed to construct service %s: %w", id, err)
	}

	node.instance = instance
	node.state = StateConstructed
	node.refCount = 1
	l.logger.Debug("Constructed service", "service", id)
	l.emitEvent(context.Background(), EventTypeServiceConstructed, map[string]any{"service": id})
	return instance, nil
}

// Destroy tears the layer down whatever its current state and always
// leaves it destroyed. Services are released in reverse declaration
// order so dependents release before their dependencies; a shared
// service's destructor runs exactly once, when its last holder lets go.
// Destructor errors are logged and the last one is returned after
// teardown completes.
func (l *ServiceLayer) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for i := len(l.order) - 1; i >= 0; i-- {
		id := l.order[i]
		node := l.nodes[id]
		if !node.rootHeld {
			// The layer holds no reference of its own; the node is
			// released through its dependents.
			continue
		}
		if err := l.release(id); err != nil {
			lastErr = err
		}
	}

	// A failed Start can orphan services constructed for the failing
	// path: no root reference and no constructed dependent reaches them.
	// Release whatever is still constructed so every destructor runs.
	for i := len(l.order) - 1; i >= 0; i-- {
		id := l.order[i]
		if l.nodes[id].state != StateConstructed {
			continue
		}
		if err := l.release(id); err != nil {
			lastErr = err
		}
	}

	l.state = LayerDestroyed
	l.logger.Info("Service layer destroyed")
	l.emitEvent(context.Background(), EventTypeLayerDestroyed, nil)
	return lastErr
}

// release decrements the node's reference count, runs the destructor
// when the count reaches zero, and then propagates release to the
// node's dependencies regardless of whether its own destructor ran. Each
// dependency sees one decrement per incoming construction edge.
func (l *ServiceLayer) release(id string) error {
	node := l.nodes[id]
	if node.state != StateConstructed {
		// Destroyed already, never constructed, or stuck mid-construction
		// after a failed Start: nothing to release here.
		return nil
	}

	var lastErr error
	node.refCount--
	if node.refCount <= 0 {
		if node.desc.Destructor != nil {
			if err := node.desc.Destructor(); err != nil {
				l.logger.Error("Error destroying service", "service", id, "error", err)
				lastErr = fmt.Errorf("failed to destroy service %s: %w", id, err)
			}
		}
		node.instance = nil
		node.state = StateDestroyed
		l.logger.Debug("Destroyed service", "service", id)
		l.emitEvent(context.Background(), EventTypeServiceDestroyed, map[string]any{"service": id})
	} else {
		l.logger.Debug("Released service reference", "service", id, "refCount", node.refCount)
	}

	for _, dep := range node.desc.Requires {
		if res := l.lookup.resolve(dep.Spec); res.outcome == LookupFound {
			if err := l.release(res.nodeID); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// GetService performs an authorized dynamic lookup on behalf of pkg. The
// layer must be started. The outcome is a value, not an error: callers
// branch on undeclared (pkg never declared a consumer reference for
// spec), not-found, ambiguous, or found with the shared instance.
func (l *ServiceLayer) GetService(pkg string, spec InterfaceSpec) (LookupResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != LayerStarted {
		return LookupResult{}, fmt.Errorf("%w: GetService called in state %s", ErrLayerNotStarted, l.state)
	}

	if !l.declared.authorized(pkg, spec) {
		l.logger.Warn("Undeclared dynamic lookup", "package", pkg, "interface", spec.String())
		l.emitEvent(context.Background(), EventTypeLookupDenied,
			map[string]any{"package": pkg, "interface": spec.String()})
		return LookupResult{Outcome: LookupUndeclared}, nil
	}

	res := l.lookup.resolve(spec)
	if res.outcome != LookupFound {
		return LookupResult{Outcome: res.outcome}, nil
	}
	return LookupResult{Outcome: LookupFound, Instance: l.nodes[res.nodeID].instance}, nil
}
