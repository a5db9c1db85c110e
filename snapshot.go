package servicelayer

// ServiceSnapshot is a point-in-time view of one service node.
type ServiceSnapshot struct {
	ID       string   `json:"id"`
	Package  string   `json:"package"`
	State    string   `json:"state"`
	RefCount int      `json:"refCount"`
	Provides []string `json:"provides,omitempty"`
}

// EdgeSnapshot is one dependency edge of the graph. To is empty when the
// edge's interface has no unique provider.
type EdgeSnapshot struct {
	From      string `json:"from"`
	To        string `json:"to,omitempty"`
	Ref       string `json:"ref"`
	Interface string `json:"interface"`
}

// GraphSnapshot is a read-only copy of the whole dependency graph, for
// diagnostics and the debug HTTP surface. Nodes appear in declaration
// order.
type GraphSnapshot struct {
	LayerState string            `json:"layerState"`
	Services   []ServiceSnapshot `json:"services"`
	Edges      []EdgeSnapshot    `json:"edges"`
}

// Snapshot captures the current state of every service and every
// dependency edge. The snapshot is a copy; holding it does not pin the
// layer.
func (l *ServiceLayer) Snapshot() GraphSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := GraphSnapshot{LayerState: l.state.String()}
	for _, id := range l.order {
		node := l.nodes[id]
		svc := ServiceSnapshot{
			ID:       id,
			Package:  node.pkg,
			State:    node.state.String(),
			RefCount: node.refCount,
		}
		for _, provided := range node.desc.Provides {
			svc.Provides = append(svc.Provides, provided.spec().String())
		}
		snap.Services = append(snap.Services, svc)

		for _, dep := range node.desc.Requires {
			edge := EdgeSnapshot{From: id, Ref: dep.Ref, Interface: dep.Spec.String()}
			if res := l.lookup.resolve(dep.Spec); res.outcome == LookupFound {
				edge.To = res.nodeID
			}
			snap.Edges = append(snap.Edges, edge)
		}
	}
	return snap
}
