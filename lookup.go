package servicelayer

// LookupOutcome tags the result of resolving an interface specification.
// These are ordinary values callers branch on, never errors: they
// distinguish "no provider exists" from "several providers exist" from
// "the caller never declared this lookup".
type LookupOutcome int

const (
	LookupFound LookupOutcome = iota
	LookupNotFound
	LookupAmbiguous
	LookupUndeclared
)

func (o LookupOutcome) String() string {
	switch o {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not-found"
	case LookupAmbiguous:
		return "ambiguous"
	case LookupUndeclared:
		return "undeclared"
	default:
		return "unknown"
	}
}

// LookupResult is the answer to GetService: the outcome plus, for a
// found service, its constructed instance.
type LookupResult struct {
	Outcome  LookupOutcome
	Instance any
}

// resolution is the lookup index's answer for one spec: the unique
// providing node, or why there is none.
type resolution struct {
	outcome   LookupOutcome
	nodeID    string
	providers []string
}

// lookupIndex maps interface specifications to the ids of the nodes
// providing them. Built once by buildLookupIndex and never mutated
// afterwards; more than one id under a spec means that combination is
// ambiguous.
type lookupIndex map[InterfaceSpec][]string

// buildLookupIndex indexes every provided interface of every node, in
// declaration order. It is a pure function of its input.
func buildLookupIndex(order []string, nodes map[string]*serviceNode) lookupIndex {
	idx := make(lookupIndex)
	for _, id := range order {
		for _, provided := range nodes[id].desc.Provides {
			spec := provided.spec()
			idx[spec] = append(idx[spec], id)
		}
	}
	return idx
}

// resolve answers with exactly one of found, not-found, or ambiguous.
// Matching is exact on both interface name and qualifier.
func (idx lookupIndex) resolve(spec InterfaceSpec) resolution {
	providers := idx[spec]
	switch len(providers) {
	case 0:
		return resolution{outcome: LookupNotFound}
	case 1:
		return resolution{outcome: LookupFound, nodeID: providers[0]}
	default:
		return resolution{outcome: LookupAmbiguous, providers: providers}
	}
}
