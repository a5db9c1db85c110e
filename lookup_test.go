package servicelayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func indexFixture() lookupIndex {
	nodes := map[string]*serviceNode{
		"geo.mercator": {id: "geo.mercator", desc: ServiceDescriptor{
			Provides: []ProvidedInterface{{Interface: "geo.Projector", Qualifier: "mercator"}},
		}},
		"geo.plain": {id: "geo.plain", desc: ServiceDescriptor{
			Provides: []ProvidedInterface{{Interface: "geo.Projector"}},
		}},
		"geo.index-a": {id: "geo.index-a", desc: ServiceDescriptor{
			Provides: []ProvidedInterface{{Interface: "geo.Index"}},
		}},
		"geo.index-b": {id: "geo.index-b", desc: ServiceDescriptor{
			Provides: []ProvidedInterface{{Interface: "geo.Index"}},
		}},
	}
	order := []string{"geo.mercator", "geo.plain", "geo.index-a", "geo.index-b"}
	return buildLookupIndex(order, nodes)
}

func TestResolveFound(t *testing.T) {
	idx := indexFixture()

	res := idx.resolve(InterfaceSpec{Interface: "geo.Projector", Qualifier: "mercator"})
	assert.Equal(t, LookupFound, res.outcome)
	assert.Equal(t, "geo.mercator", res.nodeID)

	// The unqualified spec is its own key, not a fallback for the
	// qualified provider.
	res = idx.resolve(InterfaceSpec{Interface: "geo.Projector"})
	assert.Equal(t, LookupFound, res.outcome)
	assert.Equal(t, "geo.plain", res.nodeID)
}

func TestResolveNotFound(t *testing.T) {
	idx := indexFixture()

	res := idx.resolve(InterfaceSpec{Interface: "geo.Router"})
	assert.Equal(t, LookupNotFound, res.outcome)

	res = idx.resolve(InterfaceSpec{Interface: "geo.Projector", Qualifier: "robinson"})
	assert.Equal(t, LookupNotFound, res.outcome)
}

func TestResolveAmbiguous(t *testing.T) {
	idx := indexFixture()

	res := idx.resolve(InterfaceSpec{Interface: "geo.Index"})
	assert.Equal(t, LookupAmbiguous, res.outcome)
	assert.Equal(t, []string{"geo.index-a", "geo.index-b"}, res.providers)
}

func TestLookupOutcomeString(t *testing.T) {
	assert.Equal(t, "found", LookupFound.String())
	assert.Equal(t, "not-found", LookupNotFound.String())
	assert.Equal(t, "ambiguous", LookupAmbiguous.String())
	assert.Equal(t, "undeclared", LookupUndeclared.String())
	assert.Equal(t, "unknown", LookupOutcome(42).String())
}
