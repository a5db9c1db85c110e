package servicelayer_test

import (
	"context"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulant/servicelayer"
)

// The integration scenario wires three packages the way a host would: a
// storage package, a geo package consuming it, and a ui package that
// only performs dynamic lookups. Everything goes through the exported
// API.

type store struct {
	open bool
}

type geocoder struct {
	store     *store
	precision int
}

func storagePackage(rec *[]string) servicelayer.Package {
	return servicelayer.Package{
		Name: "storage",
		Services: []servicelayer.ServiceDescriptor{{
			Name:     "store",
			Provides: []servicelayer.ProvidedInterface{{Interface: "storage.Store"}},
			Constructor: func(servicelayer.Dependencies) (any, error) {
				*rec = append(*rec, "construct storage.store")
				return &store{open: true}, nil
			},
			Destructor: func() error {
				*rec = append(*rec, "destroy storage.store")
				return nil
			},
		}},
	}
}

func geoPackage(rec *[]string) servicelayer.Package {
	return servicelayer.Package{
		Name: "geo",
		Services: []servicelayer.ServiceDescriptor{{
			Name:       "geocoder",
			Provides:   []servicelayer.ProvidedInterface{{Interface: "geo.Geocoder"}},
			Properties: servicelayer.Properties{"precision": "7"},
			Requires: []servicelayer.ServiceDependency{{
				Spec: servicelayer.InterfaceSpec{Interface: "storage.Store"},
				Ref:  "store",
			}},
			Constructor: func(deps servicelayer.Dependencies) (any, error) {
				*rec = append(*rec, "construct geo.geocoder")
				precision, err := deps.Properties.Int("precision")
				if err != nil {
					return nil, err
				}
				return &geocoder{store: deps.References["store"].(*store), precision: precision}, nil
			},
			Destructor: func() error {
				*rec = append(*rec, "destroy geo.geocoder")
				return nil
			},
		}},
	}
}

func TestLayerEndToEnd(t *testing.T) {
	var rec []string
	packages := []servicelayer.Package{
		geoPackage(&rec),
		storagePackage(&rec),
		{Name: "ui", References: []servicelayer.InterfaceSpec{{Interface: "geo.Geocoder"}}},
	}

	layer, err := servicelayer.New(packages, nil)
	require.NoError(t, err)

	var eventTypes []string
	observer := servicelayer.NewFunctionalObserver("audit", func(_ context.Context, e cloudevents.Event) error {
		eventTypes = append(eventTypes, e.Type())
		return nil
	})
	require.NoError(t, layer.RegisterObserver(observer))

	require.NoError(t, layer.Start())
	require.Equal(t, []string{
		"construct storage.store",
		"construct geo.geocoder",
	}, rec)

	// ui declared geo.Geocoder and gets the shared instance.
	result, err := layer.GetService("ui", servicelayer.InterfaceSpec{Interface: "geo.Geocoder"})
	require.NoError(t, err)
	require.Equal(t, servicelayer.LookupFound, result.Outcome)
	g, ok := result.Instance.(*geocoder)
	require.True(t, ok)
	assert.True(t, g.store.open)
	assert.Equal(t, 7, g.precision)

	// ui never declared storage.Store; the probe comes back undeclared,
	// not as an error.
	result, err = layer.GetService("ui", servicelayer.InterfaceSpec{Interface: "storage.Store"})
	require.NoError(t, err)
	assert.Equal(t, servicelayer.LookupUndeclared, result.Outcome)

	snap := layer.Snapshot()
	assert.Equal(t, "started", snap.LayerState)
	assert.Len(t, snap.Services, 2)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "geo.geocoder", snap.Edges[0].From)
	assert.Equal(t, "storage.store", snap.Edges[0].To)

	require.NoError(t, layer.Destroy())
	require.Equal(t, []string{
		"construct storage.store",
		"construct geo.geocoder",
		"destroy geo.geocoder",
		"destroy storage.store",
	}, rec)

	assert.Contains(t, eventTypes, servicelayer.EventTypeLayerStarted)
	assert.Contains(t, eventTypes, servicelayer.EventTypeLookupDenied)
	assert.Contains(t, eventTypes, servicelayer.EventTypeLayerDestroyed)

	_, err = layer.GetService("ui", servicelayer.InterfaceSpec{Interface: "geo.Geocoder"})
	assert.ErrorIs(t, err, servicelayer.ErrLayerNotStarted)
}
