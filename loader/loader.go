// Package loader reads service-layer package manifests from YAML or TOML
// files and binds them to registered constructors, producing the
// packages a servicelayer.ServiceLayer is built from.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/modulant/servicelayer"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	ErrNoFactory         = errors.New("no factory registered for service")
	ErrEmptyManifest     = errors.New("manifest declares no packages")
)

// Factory binds a manifest service to runtime behavior.
type Factory struct {
	Construct servicelayer.Constructor
	Destroy   servicelayer.Destructor
}

// Registry maps service ids ("package.service") to factories.
type Registry map[string]Factory

// Register binds a factory to a service id, replacing any previous
// binding.
func (r Registry) Register(id string, factory Factory) {
	r[id] = factory
}

// LoadFile parses one manifest file. The file extension selects the
// codec: .yaml/.yml or .toml.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseYAML decodes a YAML manifest.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
	}
	return &m, nil
}

// ParseTOML decodes a TOML manifest.
func ParseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse TOML manifest: %w", err)
	}
	return &m, nil
}

// Build converts a manifest into layer packages, binding every service
// to its registered factory. A service without a bound factory fails the
// build.
func Build(m *Manifest, factories Registry) ([]servicelayer.Package, error) {
	if len(m.Packages) == 0 {
		return nil, ErrEmptyManifest
	}
	packages := make([]servicelayer.Package, 0, len(m.Packages))
	for _, pm := range m.Packages {
		pkg, err := buildPackage(pm, factories)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// BuildStatic converts a manifest into layer packages with stub
// constructors, for tooling that only needs the graph validated (see
// cmd/layerlint). The resulting packages must not be started.
func BuildStatic(m *Manifest) ([]servicelayer.Package, error) {
	if len(m.Packages) == 0 {
		return nil, ErrEmptyManifest
	}
	stub := Factory{Construct: func(servicelayer.Dependencies) (any, error) {
		return struct{}{}, nil
	}}
	packages := make([]servicelayer.Package, 0, len(m.Packages))
	for _, pm := range m.Packages {
		factories := make(Registry, len(pm.Services))
		for _, sm := range pm.Services {
			factories[pm.Name+"."+sm.Name] = stub
		}
		pkg, err := buildPackage(pm, factories)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

func buildPackage(pm PackageManifest, factories Registry) (servicelayer.Package, error) {
	pkg := servicelayer.Package{Name: pm.Name}
	for _, sm := range pm.Services {
		id := pm.Name + "." + sm.Name
		factory, ok := factories[id]
		if !ok {
			return servicelayer.Package{}, fmt.Errorf("%w: %s", ErrNoFactory, id)
		}

		desc := servicelayer.ServiceDescriptor{
			Name:        sm.Name,
			Properties:  servicelayer.Properties(sm.Properties),
			Constructor: factory.Construct,
			Destructor:  factory.Destroy,
		}
		for _, provided := range sm.Provides {
			desc.Provides = append(desc.Provides, servicelayer.ProvidedInterface{
				Interface: provided.Interface,
				Qualifier: provided.Qualifier,
			})
		}
		for _, required := range sm.Requires {
			ref := required.Ref
			if ref == "" {
				ref = required.Interface
			}
			desc.Requires = append(desc.Requires, servicelayer.ServiceDependency{
				Spec: servicelayer.InterfaceSpec{Interface: required.Interface, Qualifier: required.Qualifier},
				Ref:  ref,
			})
		}
		pkg.Services = append(pkg.Services, desc)
	}
	for _, ref := range pm.References {
		pkg.References = append(pkg.References, servicelayer.InterfaceSpec{
			Interface: ref.Interface,
			Qualifier: ref.Qualifier,
		})
	}
	return pkg, nil
}
