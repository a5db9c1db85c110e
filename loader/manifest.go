package loader

// Manifest is the top-level descriptor document. One file may declare
// any number of packages; a layer is usually assembled from several
// files loaded separately and concatenated by the host.
type Manifest struct {
	Packages []PackageManifest `yaml:"packages" toml:"packages"`
}

// PackageManifest declares one package: its services and the consumer
// references that authorize dynamic lookups from code in the package.
type PackageManifest struct {
	Name       string              `yaml:"name" toml:"name"`
	Services   []ServiceManifest   `yaml:"services" toml:"services"`
	References []ReferenceManifest `yaml:"references" toml:"references"`
}

// ServiceManifest declares one service. Behavior (constructor and
// destructor) is code and cannot live in a manifest; Build binds each
// service to a factory registered under its id "package.name".
type ServiceManifest struct {
	Name       string             `yaml:"name" toml:"name"`
	Provides   []ProvidesManifest `yaml:"provides" toml:"provides"`
	Requires   []RequiresManifest `yaml:"requires" toml:"requires"`
	Properties map[string]any     `yaml:"properties" toml:"properties"`
}

// ProvidesManifest declares one provided interface.
type ProvidesManifest struct {
	Interface string `yaml:"interface" toml:"interface"`
	Qualifier string `yaml:"qualifier" toml:"qualifier"`
}

// RequiresManifest declares one dependency. Ref defaults to the
// interface name when omitted.
type RequiresManifest struct {
	Interface string `yaml:"interface" toml:"interface"`
	Qualifier string `yaml:"qualifier" toml:"qualifier"`
	Ref       string `yaml:"ref" toml:"ref"`
}

// ReferenceManifest declares one consumer reference.
type ReferenceManifest struct {
	Interface string `yaml:"interface" toml:"interface"`
	Qualifier string `yaml:"qualifier" toml:"qualifier"`
}
