package servicelayer

// declaredInterface records how one package declared one interface: an
// unqualified declaration, a set of specific qualifiers, or both.
type declaredInterface struct {
	unqualified bool
	qualifiers  map[string]struct{}
}

// declarationIndex maps package name -> interface name -> declarations.
// Built once from the packages' consumer references and used only to
// authorize dynamic lookups; it plays no part in construction.
type declarationIndex map[string]map[string]*declaredInterface

// buildDeclarationIndex collects every consumer reference across all
// packages. It is a pure function of its input.
func buildDeclarationIndex(packages []Package) declarationIndex {
	idx := make(declarationIndex)
	for _, pkg := range packages {
		if len(pkg.References) == 0 {
			continue
		}
		byInterface := idx[pkg.Name]
		if byInterface == nil {
			byInterface = make(map[string]*declaredInterface)
			idx[pkg.Name] = byInterface
		}
		for _, ref := range pkg.References {
			decl := byInterface[ref.Interface]
			if decl == nil {
				decl = &declaredInterface{qualifiers: make(map[string]struct{})}
				byInterface[ref.Interface] = decl
			}
			if ref.Qualified() {
				decl.qualifiers[ref.Qualifier] = struct{}{}
			} else {
				decl.unqualified = true
			}
		}
	}
	return idx
}

// authorized reports whether pkg declared intent to look up spec. The
// match is exact: an unqualified lookup needs an unqualified declaration,
// and a qualified lookup needs that very qualifier. Declaring one
// qualifier authorizes neither another qualifier nor the unqualified
// form.
func (idx declarationIndex) authorized(pkg string, spec InterfaceSpec) bool {
	decl := idx[pkg][spec.Interface]
	if decl == nil {
		return false
	}
	if spec.Qualified() {
		_, ok := decl.qualifiers[spec.Qualifier]
		return ok
	}
	return decl.unqualified
}
