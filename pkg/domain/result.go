package domain

// RequestResult is the result set the caller is browsing.
// ExpandedPackageID is empty or the id of one of Packages.
type RequestResult struct {
	Query             PackageQuery
	Packages          []TravelPackage
	ExpandedPackageID string
}

// Find returns a copy of the package with the given id.
func (r RequestResult) Find(packageID string) (TravelPackage, bool) {
	for _, p := range r.Packages {
		if p.PackageID == packageID {
			return p.Clone(), true
		}
	}
	return TravelPackage{}, false
}

// Expanded returns the currently expanded package, if any.
func (r RequestResult) Expanded() (TravelPackage, bool) {
	if r.ExpandedPackageID == "" {
		return TravelPackage{}, false
	}
	return r.Find(r.ExpandedPackageID)
}

// Toggled returns a copy with packageID expanded, or collapsed if it
// already was. Ids outside the result set leave the selection unchanged.
func (r RequestResult) Toggled(packageID string) RequestResult {
	if r.ExpandedPackageID == packageID {
		r.ExpandedPackageID = ""
		return r
	}
	if _, ok := r.Find(packageID); ok {
		r.ExpandedPackageID = packageID
	}
	return r
}

// Clone deep-copies the packages so callers cannot alias internal state.
func (r RequestResult) Clone() RequestResult {
	if r.Packages != nil {
		pkgs := make([]TravelPackage, len(r.Packages))
		for i, p := range r.Packages {
			pkgs[i] = p.Clone()
		}
		r.Packages = pkgs
	}
	return r
}
