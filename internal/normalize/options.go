package normalize

// Options names the namespace conventions of the documented project.
type Options struct {
	// Namespace every public symbol lives in, e.g. "Highcharts".
	Namespace string
	// RootType is the interface holding the top-level options, e.g. "Options".
	RootType string
	// Aliases maps local names of the namespace to the namespace, e.g. "H" to "Highcharts".
	Aliases map[string]string
	// InstanceClasses are classes whose static-looking members are instance members,
	// `Series.x` becomes `Highcharts.Series#x`.
	InstanceClasses []string
	// StaticNamespaces are moved below the namespace, `seriesTypes.x` becomes `Highcharts.seriesTypes.x`.
	StaticNamespaces []string
	IncludePrivate   bool
	// AllowDangling reports unresolved memberof references as warnings instead of failing.
	AllowDangling bool
}

// DefaultOptions returns the conventions of the Highcharts sources.
func DefaultOptions() Options {
	return Options{
		Namespace:        "Highcharts",
		RootType:         "Options",
		Aliases:          map[string]string{"H": "Highcharts"},
		InstanceClasses:  []string{"Series"},
		StaticNamespaces: []string{"seriesTypes"},
	}
}
