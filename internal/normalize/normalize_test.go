package normalize

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/tools/txtar"

	"github.com/nieomylnieja/optdoc/internal/scanner"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

func scanProject(t *testing.T) (*optiontree.Tree, []*doclet.Doclet, []string) {
	t.Helper()
	archive, err := txtar.ParseFile(filepath.Join("testdata", "project.txtar"))
	require.NoError(t, err)
	tree := optiontree.New()
	s := scanner.New(tree, nil)
	files := make([]string, 0, len(archive.Files))
	for _, f := range archive.Files {
		require.NoError(t, s.ScanSource(context.Background(), f.Name, f.Data))
		files = append(files, f.Name)
	}
	tree.Finalize(nil)
	return tree, s.Doclets(), files
}

func byLongname(doclets []*doclet.Doclet) map[string]*doclet.Doclet {
	m := make(map[string]*doclet.Doclet, len(doclets))
	for _, d := range doclets {
		m[d.Longname] = d
	}
	return m
}

func TestNormalize(t *testing.T) {
	tree, authored, files := scanProject(t)

	result, err := New(DefaultOptions(), nil).Normalize(tree, authored, files)
	require.NoError(t, err)

	longnames := make([]string, 0, len(result.Doclets))
	for _, d := range result.Doclets {
		longnames = append(longnames, d.Longname)
	}
	assert.Equal(t, []string{
		"Highcharts",
		"Highcharts.Chart",
		"Highcharts.Chart#colors",
		"Highcharts.Chart#hasRenderer",
		"Highcharts.Chart#index",
		"Highcharts.Chart#redraw",
		"Highcharts.ColorString",
		"Highcharts.Legacy",
		"Highcharts.Legacy.run",
		"Highcharts.Options",
		"Highcharts.Options.plotOptions",
		"Highcharts.PlotOptions",
		"Highcharts.PlotOptions.line",
		"Highcharts.PlotOptions.series",
		"Highcharts.PlotOptionsLine",
		"Highcharts.PlotOptionsLine.step",
		"Highcharts.PlotOptionsSeries",
		"Highcharts.PlotOptionsSeries.enabled",
		"Highcharts.PlotOptionsSeries.marker",
		"Highcharts.PlotOptionsSeriesMarker",
		"Highcharts.PlotOptionsSeriesMarker.radius",
		"Highcharts.chart",
	}, longnames)
	assert.Equal(t, []string{"Options.js", "Chart.js"}, result.SourceFiles)

	doclets := byLongname(result.Doclets)

	t.Run("synthesized members", func(t *testing.T) {
		marker := doclets["Highcharts.PlotOptionsSeries.marker"]
		assert.Equal(t, "Highcharts.PlotOptionsSeries", marker.Memberof)
		assert.Equal(t, []string{"Highcharts.PlotOptionsSeriesMarker"}, marker.Type.Names)
		assert.Equal(t, "Auto-gen doc for Highcharts.PlotOptionsSeries.marker", marker.Description)
		assert.True(t, marker.Optional)

		enabled := doclets["Highcharts.PlotOptionsSeries.enabled"]
		assert.Equal(t, "Enable or disable the series.", enabled.Description)
		assert.Equal(t, []string{"Boolean"}, enabled.Type.Names)
		assert.Equal(t, true, enabled.Defaultvalue)
		require.NotNil(t, enabled.Meta)
		assert.Equal(t, "Options.js", enabled.Meta.Shortpath)

		radius := doclets["Highcharts.PlotOptionsSeriesMarker.radius"]
		assert.Equal(t, []string{"Number"}, radius.Type.Names)
		assert.Equal(t, 4.0, radius.Defaultvalue)
	})

	t.Run("synthesized interfaces", func(t *testing.T) {
		series := doclets["Highcharts.PlotOptionsSeries"]
		assert.Equal(t, doclet.KindInterface, series.Kind)
		assert.Equal(t, "Highcharts", series.Memberof)
		assert.Equal(t, "General options for all series types.", series.Description)
		assert.Nil(t, series.Type)

		line := doclets["Highcharts.PlotOptionsLine"]
		assert.Equal(t, []string{"Highcharts.PlotOptionsSeries"}, line.Augments)

		root := doclets["Highcharts.Options"]
		assert.Equal(t, doclet.KindInterface, root.Kind)
		assert.Equal(t, []string{"Highcharts.PlotOptions"}, doclets["Highcharts.Options.plotOptions"].Type.Names)
	})

	t.Run("authored doclets", func(t *testing.T) {
		redraw := doclets["Highcharts.Chart#redraw"]
		assert.Equal(t, "Highcharts.Chart", redraw.Memberof)
		assert.Equal(t, doclet.KindFunction, redraw.Kind)

		colorString := doclets["Highcharts.ColorString"]
		assert.Equal(t, "Highcharts", colorString.Memberof)
		assert.Equal(t, doclet.ScopeStatic, colorString.Scope)

		colors := doclets["Highcharts.Chart#colors"]
		assert.Equal(t, "Highcharts.Chart", colors.Memberof)
		assert.Equal(t, []string{"Array.<Highcharts.ColorString>"}, colors.Type.Names)

		chart := doclets["Highcharts.Chart"]
		require.Len(t, chart.Params, 1)
		assert.Equal(t, []string{"Highcharts.Options"}, chart.Params[0].Type.Names)

		factory := doclets["Highcharts.chart"]
		require.Len(t, factory.Returns, 1)
		assert.Equal(t, []string{"Highcharts.Chart"}, factory.Returns[0].Type.Names)
	})

	t.Run("structural types", func(t *testing.T) {
		assert.Equal(t, []string{"Number"}, doclets["Highcharts.Chart#index"].Type.Names)
		assert.Equal(t, []string{"Boolean"}, doclets["Highcharts.Chart#hasRenderer"].Type.Names)
	})

	t.Run("mixin members are instance members", func(t *testing.T) {
		assert.Equal(t, doclet.ScopeInstance, doclets["Highcharts.Legacy.run"].Scope)
	})

	t.Run("code nodes are released", func(t *testing.T) {
		for _, d := range result.Doclets {
			if d.Meta != nil {
				assert.Nil(t, d.Meta.Code, d.Longname)
			}
		}
	})
}

func TestNormalize_QualificationIsIdempotent(t *testing.T) {
	tree, authored, files := scanProject(t)
	n := New(DefaultOptions(), nil)
	result, err := n.Normalize(tree, authored, files)
	require.NoError(t, err)

	before := make([]*doclet.Doclet, 0, len(result.Doclets))
	for _, d := range result.Doclets {
		before = append(before, d.Clone())
	}
	n.qualify(result.Doclets)
	if diff := cmp.Diff(before, result.Doclets, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("second qualification changed doclets (-before +after):\n%s", diff)
	}
}

func nestedUnqualified() []*doclet.Doclet {
	return []*doclet.Doclet{
		{
			Name: "y", Longname: "Chart.x.y", Memberof: "Chart.x",
			Kind: doclet.KindMember, Scope: doclet.ScopeStatic,
			Type: doclet.NewType("Array.<Chart.x>"),
		},
		{Name: "x", Longname: "Chart.x", Memberof: "Chart", Kind: doclet.KindMember, Scope: doclet.ScopeStatic},
		{Name: "Chart", Longname: "Chart", Kind: doclet.KindClass, Scope: doclet.ScopeGlobal},
		{Name: "Chart", Longname: "Highcharts.Chart", Memberof: "Highcharts", Kind: doclet.KindClass},
	}
}

func TestNormalize_QualifiesNestedMembers(t *testing.T) {
	n := New(DefaultOptions(), nil)
	result, err := n.Normalize(nil, nestedUnqualified(), nil)
	require.NoError(t, err)

	doclets := byLongname(result.Doclets)
	y := doclets["Highcharts.Chart.x.y"]
	require.NotNil(t, y)
	assert.Equal(t, "Highcharts.Chart.x", y.Memberof)
	assert.Equal(t, []string{"Array.<Highcharts.Chart.x>"}, y.Type.Names)

	before := make([]*doclet.Doclet, 0, len(result.Doclets))
	for _, d := range result.Doclets {
		before = append(before, d.Clone())
	}
	n.qualify(result.Doclets)
	if diff := cmp.Diff(before, result.Doclets, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("second qualification changed doclets (-before +after):\n%s", diff)
	}
}

func TestNormalize_RequiresFinalizedTree(t *testing.T) {
	_, err := New(DefaultOptions(), nil).Normalize(optiontree.New(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be finalized")
}

func TestNormalize_Dangling(t *testing.T) {
	dangling := func() []*doclet.Doclet {
		return []*doclet.Doclet{{
			Name:     "x",
			Longname: "Missing.x",
			Memberof: "Missing",
			Kind:     doclet.KindMember,
			Scope:    doclet.ScopeStatic,
			Type:     doclet.NewType("String"),
		}}
	}

	t.Run("fails by default", func(t *testing.T) {
		_, err := New(DefaultOptions(), nil).Normalize(nil, dangling(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Missing.x -> Missing")
	})

	t.Run("logged when allowed", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		opts := DefaultOptions()
		opts.AllowDangling = true
		result, err := New(opts, zap.New(core)).Normalize(nil, dangling(), nil)
		require.NoError(t, err)
		assert.Len(t, result.Doclets, 3)

		entries := logs.FilterMessage("memberof does not reference an existing doclet").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Missing.x", entries[0].ContextMap()["longname"])
	})
}

func TestRename(t *testing.T) {
	tests := map[string]struct {
		in       doclet.Doclet
		expected doclet.Doclet
	}{
		"alias": {
			in: doclet.Doclet{
				Longname: "H.Chart#redraw", Memberof: "H.Chart", Kind: doclet.KindFunction,
				Scope: doclet.ScopeInstance, Augments: []string{"H.Base"},
				Type: doclet.NewType("H.Point|Array.<H.Point>"),
			},
			expected: doclet.Doclet{
				Longname: "Highcharts.Chart#redraw", Memberof: "Highcharts.Chart", Kind: doclet.KindFunction,
				Scope: doclet.ScopeInstance, Augments: []string{"Highcharts.Base"},
				Type: doclet.NewType("Highcharts.Point|Array.<Highcharts.Point>"),
			},
		},
		"alias prefix of another name": {
			in:       doclet.Doclet{Longname: "Hx.y", Memberof: "Hx", Kind: doclet.KindMember, Scope: doclet.ScopeStatic},
			expected: doclet.Doclet{Longname: "Hx.y", Memberof: "Hx", Kind: doclet.KindMember, Scope: doclet.ScopeStatic},
		},
		"instance class": {
			in: doclet.Doclet{Longname: "Series.points", Memberof: "Series", Kind: doclet.KindMember, Scope: doclet.ScopeStatic},
			expected: doclet.Doclet{
				Longname: "Highcharts.Series#points", Memberof: "Highcharts.Series",
				Kind: doclet.KindMember, Scope: doclet.ScopeInstance,
			},
		},
		"static namespace": {
			in: doclet.Doclet{Longname: "seriesTypes.line", Memberof: "seriesTypes", Kind: doclet.KindClass, Scope: doclet.ScopeStatic},
			expected: doclet.Doclet{
				Longname: "Highcharts.seriesTypes.line", Memberof: "Highcharts.seriesTypes",
				Kind: doclet.KindClass, Scope: doclet.ScopeStatic,
			},
		},
		"bare global member": {
			in:       doclet.Doclet{Longname: "tmp", Kind: doclet.KindMember, Scope: doclet.ScopeGlobal},
			expected: doclet.Doclet{Longname: "tmp", Kind: doclet.KindMember, Scope: doclet.ScopeGlobal, Ignored: true},
		},
		"option carrier": {
			in:       doclet.Doclet{Longname: "x", Kind: doclet.KindMember, Scope: doclet.ScopeStatic, Apioption: true},
			expected: doclet.Doclet{Longname: "x", Kind: doclet.KindMember, Scope: doclet.ScopeStatic, Apioption: true, Ignored: true},
		},
		"typedef without parent": {
			in: doclet.Doclet{Name: "ColorString", Longname: "ColorString", Kind: doclet.KindTypedef, Scope: doclet.ScopeGlobal},
			expected: doclet.Doclet{
				Name: "ColorString", Longname: "Highcharts.ColorString", Memberof: "Highcharts",
				Kind: doclet.KindTypedef, Scope: doclet.ScopeStatic,
			},
		},
	}
	n := New(DefaultOptions(), nil)
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := tc.in
			n.rename(&d)
			if diff := cmp.Diff(tc.expected, d); diff != "" {
				t.Errorf("unexpected doclet (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQualify(t *testing.T) {
	doclets := []*doclet.Doclet{
		{Longname: "Highcharts.Point", Memberof: "Highcharts", Kind: doclet.KindClass},
		{Longname: "Highcharts.Series", Memberof: "Highcharts", Kind: doclet.KindClass},
		{
			Longname: "Point#update", Memberof: "Point", Kind: doclet.KindFunction, Scope: doclet.ScopeInstance,
			Params:  []doclet.Param{{Name: "p", Type: doclet.NewType("Point|Series", "Array.<Point|Series>")}},
			Returns: []doclet.Param{{Type: doclet.NewType("Local")}},
		},
		{Longname: "Point", Kind: doclet.KindClass, Scope: doclet.ScopeGlobal, Augments: []string{"Series"}},
	}
	New(DefaultOptions(), nil).qualify(doclets)

	update := doclets[2]
	assert.Equal(t, "Highcharts.Point#update", update.Longname)
	assert.Equal(t, "Highcharts.Point", update.Memberof)
	assert.Equal(t,
		[]string{"Highcharts.Point|Highcharts.Series", "Array.<Highcharts.Point|Highcharts.Series>"},
		update.Params[0].Type.Names)
	assert.Equal(t, []string{"Local"}, update.Returns[0].Type.Names)

	point := doclets[3]
	assert.Equal(t, "Highcharts.Point", point.Longname)
	assert.Equal(t, "Highcharts", point.Memberof)
	assert.Equal(t, doclet.ScopeStatic, point.Scope)
	assert.Equal(t, []string{"Highcharts.Series"}, point.Augments)

	deduped := dedupe(doclets)
	assert.Len(t, deduped, 3)
}

func TestQualify_NestedChain(t *testing.T) {
	doclets := nestedUnqualified()
	n := New(DefaultOptions(), nil)
	n.qualify(doclets)

	y, x, chart := doclets[0], doclets[1], doclets[2]
	assert.Equal(t, "Highcharts.Chart.x.y", y.Longname)
	assert.Equal(t, "Highcharts.Chart.x", y.Memberof)
	assert.Equal(t, []string{"Array.<Highcharts.Chart.x>"}, y.Type.Names)
	assert.Equal(t, "Highcharts.Chart.x", x.Longname)
	assert.Equal(t, "Highcharts.Chart", x.Memberof)
	assert.Equal(t, "Highcharts.Chart", chart.Longname)
	assert.Equal(t, doclet.ScopeStatic, chart.Scope)

	before := make([]*doclet.Doclet, 0, len(doclets))
	for _, d := range doclets {
		before = append(before, d.Clone())
	}
	n.qualify(doclets)
	assert.Empty(t, cmp.Diff(before, doclets, cmpopts.EquateEmpty()))
}

func TestDedupe(t *testing.T) {
	first := &doclet.Doclet{Longname: "a", Kind: doclet.KindMember}
	second := &doclet.Doclet{Longname: "a", Kind: doclet.KindClass, Description: "filled"}
	other := &doclet.Doclet{Longname: "b"}

	out := dedupe([]*doclet.Doclet{first, other, second})

	require.Len(t, out, 2)
	assert.Same(t, first, out[0])
	assert.Equal(t, doclet.KindMember, out[0].Kind)
	assert.Equal(t, "filled", out[0].Description)
}

func TestPrune(t *testing.T) {
	doclets := []*doclet.Doclet{
		{Longname: "kept"},
		{Longname: "ignored", Ignored: true},
		{Longname: "tagged", Ignore: true},
		{Longname: "undocumented", Undocumented: true},
		{Longname: "inner", Scope: doclet.ScopeInner},
		{Longname: "private", Access: "private"},
		{Longname: "anonymous", Memberof: "<anonymous>"},
	}

	t.Run("default", func(t *testing.T) {
		out := New(DefaultOptions(), nil).prune(append([]*doclet.Doclet(nil), doclets...))
		require.Len(t, out, 1)
		assert.Equal(t, "kept", out[0].Longname)
	})
	t.Run("include private", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IncludePrivate = true
		out := New(opts, nil).prune(append([]*doclet.Doclet(nil), doclets...))
		require.Len(t, out, 2)
		assert.Equal(t, "private", out[1].Longname)
	})
}

func TestSortDoclets(t *testing.T) {
	doclets := []*doclet.Doclet{
		{Longname: "b"},
		{Longname: "a", Version: "2"},
		{Longname: "a", Version: "1", Since: "9"},
		{Longname: "a", Version: "1", Since: "1"},
	}
	sortDoclets(doclets)
	actual := make([]string, 0, len(doclets))
	for _, d := range doclets {
		actual = append(actual, d.Longname+"/"+d.Version+"/"+d.Since)
	}
	assert.Equal(t, []string{"a/1/1", "a/1/9", "a/2/", "b//"}, actual)
}

func TestInterfaceName(t *testing.T) {
	assert.Equal(t, "ChartOptions", interfaceName("chart", "", 0))
	assert.Equal(t, "PlotOptions", interfaceName("plotOptions", "", 0))
	assert.Equal(t, "PlotOptionsSeries", interfaceName("series", "PlotOptions", 1))
	assert.Equal(t, "PlotOptionsSeries", optionPathTypeName("plotOptions.series"))
	assert.Equal(t, "SeriesOptionsLine", optionPathTypeName("series.line"))
}

func TestSynthesize_ArrayNode(t *testing.T) {
	tree := optiontree.New()
	series := tree.Resolve([]string{"series"})
	series.Doclet.Type = doclet.NewType("Array<*>")
	tree.Resolve([]string{"series", "name"}).Doclet.Type = doclet.NewType("String")
	tree.Finalize(nil)

	doclets := byLongname(New(DefaultOptions(), nil).synthesize(tree))

	assert.Equal(t, []string{"Array.<SeriesOptions>"}, doclets["Highcharts.Options.series"].Type.Names)
	assert.Contains(t, doclets, "Highcharts.SeriesOptions")
	assert.Equal(t, "Highcharts.SeriesOptions", doclets["Highcharts.SeriesOptions.name"].Memberof)
}
