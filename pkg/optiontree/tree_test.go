package optiontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/optdoc/internal/jsast"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

func prop(key string, value jsast.Node, comments ...string) *jsast.Property {
	p := &jsast.Property{Key: key, Value: value}
	p.KeyLoc = jsast.Loc{Start: jsast.Position{Line: 10, Column: 4}, End: jsast.Position{Line: 10, Column: 4 + len(key)}}
	for _, c := range comments {
		jsast.AddLeading(p, jsast.Comment{
			Text: c,
			Loc:  jsast.Loc{Start: jsast.Position{Line: 7, Column: 4}, End: jsast.Position{Line: 9, Column: 7}},
		})
	}
	return p
}

func lit(v any) *jsast.Literal { return &jsast.Literal{Value: v} }

func object(props ...*jsast.Property) *jsast.ObjectExpression {
	return &jsast.ObjectExpression{Properties: props}
}

func TestTree_Resolve(t *testing.T) {
	tree := New()
	first := tree.Resolve([]string{"plotOptions", "series", "marker"})
	second := tree.Resolve([]string{"plotOptions", "series", "marker"})
	require.Same(t, first, second)

	assert.Equal(t, []string{"plotOptions", "series", "marker"}, first.Path)
	assert.Equal(t, "plotOptions.series.marker", first.FullName())
	assert.Equal(t, "marker", first.Meta.Name)
	assert.Len(t, tree.Roots(), 1)

	series, ok := tree.Lookup([]string{"plotOptions", "series"})
	require.True(t, ok)
	assert.Len(t, series.Children, 1)
	assert.NotNil(t, series.Doclet)

	assert.Nil(t, tree.Resolve(nil))
	_, ok = tree.Lookup([]string{"plotOptions", "missing"})
	assert.False(t, ok)
}

func TestTree_Decorate(t *testing.T) {
	t.Run("same path from two files merges", func(t *testing.T) {
		tree := New()
		parent := []string{"plotOptions", "series"}
		tree.Decorate(parent, prop("marker", object(prop("radius", lit(4.0)))), "a.js")
		tree.Decorate(parent, prop("marker", object(prop("fillColor", lit("#fff")))), "b.js")

		marker, ok := tree.Lookup([]string{"plotOptions", "series", "marker"})
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"fillColor", "radius"}, SortedKeys(marker.Children))
		assert.Equal(t, "b.js", marker.Meta.Filename)
	})
	t.Run("provenance from leading comment", func(t *testing.T) {
		tree := New()
		node := tree.Decorate(nil, prop("chart", lit(nil), "/** The chart. */"), "chart.js")
		require.NotNil(t, node)
		assert.Equal(t, Meta{
			FullName:   "chart",
			Name:       "chart",
			Filename:   "chart.js",
			Line:       7,
			LineEnd:    9,
			Column:     4,
			HasDefault: true,
		}, node.Meta)
	})
	t.Run("provenance from key", func(t *testing.T) {
		node := New().Decorate(nil, prop("chart", lit(true)), "chart.js")
		assert.Equal(t, 10, node.Meta.Line)
		assert.Equal(t, 4, node.Meta.Column)
	})
	t.Run("default is last write wins", func(t *testing.T) {
		tree := New()
		tree.Decorate([]string{"a"}, prop("b", lit(1.0)), "a.js")
		node := tree.Decorate([]string{"a"}, prop("b", lit(2.0)), "b.js")
		assert.Equal(t, 2.0, node.Meta.Default)

		node = tree.Decorate([]string{"a"}, prop("b", &jsast.Identifier{Name: "x"}), "c.js")
		assert.False(t, node.Meta.HasDefault)
		assert.Nil(t, node.Meta.Default)
	})
	t.Run("documentation is never overwritten", func(t *testing.T) {
		tree := New()
		path := []string{"legend", "enabled"}
		_, ok := tree.Augment(path, &doclet.Doclet{Description: "First."}, Provenance{Filename: "a.js"})
		require.True(t, ok)
		_, ok = tree.Augment(path, &doclet.Doclet{Description: "Second.", Since: "2.0"}, Provenance{Filename: "b.js"})
		require.True(t, ok)
		tree.Decorate([]string{"legend"}, prop("enabled", lit(true)), "c.js")

		node, _ := tree.Lookup(path)
		assert.Equal(t, "First.", node.Doclet.Description)
		assert.Equal(t, "2.0", node.Doclet.Since)
		assert.Equal(t, "c.js", node.Meta.Filename)
	})
}

func TestTree_Ignore(t *testing.T) {
	dataLabels := []string{"plotOptions", "series", "dataLabels"}
	declare := func(tree *Tree, ignored bool) {
		var format *jsast.Property
		if ignored {
			format = prop("format", lit("{y}"), "/** @ignore-option */")
		} else {
			format = prop("format", lit("{y}"))
		}
		tree.Decorate(dataLabels[:2], prop("dataLabels", object(
			prop("enabled", lit(false)),
			format,
		)), "a.js")
	}
	assertRemoved := func(t *testing.T, tree *Tree) {
		t.Helper()
		_, ok := tree.Lookup(append(dataLabels, "format"))
		assert.False(t, ok)
		_, ok = tree.Lookup(append(dataLabels, "enabled"))
		assert.True(t, ok)
	}

	t.Run("ignored after declaration", func(t *testing.T) {
		tree := New()
		declare(tree, false)
		declare(tree, true)
		assertRemoved(t, tree)
	})
	t.Run("ignored before declaration", func(t *testing.T) {
		tree := New()
		declare(tree, true)
		declare(tree, false)
		assertRemoved(t, tree)
	})
	t.Run("plain @ignore", func(t *testing.T) {
		tree := New()
		tree.Decorate(nil, prop("chart", object(prop("a", lit(1.0), "/**\n * @ignore\n */"))), "a.js")
		chart, _ := tree.Lookup([]string{"chart"})
		assert.Empty(t, chart.Children)
	})
	t.Run("remove blocks augment below", func(t *testing.T) {
		tree := New()
		tree.Remove([]string{"credits"})
		_, ok := tree.Augment([]string{"credits", "href"}, &doclet.Doclet{Description: "x"}, Provenance{})
		assert.False(t, ok)
		_, ok = tree.Declare([]string{"credits"}, Provenance{})
		assert.False(t, ok)
		assert.Empty(t, tree.Roots())
	})
}

func TestTree_Declare(t *testing.T) {
	tree := New()
	node, ok := tree.Declare([]string{"plotOptions", "line"}, Provenance{Filename: "line.js", Line: 3})
	require.True(t, ok)
	assert.Equal(t, "line.js", node.Meta.Filename)
	_, ok = tree.Declare([]string{"plotOptions", "spline"}, Provenance{Filename: "spline.js", Line: 5})
	require.True(t, ok)

	plotOptions, _ := tree.Lookup([]string{"plotOptions"})
	assert.Equal(t, "line.js", plotOptions.Meta.Filename, "ancestors keep their first provenance")
}

func TestTree_Augment(t *testing.T) {
	tree := New()
	d := &doclet.Doclet{
		Name:        "legend.floating",
		Kind:        doclet.KindMember,
		Apioption:   true,
		Description: "Floating legend.",
		Type:        doclet.NewType("Boolean"),
		Meta:        &doclet.Meta{Filename: "legend.js"},
	}
	node, ok := tree.Augment([]string{"legend", "floating"}, d, Provenance{Filename: "legend.js", Line: 40, LineEnd: 45})
	require.True(t, ok)
	assert.Equal(t, &doclet.Doclet{Description: "Floating legend.", Type: doclet.NewType("Boolean")}, node.Doclet)
	assert.Equal(t, 40, node.Meta.Line)
	assert.Equal(t, "legend.floating", d.Name, "source doclet must not be modified")

	_, ok = tree.Augment(nil, d, Provenance{})
	assert.False(t, ok)
}

func TestTree_Walk(t *testing.T) {
	tree := New()
	tree.Resolve([]string{"b", "y"})
	tree.Resolve([]string{"b", "x"})
	tree.Resolve([]string{"a"})

	var visited []string
	tree.Walk(func(n *Node) bool {
		visited = append(visited, n.FullName())
		return n.FullName() != "b.x"
	})
	assert.Equal(t, []string{"a", "b", "b.x", "b.y"}, visited)
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(" "))
	assert.Equal(t, []string{"plotOptions", "series"}, SplitPath("plotOptions.series"))
}
