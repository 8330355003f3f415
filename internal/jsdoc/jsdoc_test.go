package jsdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

func TestParseComment(t *testing.T) {
	raw := `/**
     * The radius of the point marker.
     *
     * In pixels.
     *
     * @sample {highcharts} highcharts/plotoptions/series-marker-radius/
     *         Bigger markers
     * @type   {number}
     * @since  1.2.0
     * @apioption plotOptions.series.marker.radius
     */`
	c := ParseComment(raw)
	assert.Equal(t, "The radius of the point marker.\n\nIn pixels.", c.Description)
	expected := []Tag{
		{Title: "sample", Value: "{highcharts} highcharts/plotoptions/series-marker-radius/\n        Bigger markers"},
		{Title: "type", Value: "{number}"},
		{Title: "since", Value: "1.2.0"},
		{Title: "apioption", Value: "plotOptions.series.marker.radius"},
	}
	if diff := cmp.Diff(expected, c.Tags); diff != "" {
		t.Errorf("ParseComment() tags mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, c.Has("since"))
	assert.False(t, c.Has("default"))
}

func TestParser_OptionTags(t *testing.T) {
	p := NewParser(nil, "")
	t.Run("optionparent with path", func(t *testing.T) {
		res := p.Parse("/** @optionparent plotOptions.series */", "a.js")
		assert.True(t, res.HasOptionParent)
		assert.Equal(t, "plotOptions.series", res.OptionParent)
		assert.True(t, res.Doclet.Optionparent)
	})
	t.Run("optionparent without path", func(t *testing.T) {
		res := p.Parse("/**\n * @optionparent\n */", "a.js")
		assert.True(t, res.HasOptionParent)
		assert.Empty(t, res.OptionParent)
	})
	t.Run("apioption", func(t *testing.T) {
		res := p.Parse("/**\n * Floating.\n * @type {boolean}\n * @apioption legend.floating\n */", "a.js")
		assert.True(t, res.HasAPIOption)
		assert.Equal(t, "legend.floating", res.APIOption)
		assert.Equal(t, "legend.floating", res.Doclet.Name)
		assert.Equal(t, []string{"boolean"}, res.Doclet.Type.Names)
	})
	t.Run("ignore-option", func(t *testing.T) {
		res := p.Parse("/** @ignore-option */", "a.js")
		assert.True(t, res.IgnoreOption)
		assert.True(t, res.Doclet.Ignored)
	})
}

func TestParser_Doclet(t *testing.T) {
	raw := `/**
 * Add a series to the chart.
 *
 * @function Highcharts.Chart#addSeries
 * @param {Highcharts.SeriesOptionsType} options
 *        The series options.
 * @param {boolean} [redraw=true] - Whether to redraw.
 * @return {Highcharts.Series|undefined}
 *         The newly created series.
 * @product highcharts highstock highcharts
 * @excluding dataLabels, marker
 * @values ["left", "center"]
 * @values right
 * @default {highstock} 2
 * @productdesc {highmaps} Maps only.
 * @context Highcharts.Chart
 * @deprecated
 * @private
 */`
	d := NewParser(nil, "").Parse(raw, "chart.js").Doclet
	expected := &doclet.Doclet{
		Name:        "Highcharts.Chart#addSeries",
		Kind:        doclet.KindFunction,
		Description: "Add a series to the chart.",
		Params: []doclet.Param{
			{
				Name:        "options",
				Type:        doclet.NewType("Highcharts.SeriesOptionsType"),
				Description: "The series options.",
			},
			{
				Name:         "redraw",
				Type:         doclet.NewType("boolean"),
				Description:  "Whether to redraw.",
				Optional:     true,
				Defaultvalue: "true",
			},
		},
		Returns: []doclet.Param{{
			Type:        doclet.NewType("Highcharts.Series", "undefined"),
			Description: "The newly created series.",
		}},
		Products:         []string{"highcharts", "highstock"},
		Exclude:          []string{"dataLabels", "marker"},
		Values:           []any{"left", "center", "right"},
		DefaultByProduct: map[string]string{"highstock": "2"},
		Productdesc:      &doclet.ProductValue{Value: "Maps only.", Products: []string{"highmaps"}},
		Context:          "Highcharts.Chart",
		Deprecated:       "true",
		Access:           "private",
	}
	if diff := cmp.Diff(expected, d); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Defaults(t *testing.T) {
	tests := []struct {
		in       string
		expected any
	}{
		{in: "true", expected: true},
		{in: "false", expected: false},
		{in: "5", expected: "5"},
		{in: "#ffffff", expected: "#ffffff"},
		{in: "undefined", expected: "undefined"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			d := NewParser(nil, "").Parse("/** @default "+tc.in+" */", "a.js").Doclet
			assert.Equal(t, tc.expected, d.Defaultvalue)
		})
	}
}

func TestParser_MemberTags(t *testing.T) {
	d := NewParser(nil, "").Parse(`/**
 * @name Highcharts.Point#x
 * @type {number|Array<number>|undefined}
 * @readonly
 */`, "point.js").Doclet
	assert.Equal(t, "Highcharts.Point#x", d.Name)
	assert.Equal(t, []string{"number", "Array.<number>", "undefined"}, d.Type.Names)
	assert.True(t, d.Readonly)

	d = NewParser(nil, "").Parse("/** @typedef {Object} Highcharts.Foo\n * @property {string} bar The bar. */", "f.js").Doclet
	assert.Equal(t, doclet.KindTypedef, d.Kind)
	assert.Equal(t, "Highcharts.Foo", d.Name)
	require.Len(t, d.Properties, 1)
	assert.Equal(t, "bar", d.Properties[0].Name)
	assert.Equal(t, "The bar.", d.Properties[0].Description)

	d = NewParser(nil, "").Parse("/** @memberof Highcharts.Chart#\n * @augments Highcharts.Base */", "f.js").Doclet
	assert.Equal(t, "Highcharts.Chart", d.Memberof)
	assert.Equal(t, doclet.ScopeInstance, d.Scope)
	assert.Equal(t, []string{"Highcharts.Base"}, d.Augments)
}

func TestParser_Samples(t *testing.T) {
	samples := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(samples, "highcharts", "demo", "line"), 0o755))

	core, logs := observer.New(zapcore.ErrorLevel)
	p := NewParser(zap.New(core), samples)
	d := p.Parse(`/**
 * @sample {highcharts|highstock} highcharts/demo/line/
 *         Basic   line
 * @sample highcharts/demo/missing/ Missing
 */`, "line.js").Doclet

	expected := []doclet.Sample{
		{Name: "Basic line", Value: "highcharts/demo/line/", Products: []string{"highcharts", "highstock"}},
		{Name: "Missing", Value: "highcharts/demo/missing/"},
	}
	assert.Equal(t, expected, d.Samples)

	entries := logs.FilterMessage("@sample does not exist").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "highcharts/demo/missing/", entries[0].ContextMap()["sample"])
	assert.Equal(t, "line.js", entries[0].ContextMap()["file"])
}
