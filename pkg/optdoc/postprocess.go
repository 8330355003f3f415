package optdoc

import (
	"bytes"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/config"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

// nodePostProcessor is a function type that post-processes a finalized option node.
// It can be used to apply additional formatting to the node documentation or add more details to the doc.
type nodePostProcessor func(node *optiontree.Node)

func postProcessTree(tree *optiontree.Tree, filterPaths []string, processors ...nodePostProcessor) {
	for _, path := range filterPaths {
		tree.Remove(optiontree.SplitPath(path))
	}
	tree.Walk(func(node *optiontree.Node) bool {
		for _, process := range processors {
			process(node)
		}
		return true
	})
}

// removeTrailingWhitespace removes trailing whitespace from the docs.
func removeTrailingWhitespace(node *optiontree.Node) {
	node.Doclet.Description = strings.TrimSpace(node.Doclet.Description)
}

var seriesDescriptionTemplate = template.Must(template.New("series").Parse(`

Configuration options for the series are given in three levels:
1. Options for all series in a chart are defined in the [{{ .Options }}.series]({{ .Options }}.series)
object.
2. Options for all ` + "`{{ .Type }}`" + ` series are defined in [{{ .Options }}.{{ .Type }}]({{ .Options }}.{{ .Type }}).
3. Options for one single series are given in
[the series instance array]({{ .Instances }}.{{ .Type }}).

<pre>
{{ .Namespace }}.chart('container', {
    {{ .Options }}: {
        series: {
            // general options for all series
        },
        {{ .Type }}: {
            // shared options for all {{ .Type }} series
        }
    },
    {{ .Instances }}: [{
        // specific options for this series instance
        type: '{{ .Type }}'
    }]
});
</pre>`))

type seriesDescription struct {
	Namespace string
	Options   string
	Instances string
	Type      string
}

// addSeriesTypeDescription appends the explanation of the three levels of series
// options to every series type declared below the options root and to its instance counterpart.
// The generic "series" type is explained with the "line" example.
func addSeriesTypeDescription(conf config.Config, tree *optiontree.Tree, logger *zap.Logger) nodePostProcessor {
	sd := conf.SeriesDescriptions
	return func(node *optiontree.Node) {
		if sd.Options == "" || len(node.Path) != 2 {
			return
		}
		switch node.Path[0] {
		case sd.Options:
		case sd.Instances:
			if _, ok := tree.Lookup([]string{sd.Options, node.Path[1]}); !ok {
				return
			}
		default:
			return
		}
		typ := node.Path[1]
		if typ == "series" {
			typ = "line"
		}
		var buf bytes.Buffer
		if err := seriesDescriptionTemplate.Execute(&buf, seriesDescription{
			Namespace: conf.Namespace,
			Options:   sd.Options,
			Instances: sd.Instances,
			Type:      typ,
		}); err != nil {
			logger.Warn("failed to render series type description",
				zap.String("path", node.FullName()),
				zap.Error(err))
			return
		}
		node.Doclet.Description += strings.TrimRight(buf.String(), " ")
	}
}
