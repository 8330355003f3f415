package normalize

import (
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

const anonymousParent = "<anonymous>"

// prune drops doclets which must not be emitted.
func (n *Normalizer) prune(doclets []*doclet.Doclet) []*doclet.Doclet {
	out := doclets[:0]
	for _, d := range doclets {
		if reason := n.pruneReason(d); reason != "" {
			n.logger.Debug("pruning doclet",
				zap.String("longname", d.Longname),
				zap.String("reason", reason))
			continue
		}
		out = append(out, d)
	}
	return out
}

func (n *Normalizer) pruneReason(d *doclet.Doclet) string {
	switch {
	case d.Ignored:
		return "ignored"
	case d.Ignore:
		return "@ignore"
	case d.Undocumented:
		return "undocumented"
	case d.Scope == doclet.ScopeInner:
		return "inner scope"
	case d.Access == "private" && !n.opts.IncludePrivate:
		return "private"
	case d.Memberof == anonymousParent:
		return "anonymous parent"
	}
	return ""
}

// correctMixinScope turns members of mixins into instance members.
func correctMixinScope(doclets []*doclet.Doclet) {
	mixins := make(map[string]struct{})
	for _, d := range doclets {
		if d.Kind == doclet.KindMixin {
			mixins[d.Longname] = struct{}{}
		}
	}
	for _, d := range doclets {
		if _, ok := mixins[d.Memberof]; ok {
			d.Scope = doclet.ScopeInstance
		}
	}
}
