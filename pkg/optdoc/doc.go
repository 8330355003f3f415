// Package optdoc generates the option reference and TypeScript declarations
// of a JavaScript charting library from its JSDoc comments.
//
// It combines two sources of information:
//  1. Option declarations, object literals tagged with @optionparent and
//     free floating @apioption comments, merged into an option tree
//  2. Regular JSDoc comments describing classes, functions and types
//
// The option tree is finalized, post-processed and synthesized into doclets
// which are normalized together with the authored ones.
//
// # Basic Usage
//
// Load the project configuration and generate the artifacts:
//
//	conf, err := config.Load("optdoc.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := optdoc.Generate(ctx, conf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err = optdoc.Write(result, conf); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Options
//
// Use GenerateOption functions to customize behavior:
//
//	result, err := optdoc.Generate(
//	    ctx,
//	    conf,
//	    optdoc.WithLogger(logger),
//	    optdoc.WithFilteredPaths("plotOptions.series.internal"),
//	    optdoc.WithVersion("11.4.0"),
//	)
//
// WithFilteredPaths removes the option subtrees at the given paths before synthesis.
// WithRevision and WithVersion replace the values read from git and package.json.
//
// # Output Format
//
// [Write] stores three files:
//
//   - tree.json: The option tree keyed by the top-level options, with a `_meta` entry
//   - raw.json: The normalized doclets together with the scanned source files
//   - highcharts.d.ts: The TypeScript declarations of the doclets
//
// [Check] compares the declarations with the file on disk and reports a unified diff.
package optdoc
