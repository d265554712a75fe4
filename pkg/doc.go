// Package pkg provides the core libraries for gatesketch.
//
// # Overview
//
// Gatesketch turns a Boolean expression such as "~(a&b)|c" into a drawing of
// the logic circuit that computes it. The pkg directory is organized into
// three areas:
//
//  1. Domain: [expr], [circuit] and [render]
//  2. Infrastructure: [cache], [storage], [config], [observability] and [errors]
//  3. Orchestration: [pipeline]
//
// # Architecture
//
// The data flow for one request:
//
//	Expression string
//	         ↓
//	    [expr] package (validate, parse, shunting-yard to postfix)
//	         ↓
//	    [circuit] package (place gates, route orthogonal wires)
//	         ↓
//	    [render] package (PNG, SVG, JSON; [render/tree] for DOT and tree SVG)
//	         ↓
//	    [storage] package (persist under a content or request id)
//
// # Quick Start
//
//	c, err := circuit.Build("~(a&b)|c")
//	if err != nil {
//	    return err // errors.Is(err, errors.ErrCodeInvalidExpression)
//	}
//	png, err := render.RenderPNG(c, render.WithScale(2))
//
// With caching and persistence, go through a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Expression: "a & (b | c)",
//	    Formats:    []string{"png", "svg"},
//	})
//
// # Testing
//
//	go test ./pkg/...                      # All tests
//	go test -run Example ./pkg/expr/...    # Examples only
//	GATESKETCH_REDIS_URL=redis://localhost:6379/0 go test ./pkg/cache/...
//	GATESKETCH_MONGO_URI=mongodb://localhost:27017 go test ./pkg/storage/...
//
// [expr]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/expr
// [circuit]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/circuit
// [render]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/render
// [render/tree]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/render/tree
// [cache]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gatesketch/pkg/pipeline
package pkg
