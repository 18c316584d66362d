package codegrid

// Options holds configuration for a Grid.
type Options struct {
	maxShape     Shape
	evaluator    Evaluator
	namespace    map[string]any
	maxResultLen int
}

func defaultOptions() *Options {
	return &Options{
		maxShape: DefaultMaxShape,
	}
}

// Option configures a Grid.
type Option func(*Options)

// WithMaxShape sets the shape ceiling for inserts and reshapes
// (default DefaultMaxShape).
func WithMaxShape(max Shape) Option {
	return func(o *Options) { o.maxShape = max }
}

// WithEvaluator sets the evaluator used to run cell code. Without one, cell
// results resolve to the raw code string, which is useful for code-only
// workflows like import tooling.
func WithEvaluator(ev Evaluator) Option {
	return func(o *Options) { o.evaluator = ev }
}

// WithNamespace seeds the global namespace shared by all cell evaluations.
func WithNamespace(ns map[string]any) Option {
	return func(o *Options) { o.namespace = ns }
}

// WithMaxResultLength truncates FormattedResult output to at most n runes
// (default: no truncation). This is a display policy; cached results are
// never truncated.
func WithMaxResultLength(n int) Option {
	return func(o *Options) { o.maxResultLen = n }
}
