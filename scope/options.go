package scope

import "github.com/viant/jslint/jsglobals"

// SourceType mirrors spec.md §6's source_type option.
type SourceType string

const (
	SourceScript   SourceType = "script"
	SourceModule   SourceType = "module"
	SourceCommonJS SourceType = "commonjs"
)

// Config is the JSON/YAML-shaped options object from spec.md §6, built
// with functional Options the way analyzer.Option configures
// analyzer.Analyzer in the teacher (analyzer/option.go).
type Config struct {
	SourceType   SourceType
	EcmaVersion  int
	Globals      map[string]jsglobals.Writability
	Env          map[string]bool
	Optimistic   bool
	Directive    bool
	IgnoreEval   bool
	NodejsScope  bool
	ImpliedStrict bool
}

// Option configures a Config.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		SourceType:  SourceScript,
		EcmaVersion: 2022,
		Globals:     map[string]jsglobals.Writability{},
		Env:         map[string]bool{"builtin": true},
	}
}

// WithSourceType sets script/module/commonjs semantics.
func WithSourceType(t SourceType) Option {
	return func(c *Config) { c.SourceType = t }
}

// WithEcmaVersion sets the baseline global bundle version.
func WithEcmaVersion(version int) Option {
	return func(c *Config) { c.EcmaVersion = version }
}

// WithGlobal configures a single global name's writability.
func WithGlobal(name string, w jsglobals.Writability) Option {
	return func(c *Config) {
		if c.Globals == nil {
			c.Globals = map[string]jsglobals.Writability{}
		}
		c.Globals[name] = w
	}
}

// WithEnv enables or disables a named environment bundle (e.g. "browser",
// "es2020", "commonjs").
func WithEnv(name string, enabled bool) Option {
	return func(c *Config) {
		if c.Env == nil {
			c.Env = map[string]bool{}
		}
		c.Env[name] = enabled
	}
}

// WithOptimistic toggles the Block-scope creation optimization: when true,
// a bare block that declares no let/const/class/function is not given its
// own Scope.
func WithOptimistic() Option {
	return func(c *Config) { c.Optimistic = true }
}

// WithDirective enables "use strict" directive recognition (on by default
// semantically; this flag mirrors the option's presence in spec.md §6).
func WithDirective() Option {
	return func(c *Config) { c.Directive = true }
}

// WithIgnoreEval disables DirectEvalCall tracking.
func WithIgnoreEval() Option {
	return func(c *Config) { c.IgnoreEval = true }
}

// WithNodejsScope enables the commonjs global bundle's "node" variant.
func WithNodejsScope() Option {
	return func(c *Config) { c.NodejsScope = true }
}

// WithImpliedStrict forces every scope to be strict regardless of directives.
func WithImpliedStrict() Option {
	return func(c *Config) { c.ImpliedStrict = true }
}
