package linter

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/jslint/jsglobals"
	"github.com/viant/jslint/scope"
)

// Config is the optional YAML-shaped options document mapping onto
// spec.md §6's options object, mirroring inspector/info's
// download-then-decode manifest loading (inspector/info/document.go) with
// yaml.v3 in place of ad hoc parsing, the way jsglobals' own manifest.yaml
// is decoded.
type Config struct {
	SourceType    string                            `yaml:"sourceType"`
	EcmaVersion   int                               `yaml:"ecmaVersion"`
	Env           map[string]bool                   `yaml:"env"`
	Globals       map[string]jsglobals.Writability   `yaml:"globals"`
	Optimistic    bool                              `yaml:"optimistic"`
	ImpliedStrict bool                              `yaml:"impliedStrict"`
}

// LoadConfig downloads and decodes a linter.Config document through fs.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	content, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("linter: download config %s: %w", URL, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("linter: decode config %s: %w", URL, err)
	}
	return cfg, nil
}

// Options converts a decoded Config into scope.Option values suitable for
// linter.WithScopeOptions.
func (c *Config) Options() []scope.Option {
	var opts []scope.Option
	switch scope.SourceType(c.SourceType) {
	case scope.SourceModule, scope.SourceCommonJS:
		opts = append(opts, scope.WithSourceType(scope.SourceType(c.SourceType)))
	}
	if c.EcmaVersion != 0 {
		opts = append(opts, scope.WithEcmaVersion(c.EcmaVersion))
	}
	for name, enabled := range c.Env {
		opts = append(opts, scope.WithEnv(name, enabled))
	}
	for name, w := range c.Globals {
		opts = append(opts, scope.WithGlobal(name, w))
	}
	if c.Optimistic {
		opts = append(opts, scope.WithOptimistic())
	}
	if c.ImpliedStrict {
		opts = append(opts, scope.WithImpliedStrict())
	}
	return opts
}
