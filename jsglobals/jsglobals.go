// Package jsglobals holds the environment and ecma-version global bundle
// tables used by the scope analyzer's global-injection step (spec.md §4.2
// "Strictness inheritance" / §9 "Global injection is driven by tables
// keyed on ecma-version and environment name; these tables are part of the
// data model, not code, and should be generated from a compact manifest").
// The manifest is a single embedded YAML document rather than a hand
// written Go map literal per environment, mirroring how the teacher's
// inspector/info package decodes project manifests with yaml.v3.
package jsglobals

import (
	_ "embed"
	"sort"
	"strconv"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Writability mirrors spec.md §6's {"readable","writable"} configured
// global values.
type Writability string

const (
	Readable Writability = "readable"
	Writable Writability = "writable"
	Off      Writability = "off"
)

//go:embed manifest.yaml
var manifestYAML []byte

var bundles map[string]map[string]Writability

func init() {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(manifestYAML, &raw); err != nil {
		panic("jsglobals: invalid embedded manifest: " + err.Error())
	}
	bundles = make(map[string]map[string]Writability, len(raw))
	for env, names := range raw {
		m := make(map[string]Writability, len(names))
		for name, w := range names {
			m[name] = Writability(w)
		}
		bundles[env] = m
	}
}

// Bundle returns the global bundle for a named environment (e.g.
// "builtin", "es6", "es2020", "browser", "commonjs", "node"), and whether
// that environment is known.
func Bundle(env string) (map[string]Writability, bool) {
	b, ok := bundles[env]
	return b, ok
}

// EnvNames returns every environment name the manifest defines, sorted,
// for validation and documentation purposes.
func EnvNames() []string {
	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByEcmaVersion returns the baseline global bundle implied by an
// ecma_version option (spec.md §6: 3,5,6,2015..2024). Versions are
// normalized to a semver-shaped "vMAJOR.0.0" string and compared with
// golang.org/x/mod/semver so the "closest match" fallback rule (spec.md
// §7 "Unsupported constructs under a given ecma_version ... the globals
// bundle chosen is the closest match") is a version comparison rather
// than an ad hoc integer range check.
func ByEcmaVersion(version int) map[string]Writability {
	normalized := normalizeEcmaVersion(version)
	target := ecmaSemver(normalized)

	merged := make(map[string]Writability)
	for name, w := range bundles["builtin"] {
		merged[name] = w
	}
	for _, candidate := range []int{6, 2015, 2017, 2020, 2021, 2022, 2024} {
		if semver.Compare(ecmaSemver(candidate), target) > 0 {
			continue
		}
		if b, ok := bundles[bundleNameForEcma(candidate)]; ok {
			for name, w := range b {
				merged[name] = w
			}
		}
	}
	return merged
}

// normalizeEcmaVersion maps the legacy single-digit editions (3, 5, 6) onto
// the year-numbered scheme ES2015 uses from edition 6 onward, the way the
// original ESLint-derived tool treats "6" and "2015" as synonyms.
func normalizeEcmaVersion(version int) int {
	if version == 6 {
		return 2015
	}
	return version
}

func ecmaSemver(version int) string {
	switch {
	case version <= 5:
		return "v0.5.0"
	case version == 6:
		return "v2015.0.0"
	default:
		return "v" + strconv.Itoa(version) + ".0.0"
	}
}

func bundleNameForEcma(version int) string {
	if version == 2015 {
		return "es6"
	}
	return "es" + strconv.Itoa(version)
}
