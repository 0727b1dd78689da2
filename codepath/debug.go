//go:build !codepathdebug

package codepath

// debugAssert is a no-op in ordinary builds. Build with -tags codepathdebug
// to turn the fork-context split-depth invariants
// (original_source/plugin/src/code_path_analysis/fork_context.rs) into
// panics while developing new constructs.
func debugAssert(cond bool, msg string) {}
