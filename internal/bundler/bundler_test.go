package bundler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/logger"
)

func TestMergeUsagesUnionsFunctionsForSameSource(t *testing.T) {
	sources, err := mergeUsages([]Usage{
		{Namespace: "runtime", ImportPath: "/a/runtime.ts", Functions: []string{"deploy"}},
		{Namespace: "runtime", ImportPath: "/a/runtime.ts", Functions: []string{"rollback"}},
	})
	require.NoError(t, err)
	require.Contains(t, sources, "runtime")
	assert.True(t, sources["runtime"].functions["deploy"])
	assert.True(t, sources["runtime"].functions["rollback"])
}

func TestMergeUsagesConflictingPathsIsNamespaceConflict(t *testing.T) {
	first := &logger.MsgLocation{File: "a.tsx", Line: 1, Column: 1}
	second := &logger.MsgLocation{File: "b.tsx", Line: 2, Column: 1}
	_, err := mergeUsages([]Usage{
		{Namespace: "runtime", ImportPath: "/a/runtime.ts", Loc: first},
		{Namespace: "runtime", ImportPath: "/b/runtime.ts", Loc: second},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NamespaceConflict")
}

func TestDirOf(t *testing.T) {
	assert.Equal(t, "/a/b", dirOf("/a/b/runtime.ts"))
	assert.Equal(t, ".", dirOf("runtime.ts"))
}

// TestBundleDispatchShape exercises the real esbuild adapter end to end:
// two distinct runtime sources, each exporting one function, stitched into
// a single dispatch module keyed by "namespace.fnName" (spec §4.8).
func TestBundleDispatchShape(t *testing.T) {
	files := map[string]string{
		"/runtime/a.ts": `export function deploy(args: any) { return args.target; }`,
		"/runtime/b.ts": `export function rollback(args: any) { return "rolled back"; }`,
	}
	read := func(path string) (string, error) {
		content, ok := files[path]
		if !ok {
			return "", fmt.Errorf("no such file %q", path)
		}
		return content, nil
	}

	js, err := Bundle([]Usage{
		{Namespace: "a", ImportPath: "/runtime/a.ts", Functions: []string{"deploy"}},
		{Namespace: "b", ImportPath: "/runtime/b.ts", Functions: []string{"rollback"}},
	}, read)
	require.NoError(t, err)

	assert.Contains(t, js, `case "a.deploy": return __ns_a["deploy"](args);`)
	assert.Contains(t, js, `case "b.rollback": return __ns_b["rollback"](args);`)
	assert.Contains(t, js, "const __ns_a = (function(){")
	assert.Contains(t, js, "const __ns_b = (function(){")
	assert.Contains(t, js, "function __dispatch(key, args)")
	assert.Contains(t, js, "process.argv[2]")
}

func TestBundleReportsIoErrorOnMissingSource(t *testing.T) {
	read := func(path string) (string, error) { return "", fmt.Errorf("not found") }
	_, err := Bundle([]Usage{{Namespace: "a", ImportPath: "/missing.ts"}}, read)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IoError")
}
