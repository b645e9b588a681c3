// Package bundler implements spec §4.8's runtime bundler adapter: given
// the union of (namespace, runtime-source-path, called-functions) tuples
// contributed by every V3 document, it produces one runtime.js exposing a
// single dispatch entry point keyed by "namespace.fnName", the shape
// §4.7's `node <runtime.js> <namespace>.<fnName> '<json args>'` line
// expects.
//
// Each source file's own imports/exports are resolved by actually running
// them through esbuild (github.com/evanw/esbuild/pkg/api) rather than by
// this package re-implementing module resolution; this package only
// stitches the resulting per-file bundles together and writes the CLI
// dispatch shim around them.
package bundler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/logger"
)

// Usage is one V3 document's contribution to the bundle (spec §4.8's
// input tuple), plus the document's own location so a NamespaceConflict
// can point at both offending documents.
type Usage struct {
	Namespace  string
	ImportPath string // resolved absolute path to the runtime .ts source
	Functions  []string
	Loc        *logger.MsgLocation
}

type source struct {
	namespace string
	path      string
	loc       *logger.MsgLocation
	functions map[string]bool
}

// Bundle merges every Usage sharing a runtime source path, runs each
// distinct source through esbuild once, and emits one runtime.js module.
// read fetches a source path's contents (injected so this package never
// touches the filesystem directly, matching the driver's own read seam).
func Bundle(usages []Usage, read func(string) (string, error)) (string, error) {
	sources, err := mergeUsages(usages)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var modules strings.Builder
	var cases strings.Builder
	for _, namespace := range names {
		src := sources[namespace]
		contents, err := read(src.path)
		if err != nil {
			return "", &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("reading runtime source %q: %v", src.path, err)}
		}
		result := api.Build(api.BuildOptions{
			Bundle:   true,
			Write:    false,
			Platform: api.PlatformNode,
			Format:   api.FormatCommonJS,
			Target:   api.ESNext,
			Stdin: &api.StdinOptions{
				Contents:   contents,
				Sourcefile: src.path,
				Loader:     api.LoaderTS,
				ResolveDir: dirOf(src.path),
			},
		})
		if len(result.Errors) > 0 {
			return "", &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("bundling %q: %s", src.path, result.Errors[0].Text)}
		}
		if len(result.OutputFiles) == 0 {
			return "", &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("bundling %q produced no output", src.path)}
		}

		fnNames := make([]string, 0, len(src.functions))
		for fn := range src.functions {
			fnNames = append(fnNames, fn)
		}
		sort.Strings(fnNames)

		fmt.Fprintf(&modules, "const __ns_%s = (function(){\nconst module = {exports: {}};\nconst exports = module.exports;\n%s\nreturn module.exports;\n})();\n", namespace, result.OutputFiles[0].Contents)
		for _, fn := range fnNames {
			fmt.Fprintf(&cases, "  case %q: return __ns_%s[%q](args);\n", namespace+"."+fn, namespace, fn)
		}
	}

	dispatch := fmt.Sprintf(`%s
function __dispatch(key, args) {
  switch (key) {
%s  default:
    throw new Error("unknown runtime function: " + key);
  }
}

const __key = process.argv[2];
const __args = process.argv[3] ? JSON.parse(process.argv[3]) : {};
Promise.resolve(__dispatch(__key, __args)).then(function(result) {
  if (result !== undefined) process.stdout.write(JSON.stringify(result));
}).catch(function(err) {
  process.stderr.write(String(err && err.stack || err));
  process.exitCode = 1;
});
`, modules.String(), cases.String())

	return dispatch, nil
}

func mergeUsages(usages []Usage) (map[string]*source, error) {
	sorted := make([]Usage, len(usages))
	copy(sorted, usages)
	sort.Slice(sorted, func(i, j int) bool {
		return usageFile(sorted[i]) < usageFile(sorted[j])
	})

	sources := map[string]*source{}
	for _, u := range sorted {
		existing, ok := sources[u.Namespace]
		if !ok {
			sources[u.Namespace] = &source{namespace: u.Namespace, path: u.ImportPath, loc: u.Loc, functions: fnSet(u.Functions)}
			continue
		}
		if existing.path != u.ImportPath {
			return nil, &diag.Error{
				Kind:    diag.NamespaceConflict,
				Message: fmt.Sprintf("namespace %q is declared by two different runtime source files: %q and %q", u.Namespace, existing.path, u.ImportPath),
				Primary: u.Loc,
				Secondary: []diag.SecondaryLocation{
					{Label: "first declared at:", Location: existing.loc},
				},
			}
		}
		for _, fn := range u.Functions {
			existing.functions[fn] = true
		}
	}
	return sources, nil
}

// usageFile gives mergeUsages a stable sort key so which of two
// conflicting usages is reported as "first declared at" doesn't depend on
// the driver's parallel collection order (spec invariant 1).
func usageFile(u Usage) string {
	if u.Loc == nil {
		return ""
	}
	return u.Loc.File
}

func fnSet(fns []string) map[string]bool {
	out := make(map[string]bool, len(fns))
	for _, fn := range fns {
		out[fn] = true
	}
	return out
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}
