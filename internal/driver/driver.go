// Package driver implements spec §5's per-build pipeline: discover input
// files, parse/classify/transform/emit each one, write its output, bundle
// the runtime module once every V3 document has contributed its usage
// tuple, and copy Skill static assets. Documents are processed in
// parallel (golang.org/x/sync/errgroup), each build stamped with a UUID
// used only for log correlation.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reactagentic/compiler/internal/bundler"
	"github.com/reactagentic/compiler/internal/classify"
	"github.com/reactagentic/compiler/internal/config"
	emitv1 "github.com/reactagentic/compiler/internal/emit/v1"
	emitv3 "github.com/reactagentic/compiler/internal/emit/v3"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/resolver"
	transformv1 "github.com/reactagentic/compiler/internal/transform/v1"
	transformv3 "github.com/reactagentic/compiler/internal/transform/v3"
)

// Result is one build's outcome: every diagnostic emitted and whether any
// of them was fatal (spec §5's "non-zero exit code iff any file failed").
type Result struct {
	BuildID string
	Log     *logger.Log
	Failed  bool
}

// Build runs one full build over every .tsx file found under root (spec
// §6.1's authoring tree), writing output under cfg.OutputDir/RuntimeDir.
func Build(ctx context.Context, root string, cfg config.Config) (*Result, error) {
	buildID := uuid.NewString()
	log := logger.NewLog()

	paths, err := discoverFiles(root)
	if err != nil {
		return nil, fmt.Errorf("build %s: discovering input files: %w", buildID, err)
	}

	cache := resolver.NewCache()
	var usages []bundler.Usage
	var statics []ir.SkillStatic

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	results := make(chan documentResult, len(paths))

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := processFile(path, cache, log, cfg)
			results <- res
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for res := range results {
		if res.usage != nil {
			usages = append(usages, *res.usage)
		}
		statics = append(statics, res.statics...)
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build %s: %w", buildID, err)
	}

	if len(usages) > 0 && !log.HasErrors() {
		if err := buildRuntime(usages, cfg, log); err != nil {
			return nil, fmt.Errorf("build %s: %w", buildID, err)
		}
	}

	if !log.HasErrors() {
		for _, s := range statics {
			if err := copyStatic(s); err != nil {
				return nil, fmt.Errorf("build %s: copying %q: %w", buildID, s.Src, err)
			}
		}
	}

	return &Result{BuildID: buildID, Log: log, Failed: log.HasErrors()}, nil
}

type documentResult struct {
	usage   *bundler.Usage
	statics []ir.SkillStatic
}

// processFile parses, classifies, transforms, emits and writes one input
// file. Failures are reported onto log rather than returned, so one bad
// file never aborts the rest of the build (spec §5).
func processFile(path string, cache *resolver.Cache, log *logger.Log, cfg config.Config) documentResult {
	file, err := cache.Load(path, readFileString, log)
	if err != nil {
		reportErr(log, err, path)
		return documentResult{}
	}
	res := resolver.NewResolver(cache, file, readFileString, log)

	switch classify.Classify(file) {
	case classify.PipelineV1Command:
		t := transformv1.New(file, res, log, cfg)
		doc, err := t.TransformCommand(file.Root)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		text, err := emitv1.EmitDocument(doc, cfg)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		if err := writeFile(doc.OutputPath, text); err != nil {
			reportErr(log, err, path)
		}
		return documentResult{}

	case classify.PipelineV3RuntimeCommand:
		t := transformv3.New(file, res, log, cfg)
		doc, err := t.TransformCommand(file.Root)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		text, usage, err := emitv3.EmitDocument(doc, cfg)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		if err := writeFile(doc.OutputPath, text); err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		if usage.ImportPath == "" {
			return documentResult{}
		}
		return documentResult{usage: &bundler.Usage{
			Namespace:  usage.Namespace,
			ImportPath: resolveRuntimePath(filepath.Dir(path), usage.ImportPath),
			Functions:  usage.Functions,
			Loc:        doc.Loc,
		}}

	case classify.PipelineV1Agent:
		t := transformv1.New(file, res, log, cfg)
		doc, err := t.TransformAgent(file.Root)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		text, err := emitv1.EmitAgent(doc, cfg)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		if err := writeFile(doc.OutputPath, text); err != nil {
			reportErr(log, err, path)
		}
		return documentResult{}

	case classify.PipelineV1Skill:
		t := transformv1.New(file, res, log, cfg)
		doc, err := t.TransformSkill(file.Root)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		out, err := emitv1.EmitSkill(doc, cfg)
		if err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		if err := writeFile(filepath.Join(doc.OutputDir, "SKILL.md"), out.SkillMD); err != nil {
			reportErr(log, err, path)
			return documentResult{}
		}
		for name, body := range out.Files {
			if err := writeFile(filepath.Join(doc.OutputDir, name), body); err != nil {
				reportErr(log, err, path)
				return documentResult{}
			}
		}
		staged := make([]ir.SkillStatic, len(out.Statics))
		for i, s := range out.Statics {
			staged[i] = ir.SkillStatic{Src: s.Src, Dest: filepath.Join(doc.OutputDir, s.Dest)}
		}
		return documentResult{statics: staged}

	default:
		return documentResult{}
	}
}

func reportErr(log *logger.Log, err error, path string) {
	type reporter interface{ Report(*logger.Log) }
	if r, ok := err.(reporter); ok {
		r.Report(log)
		return
	}
	log.AddError(nil, fmt.Sprintf("%s: %v", path, err))
}

// resolveRuntimePath resolves a runtimeFn import specifier (e.g.
// "./runtime.ts") against the authoring file's directory.
func resolveRuntimePath(fromDir, spec string) string {
	return filepath.Join(fromDir, spec)
}

func readFileString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func buildRuntime(usages []bundler.Usage, cfg config.Config, log *logger.Log) error {
	js, err := bundler.Bundle(usages, readFileString)
	if err != nil {
		reportErr(log, err, "")
		return nil
	}
	return writeFile(filepath.Join(cfg.RuntimeDir, "runtime.js"), js)
}

func copyStatic(s ir.SkillStatic) error {
	data, err := os.ReadFile(s.Src)
	if err != nil {
		return err
	}
	return writeFile(s.Dest, string(data))
}

func writeFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

// DiscoverFiles walks root for every .tsx file (spec §6.1's authoring
// tree), skipping dotfiles/directories. Exported so a watch loop can poll
// the same file set Build itself compiles.
func DiscoverFiles(root string) ([]string, error) {
	return discoverFiles(root)
}

func discoverFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()
		if d.IsDir() {
			if base != "." && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(base, ".tsx") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
