// Package v3 implements spec §4.4's runtime transformer: the V3 pipeline
// used for Command documents that import useRuntimeVar/runtimeFn. It
// extends the V1 pipeline (internal/transform/v1) with runtime variable
// interpolation, a full condition ADT, field-path validation against
// runtime variable types (internal/fieldpath), and <X.Call> lowering —
// everything a Command document can reach that a plain V1 Command cannot.
package v3

import (
	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/fieldpath"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/resolver"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// Transformer carries the same build-scoped collaborators as v1.Transformer
// plus the runtime-variable and runtime-function tables resolved from the
// file's useRuntimeVar/runtimeFn declarations.
type Transformer struct {
	File     *tsx_ast.File
	Resolver *resolver.Resolver
	Log      *logger.Log
	Config   config.Config

	varsByLocal map[string]tsx_ast.RuntimeVarDecl
	fnsByLocal  map[string]tsx_ast.RuntimeFnDecl
	shapes      map[string]fieldpath.Shape // keyed by runtime VarName
	aliases     map[string]string          // type-alias name -> raw type text, for fieldpath

	// loopDepth tracks lexical nesting inside <Loop> so handleBreak can
	// reject a <Break/> outside any loop (spec §3.3 invariant 4).
	loopDepth int
}

func New(file *tsx_ast.File, res *resolver.Resolver, log *logger.Log, cfg config.Config) *Transformer {
	t := &Transformer{
		File:        file,
		Resolver:    res,
		Log:         log,
		Config:      cfg,
		varsByLocal: map[string]tsx_ast.RuntimeVarDecl{},
		fnsByLocal:  map[string]tsx_ast.RuntimeFnDecl{},
		shapes:      map[string]fieldpath.Shape{},
		aliases:     map[string]string{},
	}
	for _, alias := range file.TypeAliases {
		t.aliases[alias.Name] = alias.TypeText
	}
	for _, v := range file.RuntimeVarDecls {
		t.varsByLocal[v.LocalName] = v
		t.shapes[v.VarName] = fieldpath.Parse(v.TypeText, t.aliases)
	}
	for _, fn := range file.RuntimeFnDecls {
		t.fnsByLocal[fn.LocalName] = fn
	}
	return t
}

func (t *Transformer) loc(r logger.Range) *logger.MsgLocation {
	return logger.LocationIn(t.File.Source, r)
}
