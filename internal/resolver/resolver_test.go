package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

func TestResolveTypeFromLocalInterface(t *testing.T) {
	file := &tsx_ast.File{
		Path:   "cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		Interfaces: []tsx_ast.InterfaceDecl{
			{Name: "ResearcherInput", Fields: []tsx_ast.TypeField{{Name: "topic", TypeText: "string", Required: true}}},
		},
	}
	r := NewResolver(NewCache(), file, func(string) (string, error) { return "", nil }, logger.NewLog())

	td, err := r.ResolveType("ResearcherInput")
	require.NoError(t, err)
	require.NotNil(t, td)
	require.Len(t, td.Fields, 1)
	assert.Equal(t, "topic", td.Fields[0].Name)
}

func TestResolveTypeFromLocalTypeAliasObjectLiteral(t *testing.T) {
	file := &tsx_ast.File{
		Path:   "cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		TypeAliases: []tsx_ast.TypeAliasDecl{
			{Name: "Input", TypeText: "{ id: string; count?: number }"},
		},
	}
	r := NewResolver(NewCache(), file, func(string) (string, error) { return "", nil }, logger.NewLog())

	td, err := r.ResolveType("Input")
	require.NoError(t, err)
	require.NotNil(t, td)
	require.Len(t, td.Fields, 2)
	assert.Equal(t, "id", td.Fields[0].Name)
	assert.True(t, td.Fields[0].Required)
	assert.Equal(t, "count", td.Fields[1].Name)
	assert.False(t, td.Fields[1].Required)
}

func TestResolveTypeFollowsImportChain(t *testing.T) {
	importedSource := `export interface ResearcherInput { topic: string; }`
	read := func(path string) (string, error) {
		if path == "/project/agents/researcher.tsx" {
			return importedSource, nil
		}
		return "", fmt.Errorf("unexpected path %q", path)
	}

	cache := NewCache()
	cache.files["/project/agents/researcher.tsx"] = &tsx_ast.File{
		Path:   "/project/agents/researcher.tsx",
		Source: &logger.Source{PrettyPath: "researcher.tsx"},
		Interfaces: []tsx_ast.InterfaceDecl{
			{Name: "ResearcherInput", Fields: []tsx_ast.TypeField{{Name: "topic", TypeText: "string", Required: true}}},
		},
	}

	file := &tsx_ast.File{
		Path:   "/project/cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		Imports: []tsx_ast.ImportDecl{
			{From: "./agents/researcher", Names: []tsx_ast.ImportedName{{Imported: "ResearcherInput", Local: "ResearcherInput"}}},
		},
	}
	r := NewResolver(cache, file, read, logger.NewLog())

	td, err := r.ResolveType("ResearcherInput")
	require.NoError(t, err)
	require.NotNil(t, td)
	require.Len(t, td.Fields, 1)
	assert.Equal(t, "topic", td.Fields[0].Name)
}

func TestResolveTypeUnknownSymbolReturnsNil(t *testing.T) {
	file := &tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}
	r := NewResolver(NewCache(), file, func(string) (string, error) { return "", nil }, logger.NewLog())

	td, err := r.ResolveType("Nope")
	require.NoError(t, err)
	assert.Nil(t, td)
}

func TestCacheLoadCachesByAbsolutePath(t *testing.T) {
	calls := 0
	read := func(path string) (string, error) {
		calls++
		return `export default (<Command name="x" description="d"></Command>)`, nil
	}
	cache := NewCache()
	log := logger.NewLog()

	f1, err := cache.Load("a.tsx", read, log)
	require.NoError(t, err)
	f2, err := cache.Load("a.tsx", read, log)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, calls)
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	calls := 0
	read := func(path string) (string, error) {
		calls++
		return `export default (<Command name="x" description="d"></Command>)`, nil
	}
	cache := NewCache()
	log := logger.NewLog()

	_, err := cache.Load("a.tsx", read, log)
	require.NoError(t, err)
	cache.Invalidate("a.tsx")
	_, err = cache.Load("a.tsx", read, log)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
