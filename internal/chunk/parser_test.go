package chunk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseGoFile_ReturnsAST(t *testing.T) {
	source := []byte(`package main

func hello() {
	fmt.Println("Hello")
}

func goodbye() {
	fmt.Println("Bye")
}
`)
	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "go")
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "go", tree.Language)

	funcNodes := findNodes(tree.Root, "function_declaration")
	assert.Len(t, funcNodes, 2)
}

func TestParser_ParseTypeScript_ReturnsAST(t *testing.T) {
	source := []byte(`interface User {
	name: string;
}

function greet(user: User): string {
	return "Hello, " + user.name;
}

const add = (a: number, b: number): number => a + b;
`)
	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "ts")
	require.NoError(t, err)
	assert.Equal(t, "ts", tree.Language)

	assert.Len(t, findNodes(tree.Root, "interface_declaration"), 1)
	assert.Len(t, findNodes(tree.Root, "function_declaration"), 1)
	assert.Len(t, findNodes(tree.Root, "arrow_function"), 1)
}

func TestParser_HandleSyntaxError_ReturnsPartialAST(t *testing.T) {
	source := []byte(`package main

func broken( {
}
`)
	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "go")
	require.NoError(t, err)
	require.NotNil(t, tree)
}

func TestLanguageRegistry_GetByExtension(t *testing.T) {
	tests := []struct {
		extension string
		wantLang  string
		wantOK    bool
	}{
		{".go", "go", true},
		{".ts", "ts", true},
		{".tsx", "tsx", true},
		{".js", "js", true},
		{".jsx", "jsx", true},
		{".mjs", "js", true},
		{".py", "py", true},
		{".rs", "rs", true},
		{".cpp", "cpp", true},
	}

	registry := NewLanguageRegistry()
	for _, tt := range tests {
		config, ok := registry.GetByExtension(tt.extension)
		assert.Equal(t, tt.wantOK, ok, tt.extension)
		if ok {
			assert.Equal(t, tt.wantLang, config.Name)
		}
	}
}

func TestLanguageRegistry_UnsupportedLanguage(t *testing.T) {
	registry := NewLanguageRegistry()
	config, ok := registry.GetByExtension(".ex")
	assert.False(t, ok)
	assert.Nil(t, config)
}

func TestParser_Lifecycle_CreateParseClose(t *testing.T) {
	parser := NewParser()
	tree, err := parser.Parse(context.Background(), []byte(`package main`), "go")
	require.NoError(t, err)
	require.NotNil(t, tree)
	parser.Close()
}

func TestParser_MultipleParses(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	sources := []struct {
		code     []byte
		language string
	}{
		{[]byte(`package main`), "go"},
		{[]byte(`def foo(): pass`), "py"},
		{[]byte(`function bar() {}`), "js"},
	}
	for _, src := range sources {
		tree, err := parser.Parse(context.Background(), src.code, src.language)
		require.NoError(t, err)
		assert.Equal(t, src.language, tree.Language)
	}
}

func findNodes(node *Node, nodeType string) []*Node {
	var result []*Node
	if node == nil {
		return result
	}
	if node.Type == nodeType {
		result = append(result, node)
	}
	for _, child := range node.Children {
		result = append(result, findNodes(child, nodeType)...)
	}
	return result
}
