package chunk

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps a tree-sitter parser bound to one LanguageRegistry.
type Parser struct {
	parser   *sitter.Parser
	registry *LanguageRegistry
}

// NewParser creates a Parser using the default language registry.
func NewParser() *Parser {
	return NewParserWithRegistry(DefaultRegistry())
}

// NewParserWithRegistry creates a Parser bound to a custom registry.
func NewParserWithRegistry(registry *LanguageRegistry) *Parser {
	return &Parser{parser: sitter.NewParser(), registry: registry}
}

// Parse parses source as language and returns its AST.
func (p *Parser) Parse(ctx context.Context, source []byte, language string) (*Tree, error) {
	tsLang, ok := p.registry.GetTreeSitterLanguage(language)
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	p.parser.SetLanguage(tsLang)

	tsTree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	if tsTree == nil {
		return nil, fmt.Errorf("parse source: nil tree")
	}

	return &Tree{Root: convertNode(tsTree.RootNode()), Source: source, Language: language}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

func convertNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	n := &Node{
		Type:       tsNode.Type(),
		StartByte:  tsNode.StartByte(),
		EndByte:    tsNode.EndByte(),
		StartPoint: Point{Row: tsNode.StartPoint().Row, Column: tsNode.StartPoint().Column},
		EndPoint:   Point{Row: tsNode.EndPoint().Row, Column: tsNode.EndPoint().Column},
		Children:   make([]*Node, 0, tsNode.ChildCount()),
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil {
			n.Children = append(n.Children, convertNode(child))
		}
	}
	return n
}
