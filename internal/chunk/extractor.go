package chunk

// symbolKind reports whether n is a node type any of cfg's symbol
// lists name — only used to decide whether a node is a symbol at all
// (its depth in the tree is not checked), since Chunk carries one flat Symbol string rather
// than a typed Symbol struct.
func symbolKind(n *Node, cfg *LanguageConfig) bool {
	all := [][]string{cfg.FunctionTypes, cfg.MethodTypes, cfg.ClassTypes, cfg.InterfaceTypes, cfg.TypeDefTypes, cfg.ConstantTypes, cfg.VariableTypes}
	for _, group := range all {
		for _, t := range group {
			if n.Type == t {
				return true
			}
		}
	}
	return false
}

// extractName finds the identifier naming a symbol node by scanning its
// direct children for any of the language's NameTypes, then falling
// back to a recursive search (needed for e.g. Go's const_spec/var_spec
// wrapper nodes and TS's variable_declarator).
func extractName(n *Node, source []byte, cfg *LanguageConfig) string {
	if name := directChildName(n, source, cfg.NameTypes); name != "" {
		return name
	}
	for _, child := range n.Children {
		if name := extractName(child, source, cfg); name != "" {
			return name
		}
	}
	return ""
}

func directChildName(n *Node, source []byte, nameTypes []string) string {
	for _, child := range n.Children {
		for _, nt := range nameTypes {
			if child.Type == nt {
				return child.GetContent(source)
			}
		}
	}
	return ""
}
