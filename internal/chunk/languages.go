package chunk

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageRegistry maps file extensions and language names to their
// tree-sitter grammar and symbol-node configuration.
type LanguageRegistry struct {
	mu          sync.RWMutex
	configs     map[string]*LanguageConfig
	extToLang   map[string]string
	tsLanguages map[string]*sitter.Language
}

// NewLanguageRegistry builds a registry with every language this build
// of ember understands, extended with Rust and C/C++ tree-sitter
// grammars alongside the core set.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		configs:     make(map[string]*LanguageConfig),
		extToLang:   make(map[string]string),
		tsLanguages: make(map[string]*sitter.Language),
	}
	r.registerGo()
	r.registerTypeScript()
	r.registerJavaScript()
	r.registerPython()
	r.registerRust()
	r.registerCPP()
	return r
}

func (r *LanguageRegistry) GetByExtension(ext string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	langName, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	config, ok := r.configs[langName]
	return config, ok
}

func (r *LanguageRegistry) GetByName(name string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[name]
	return config, ok
}

func (r *LanguageRegistry) GetTreeSitterLanguage(name string) (*sitter.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.tsLanguages[name]
	return lang, ok
}

// SupportedExtensions lists every registered file extension, exposed
// through Chunker.SupportedExtensions.
func (r *LanguageRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

func (r *LanguageRegistry) registerLanguage(config *LanguageConfig, tsLang *sitter.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[config.Name] = config
	r.tsLanguages[config.Name] = tsLang
	for _, ext := range config.Extensions {
		r.extToLang[ext] = config.Name
	}
}

func (r *LanguageRegistry) registerGo() {
	r.registerLanguage(&LanguageConfig{
		Name:          "go",
		Extensions:    []string{".go"},
		FunctionTypes: []string{"function_declaration"},
		MethodTypes:   []string{"method_declaration"},
		TypeDefTypes:  []string{"type_declaration"},
		ConstantTypes: []string{"const_declaration"},
		VariableTypes: []string{"var_declaration"},
		NameTypes:     []string{"identifier", "field_identifier"},
	}, golang.GetLanguage())
}

func (r *LanguageRegistry) registerTypeScript() {
	ts := &LanguageConfig{
		Name:           "ts",
		Extensions:     []string{".ts"},
		FunctionTypes:  []string{"function_declaration"},
		MethodTypes:    []string{"method_definition"},
		ClassTypes:     []string{"class_declaration"},
		InterfaceTypes: []string{"interface_declaration"},
		TypeDefTypes:   []string{"type_alias_declaration"},
		ConstantTypes:  []string{"lexical_declaration"},
		VariableTypes:  []string{"variable_declaration"},
		NameTypes:      []string{"identifier", "type_identifier", "property_identifier"},
	}
	r.registerLanguage(ts, typescript.GetLanguage())

	tsxCfg := *ts
	tsxCfg.Name = "tsx"
	tsxCfg.Extensions = []string{".tsx"}
	r.registerLanguage(&tsxCfg, tsx.GetLanguage())
}

func (r *LanguageRegistry) registerJavaScript() {
	js := &LanguageConfig{
		Name:          "js",
		Extensions:    []string{".js", ".mjs"},
		FunctionTypes: []string{"function_declaration", "function"},
		MethodTypes:   []string{"method_definition"},
		ClassTypes:    []string{"class_declaration"},
		ConstantTypes: []string{"lexical_declaration"},
		VariableTypes: []string{"variable_declaration"},
		NameTypes:     []string{"identifier", "property_identifier"},
	}
	r.registerLanguage(js, javascript.GetLanguage())

	jsx := *js
	jsx.Name = "jsx"
	jsx.Extensions = []string{".jsx"}
	r.registerLanguage(&jsx, javascript.GetLanguage())
}

func (r *LanguageRegistry) registerPython() {
	r.registerLanguage(&LanguageConfig{
		Name:          "py",
		Extensions:    []string{".py"},
		FunctionTypes: []string{"function_definition"},
		ClassTypes:    []string{"class_definition"},
		VariableTypes: []string{"assignment"},
		NameTypes:     []string{"identifier"},
	}, python.GetLanguage())
}

func (r *LanguageRegistry) registerRust() {
	r.registerLanguage(&LanguageConfig{
		Name:          "rs",
		Extensions:    []string{".rs"},
		FunctionTypes: []string{"function_item"},
		ClassTypes:    []string{"struct_item", "enum_item"},
		InterfaceTypes: []string{"trait_item"},
		TypeDefTypes:  []string{"type_item"},
		ConstantTypes: []string{"const_item", "static_item"},
		NameTypes:     []string{"identifier", "type_identifier"},
	}, rust.GetLanguage())
}

func (r *LanguageRegistry) registerCPP() {
	cppConfig := &LanguageConfig{
		Name:          "cpp",
		Extensions:    []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		FunctionTypes: []string{"function_definition"},
		ClassTypes:    []string{"class_specifier", "struct_specifier"},
		TypeDefTypes:  []string{"type_definition"},
		NameTypes:     []string{"identifier", "field_identifier", "type_identifier"},
	}
	r.registerLanguage(cppConfig, cpp.GetLanguage())

	c := *cppConfig
	c.Name = "c"
	c.Extensions = []string{".c", ".h"}
	r.registerLanguage(&c, cpp.GetLanguage())
}

var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the package-wide language registry.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
