package expr

import (
	"fmt"
	"sort"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// SymbolTable maps variable names to their current declaration. It is not
// safe for concurrent use; callers that share one serialize access.
type SymbolTable struct {
	decls map[string]*Decl
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{decls: make(map[string]*Decl)}
}

// Find returns the declaration bound to name.
func (s *SymbolTable) Find(name string) (*Decl, bool) {
	d, ok := s.decls[name]
	return d, ok
}

// Insert binds d under its name. Inserting a name that is already bound is
// a no-op.
func (s *SymbolTable) Insert(d *Decl) {
	if _, ok := s.decls[d.Name]; ok {
		return
	}
	s.decls[d.Name] = d
}

// Update replaces the declaration bound to name.
func (s *SymbolTable) Update(name string, d *Decl) error {
	if _, ok := s.decls[name]; !ok {
		return types.NewDeclarationError(fmt.Sprintf("variable '%s' is not declared", name))
	}
	s.decls[name] = d
	return nil
}

// Names returns the bound names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.decls))
	for name := range s.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (s *SymbolTable) Len() int {
	return len(s.decls)
}

// Context is the state a statement is parsed against: the output radix,
// which is fixed for a session, and the symbol table the parser mutates.
type Context struct {
	Radix   types.Radix
	Symbols *SymbolTable
}

// NewContext creates a context with an empty symbol table.
func NewContext(radix types.Radix) *Context {
	return &Context{Radix: radix, Symbols: NewSymbolTable()}
}
