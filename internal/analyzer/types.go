package analyzer

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/scope"
	"github.com/mnhoque/clog/internal/typesystem"
)

// declareType installs one sum-type declaration into the registry and
// binds each of its variants into the top scope as a Constructor path
// carrying a TConstructor pseudo-type (§4.4.1), grounded on
// original_source/src/type_check.rs's get_type_decl.
func (s *state) declareType(tb *ast.TypeBinding) {
	if _, exists := s.typeMap[tb.Name]; exists {
		s.errors = append(s.errors, diagnostics.At(tb.Pos(), diagnostics.CodeDuplicateTypeName,
			"type %q already declared", tb.Name))
		return
	}

	genMap := make(map[string]int, len(tb.Vars))
	for i, v := range tb.Vars {
		genMap[v] = i
	}

	id := s.registry.Declare(typesystem.TypeDecl{Name: tb.Name, NumGenerics: len(tb.Vars)})
	s.typeMap[tb.Name] = id

	seenVariant := make(map[string]bool, len(tb.Variants))
	variants := make([]typesystem.Variant, len(tb.Variants))
	for i, v := range tb.Variants {
		if seenVariant[v.Name] {
			s.errors = append(s.errors, diagnostics.At(tb.Pos(), diagnostics.CodeDuplicateVariantName,
				"variant %q declared more than once in type %q", v.Name, tb.Name))
		}
		seenVariant[v.Name] = true

		fieldType, err := typesystem.ToType(v.FieldType, s.typeMap, genMap)
		if err != nil {
			s.errors = append(s.errors, diagnostics.At(tb.Pos(), diagnostics.CodeTypeNotDefined, "%s", err.Error()))
			fieldType = typesystem.TUnit{}
		}
		variants[i] = typesystem.Variant{Name: v.Name, FieldType: fieldType}

		s.top.Local()[v.Name] = scope.Binding{
			Path: ir.NewConstructor(id, i),
			Type: typesystem.TConstructor{Target: id, Position: i + 1},
		}
	}
	*s.registry.Lookup(id) = typesystem.TypeDecl{Name: tb.Name, NumGenerics: len(tb.Vars), Variants: variants}
}
