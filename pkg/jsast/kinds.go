package jsast

// Grammar node kinds shared by the JavaScript and TypeScript grammars.
const (
	KindProgram              = "program"
	KindComment              = "comment"
	KindError                = "ERROR"
	KindImportStatement      = "import_statement"
	KindImportClause         = "import_clause"
	KindNamedImports         = "named_imports"
	KindImportSpecifier      = "import_specifier"
	KindNamespaceImport      = "namespace_import"
	KindExportStatement      = "export_statement"
	KindObject               = "object"
	KindArray                = "array"
	KindPair                 = "pair"
	KindShorthandProperty    = "shorthand_property_identifier"
	KindSpreadElement        = "spread_element"
	KindMethodDefinition     = "method_definition"
	KindFunctionExpression   = "function_expression"
	KindFunction             = "function"
	KindGeneratorFunction    = "generator_function"
	KindFunctionDeclaration  = "function_declaration"
	KindGeneratorDeclaration = "generator_function_declaration"
	KindArrowFunction        = "arrow_function"
	KindFormalParameters     = "formal_parameters"
	KindRequiredParameter    = "required_parameter"
	KindOptionalParameter    = "optional_parameter"
	KindAssignmentPattern    = "assignment_pattern"
	KindRestPattern          = "rest_pattern"
	KindObjectPattern        = "object_pattern"
	KindArrayPattern         = "array_pattern"
	KindIdentifier           = "identifier"
	KindPropertyIdentifier   = "property_identifier"
	KindTypeIdentifier       = "type_identifier"
	KindThis                 = "this"
	KindString               = "string"
	KindStringFragment       = "string_fragment"
	KindTemplateString       = "template_string"
	KindNumber               = "number"
	KindComputedPropertyName = "computed_property_name"
	KindStatementBlock       = "statement_block"
	KindReturnStatement      = "return_statement"
	KindExpressionStatement  = "expression_statement"
	KindParenthesized        = "parenthesized_expression"
	KindCallExpression       = "call_expression"
	KindMemberExpression     = "member_expression"
	KindArguments            = "arguments"
	KindClassDeclaration     = "class_declaration"
	KindClass                = "class"
	KindClassHeritage        = "class_heritage"
	KindExtendsClause        = "extends_clause"
	KindClassBody            = "class_body"
	KindFieldDefinition      = "field_definition"
	KindPublicField          = "public_field_definition"
	KindDecorator            = "decorator"
	KindLexicalDeclaration   = "lexical_declaration"
	KindVariableDeclaration  = "variable_declaration"
	KindVariableDeclarator   = "variable_declarator"
	KindTypeAnnotation       = "type_annotation"
	KindAsExpression         = "as_expression"
	KindSatisfiesExpression  = "satisfies_expression"
	KindNonNullExpression    = "non_null_expression"
	KindImport               = "import"
	KindAssignmentExpression = "assignment_expression"
)

// typeOnlyKinds are dropped entirely when printing with StripTypes.
var typeOnlyKinds = map[string]bool{
	KindTypeAnnotation:          true,
	"type_arguments":            true,
	"type_parameters":           true,
	"accessibility_modifier":    true,
	"override_modifier":         true,
	"interface_declaration":     true,
	"type_alias_declaration":    true,
	"abstract_method_signature": true,
	"index_signature":           true,
	"ambient_declaration":       true,
	"implements_clause":         true,
	"asserts_annotation":        true,
	"type_predicate_annotation": true,
	"opting_type_annotation":    true,
	"omitting_type_annotation":  true,
	"adding_type_annotation":    true,
	"readonly":                  true,
	"declare":                   true,
	"method_signature":          true,
	"function_signature":        true,
}

// unwrapKinds print only their first named child when stripping types.
var unwrapKinds = map[string]bool{
	KindAsExpression:        true,
	KindSatisfiesExpression: true,
	KindNonNullExpression:   true,
}
