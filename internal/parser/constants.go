package parser

// tree-sitter node types of the Rust grammar
const (
	nodeSourceFile      = "source_file"
	nodeAttributeItem   = "attribute_item"
	nodeInnerAttribute  = "inner_attribute_item"
	nodeAttribute       = "attribute"
	nodeLineComment     = "line_comment"
	nodeBlockComment    = "block_comment"
	nodeFunctionItem    = "function_item"
	nodeImplItem        = "impl_item"
	nodeModItem         = "mod_item"
	nodeDeclarationList = "declaration_list"
	nodeParameters      = "parameters"
	nodeParameter       = "parameter"
	nodeSelfParameter   = "self_parameter"
	nodeVisibility      = "visibility_modifier"
	nodeModifiers       = "function_modifiers"
	nodeWhereClause     = "where_clause"
	nodeMutable         = "mutable_specifier"
)

// field names of the Rust grammar
const (
	fieldName           = "name"
	fieldTypeParameters = "type_parameters"
	fieldParameters     = "parameters"
	fieldReturnType     = "return_type"
	fieldBody           = "body"
	fieldTrait          = "trait"
	fieldType           = "type"
	fieldPattern        = "pattern"
	fieldArguments      = "arguments"
	fieldValue          = "value"
)

const (
	// DocPath is the attribute path given to doc comments
	DocPath = "doc"

	// maxSnippet bounds the source text quoted in syntax diagnostics
	maxSnippet = 24
)
