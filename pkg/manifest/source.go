package manifest

// StaticBlockRecord preserves a `static { ... }` block's identity for
// codegen round-trip.
type StaticBlockRecord struct {
	ID             string // "static_<N>"
	ParentComponent int
}

// ForLoopRecord preserves a compile-time for-loop's original syntax.
type ForLoopRecord struct {
	ScopeID        string
	Iterator       string
	CollectionRef  string
	TemplateID     int // id of the template component (converted w/ empty params)
	ExpandedIDs    []int
}

// VarDeclRecord preserves a module/static-block variable declaration.
type VarDeclRecord struct {
	Name        string
	Kind        string // "const" | "let" | "var" | "state"
	ValueJSON   string
	Scope       string
}

// ImportRecord preserves one `import name from path` statement.
type ImportRecord struct {
	LocalName  string
	ModulePath string
}

// StructFieldRecord is one field of a preserved struct type.
type StructFieldRecord struct {
	Name     string
	TypeName string
}

// StructTypeRecord preserves a `struct Name { ... }` declaration.
type StructTypeRecord struct {
	Name   string
	Fields []StructFieldRecord
}

// ExportKind tags what a module `return { ... }` exported.
type ExportKind int

const (
	ExportValue ExportKind = iota
	ExportFunction
	ExportStruct
)

// ExportRecord is one entry of a module's `return { ... }` statement.
type ExportRecord struct {
	Name string
	Kind ExportKind
	Ref  string // function/struct name, or a JSON value for ExportValue
}

// SourceStructures is the round-trip metadata bag a code generator reads
// to re-emit the original `.kry` syntax. Go's GC makes the ownership
// half of that contract automatic; the add-* shape is kept because it is
// the natural place for lowering code to push a record as it is produced.
type SourceStructures struct {
	StaticBlocks []StaticBlockRecord
	ForLoops     []ForLoopRecord
	VarDecls     []VarDeclRecord
	Imports      []ImportRecord
	Structs      []StructTypeRecord
	Exports      []ExportRecord
}

func (s *SourceStructures) AddStaticBlock(r StaticBlockRecord) { s.StaticBlocks = append(s.StaticBlocks, r) }
func (s *SourceStructures) AddForLoop(r ForLoopRecord)         { s.ForLoops = append(s.ForLoops, r) }
func (s *SourceStructures) AddVarDecl(r VarDeclRecord)         { s.VarDecls = append(s.VarDecls, r) }
func (s *SourceStructures) AddImport(r ImportRecord)           { s.Imports = append(s.Imports, r) }
func (s *SourceStructures) AddStruct(r StructTypeRecord)       { s.Structs = append(s.Structs, r) }
func (s *SourceStructures) AddExport(r ExportRecord)           { s.Exports = append(s.Exports, r) }
