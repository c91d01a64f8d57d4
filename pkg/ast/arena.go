package ast

// Arena owns every node and string allocated while parsing one
// compilation unit: AST lifetime equals parser lifetime.
//
// Go's garbage collector makes a literal bump allocator unnecessary for
// memory safety, but the ownership discipline still matters for the API
// contract: callers must not assume a node survives past the arena that
// produced it, and Reset() lets a long-lived process (e.g. an import
// resolver compiling many modules in one run) reclaim a compilation unit
// in one step instead of relying on piecemeal GC of a deeply
// cross-referenced graph.
type Arena struct {
	strings []string
	files   []*File
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Intern copies s into the arena's ownership and returns the arena's copy.
// Copying (rather than retaining the caller's slice) is what lets Reset
// discard everything the arena owns without aliasing surprises.
func (a *Arena) Intern(s string) string {
	cp := string([]byte(s))
	a.strings = append(a.strings, cp)
	return cp
}

// Own registers f as belonging to this arena's lifetime.
func (a *Arena) Own(f *File) {
	a.files = append(a.files, f)
}

// Reset reclaims the arena's memory in one step. Clients that need a File
// to outlive the arena must have already copied what they need out of it
//.
func (a *Arena) Reset() {
	a.strings = nil
	a.files = nil
}
