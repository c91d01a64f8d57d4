package kir

import "github.com/kryonlabs/kryon-core/pkg/manifest"

func writeManifest(w *writer, m *manifest.Manifest) {
	if m == nil {
		w.u32(0)
		w.u32(0)
		return
	}
	w.u32(uint32(len(m.Variables)))
	for _, v := range m.Variables {
		w.i32(int32(v.ID))
		w.str(v.Name)
		w.str(v.TypeTag)
		w.str(v.InitialJSON)
		w.str(v.Scope)
	}
	w.u32(uint32(len(m.Defs)))
	for _, d := range m.Defs {
		w.str(d.Name)
		w.str(d.ExtendsParent)
		w.u32(uint32(len(d.Params)))
		for _, p := range d.Params {
			w.str(p)
		}
		w.u32(uint32(len(d.StateVars)))
		for _, sv := range d.StateVars {
			w.str(sv.Name)
			w.str(sv.TypeName)
			w.str(sv.InitialExpr)
		}
		writeComponent(w, d.Template)
		w.str(d.ModulePath)
		w.str(d.SourceModule)
	}
}

// readManifest reconstructs a Manifest. Variables are re-added through
// AddVariable in stored order so the monotonic id allocator lands on the
// same ids as the original compile; the encoded id itself is read and
// discarded, not compared against the re-derived one.
func readManifest(r *reader) (*manifest.Manifest, error) {
	m := &manifest.Manifest{}
	varCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < varCount; i++ {
		if _, err := r.i32(); err != nil { // encoded id, re-derived by AddVariable
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		typeTag, err := r.str()
		if err != nil {
			return nil, err
		}
		initJSON, err := r.str()
		if err != nil {
			return nil, err
		}
		scope, err := r.str()
		if err != nil {
			return nil, err
		}
		m.AddVariable(name, typeTag, initJSON, scope)
	}

	defCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < defCount; i++ {
		def := &manifest.ComponentDefinition{}
		if def.Name, err = r.str(); err != nil {
			return nil, err
		}
		if def.ExtendsParent, err = r.str(); err != nil {
			return nil, err
		}
		paramCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		def.Params = make([]string, 0, paramCount)
		for j := uint32(0); j < paramCount; j++ {
			p, err := r.str()
			if err != nil {
				return nil, err
			}
			def.Params = append(def.Params, p)
		}
		svCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		def.StateVars = make([]manifest.StateVarDef, 0, svCount)
		for j := uint32(0); j < svCount; j++ {
			var sv manifest.StateVarDef
			if sv.Name, err = r.str(); err != nil {
				return nil, err
			}
			if sv.TypeName, err = r.str(); err != nil {
				return nil, err
			}
			if sv.InitialExpr, err = r.str(); err != nil {
				return nil, err
			}
			def.StateVars = append(def.StateVars, sv)
		}
		if def.Template, err = readComponent(r); err != nil {
			return nil, err
		}
		if def.ModulePath, err = r.str(); err != nil {
			return nil, err
		}
		if def.SourceModule, err = r.str(); err != nil {
			return nil, err
		}
		m.AddDefinition(def)
	}
	return m, nil
}

func writeLogic(w *writer, lb *manifest.LogicBlock) {
	if lb == nil {
		w.u32(0)
		w.u32(0)
		return
	}
	w.u32(uint32(len(lb.Functions)))
	for _, fn := range lb.Functions {
		w.str(fn.Name)
		w.u32(uint32(len(fn.Params)))
		for _, p := range fn.Params {
			w.str(p.Name)
			w.str(p.TypeName)
		}
		w.str(fn.ReturnType)
		writeStmts(w, fn.Body)
		w.u32(uint32(len(fn.Alternates)))
		for _, alt := range fn.Alternates {
			w.str(alt.Lang)
			w.str(alt.Source)
		}
	}
	w.u32(uint32(len(lb.Bindings)))
	for _, b := range lb.Bindings {
		w.i32(int32(b.ComponentID))
		w.str(b.EventKind)
		w.str(b.HandlerName)
	}
}

func readLogic(r *reader) (*manifest.LogicBlock, error) {
	lb := &manifest.LogicBlock{}
	fnCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < fnCount; i++ {
		fn := &manifest.LogicFunction{}
		if fn.Name, err = r.str(); err != nil {
			return nil, err
		}
		paramCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		fn.Params = make([]manifest.Param, 0, paramCount)
		for j := uint32(0); j < paramCount; j++ {
			var p manifest.Param
			if p.Name, err = r.str(); err != nil {
				return nil, err
			}
			if p.TypeName, err = r.str(); err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, p)
		}
		if fn.ReturnType, err = r.str(); err != nil {
			return nil, err
		}
		if fn.Body, err = readStmts(r); err != nil {
			return nil, err
		}
		altCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		fn.Alternates = make([]manifest.SourceAlternate, 0, altCount)
		for j := uint32(0); j < altCount; j++ {
			var alt manifest.SourceAlternate
			if alt.Lang, err = r.str(); err != nil {
				return nil, err
			}
			if alt.Source, err = r.str(); err != nil {
				return nil, err
			}
			fn.Alternates = append(fn.Alternates, alt)
		}
		lb.AddFunction(fn)
	}
	bindCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < bindCount; i++ {
		var b manifest.EventBinding
		cid, err := r.i32()
		if err != nil {
			return nil, err
		}
		b.ComponentID = int(cid)
		if b.EventKind, err = r.str(); err != nil {
			return nil, err
		}
		if b.HandlerName, err = r.str(); err != nil {
			return nil, err
		}
		lb.AddBinding(b)
	}
	return lb, nil
}

// writeStmts encodes a statement list recursively: kind byte, the three
// string fields, then the nested body and else lists.
func writeStmts(w *writer, stmts []manifest.Stmt) {
	w.u32(uint32(len(stmts)))
	for _, s := range stmts {
		w.u8(uint8(s.Kind))
		w.str(s.Name)
		w.str(s.TypeName)
		w.str(s.Expr)
		writeStmts(w, s.Body)
		writeStmts(w, s.Else)
	}
}

func readStmts(r *reader) ([]manifest.Stmt, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	var out []manifest.Stmt
	for i := uint32(0); i < n; i++ {
		var s manifest.Stmt
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		s.Kind = manifest.StmtKind(kind)
		if s.Name, err = r.str(); err != nil {
			return nil, err
		}
		if s.TypeName, err = r.str(); err != nil {
			return nil, err
		}
		if s.Expr, err = r.str(); err != nil {
			return nil, err
		}
		if s.Body, err = readStmts(r); err != nil {
			return nil, err
		}
		if s.Else, err = readStmts(r); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func writeSource(w *writer, s *manifest.SourceStructures) {
	if s == nil {
		s = &manifest.SourceStructures{}
	}
	w.u32(uint32(len(s.StaticBlocks)))
	for _, b := range s.StaticBlocks {
		w.str(b.ID)
		w.i32(int32(b.ParentComponent))
	}
	w.u32(uint32(len(s.ForLoops)))
	for _, fl := range s.ForLoops {
		w.str(fl.ScopeID)
		w.str(fl.Iterator)
		w.str(fl.CollectionRef)
		w.i32(int32(fl.TemplateID))
		w.u32(uint32(len(fl.ExpandedIDs)))
		for _, id := range fl.ExpandedIDs {
			w.i32(int32(id))
		}
	}
	w.u32(uint32(len(s.VarDecls)))
	for _, vd := range s.VarDecls {
		w.str(vd.Name)
		w.str(vd.Kind)
		w.str(vd.ValueJSON)
		w.str(vd.Scope)
	}
	w.u32(uint32(len(s.Imports)))
	for _, im := range s.Imports {
		w.str(im.LocalName)
		w.str(im.ModulePath)
	}
	w.u32(uint32(len(s.Structs)))
	for _, st := range s.Structs {
		w.str(st.Name)
		w.u32(uint32(len(st.Fields)))
		for _, f := range st.Fields {
			w.str(f.Name)
			w.str(f.TypeName)
		}
	}
	w.u32(uint32(len(s.Exports)))
	for _, ex := range s.Exports {
		w.str(ex.Name)
		w.u8(uint8(ex.Kind))
		w.str(ex.Ref)
	}
}

func readSource(r *reader) (*manifest.SourceStructures, error) {
	s := &manifest.SourceStructures{}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var b manifest.StaticBlockRecord
		if b.ID, err = r.str(); err != nil {
			return nil, err
		}
		pc, err := r.i32()
		if err != nil {
			return nil, err
		}
		b.ParentComponent = int(pc)
		s.AddStaticBlock(b)
	}
	n, err = r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var fl manifest.ForLoopRecord
		if fl.ScopeID, err = r.str(); err != nil {
			return nil, err
		}
		if fl.Iterator, err = r.str(); err != nil {
			return nil, err
		}
		if fl.CollectionRef, err = r.str(); err != nil {
			return nil, err
		}
		tid, err := r.i32()
		if err != nil {
			return nil, err
		}
		fl.TemplateID = int(tid)
		idCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		fl.ExpandedIDs = make([]int, 0, idCount)
		for j := uint32(0); j < idCount; j++ {
			id, err := r.i32()
			if err != nil {
				return nil, err
			}
			fl.ExpandedIDs = append(fl.ExpandedIDs, int(id))
		}
		s.AddForLoop(fl)
	}
	n, err = r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var vd manifest.VarDeclRecord
		if vd.Name, err = r.str(); err != nil {
			return nil, err
		}
		if vd.Kind, err = r.str(); err != nil {
			return nil, err
		}
		if vd.ValueJSON, err = r.str(); err != nil {
			return nil, err
		}
		if vd.Scope, err = r.str(); err != nil {
			return nil, err
		}
		s.AddVarDecl(vd)
	}
	n, err = r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var im manifest.ImportRecord
		if im.LocalName, err = r.str(); err != nil {
			return nil, err
		}
		if im.ModulePath, err = r.str(); err != nil {
			return nil, err
		}
		s.AddImport(im)
	}
	n, err = r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var st manifest.StructTypeRecord
		if st.Name, err = r.str(); err != nil {
			return nil, err
		}
		fCount, err := r.u32()
		if err != nil {
			return nil, err
		}
		st.Fields = make([]manifest.StructFieldRecord, 0, fCount)
		for j := uint32(0); j < fCount; j++ {
			var f manifest.StructFieldRecord
			if f.Name, err = r.str(); err != nil {
				return nil, err
			}
			if f.TypeName, err = r.str(); err != nil {
				return nil, err
			}
			st.Fields = append(st.Fields, f)
		}
		s.AddStruct(st)
	}
	n, err = r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var ex manifest.ExportRecord
		if ex.Name, err = r.str(); err != nil {
			return nil, err
		}
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		ex.Kind = manifest.ExportKind(kind)
		if ex.Ref, err = r.str(); err != nil {
			return nil, err
		}
		s.AddExport(ex)
	}
	return s, nil
}
