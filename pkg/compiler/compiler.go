// Package compiler wires the lexer, parser, AST->IR lowering pass and
// KIR codecs into one entry point: source bytes in, serialized KIR out.
// There is no cmd/ front end here; Compile is what an external CLI
// calls.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/kir"
	"github.com/kryonlabs/kryon-core/pkg/lower"
	"github.com/kryonlabs/kryon-core/pkg/parser"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// Version is this compiler build's identifier, stamped into every KIR
// document's source_metadata.
const Version = "0.1.0"

// Compile parses src as a .kry compilation unit, lowers it to IR, and
// serializes the result as JSON KIR. baseDir anchors import resolution;
// skipImportExpansion disables import following entirely.
//
// A nil return means the error list contains a Fatal diagnostic. Any
// other severity still yields a best-effort KIR document alongside the
// accumulated diagnostics.
func Compile(src []byte, baseDir string, skipImportExpansion bool) ([]byte, *diag.List) {
	doc, diags := compileToDocument(src, baseDir, skipImportExpansion)
	if doc == nil {
		return nil, diags
	}
	data, err := kir.EncodeJSON(doc)
	if err != nil {
		diags.Add(diag.Fatal, diag.IO, token.Position{}, "encoding KIR JSON: %v", err)
		return nil, diags
	}
	return data, diags
}

// CompileToBinary is Compile's binary-KIR counterpart, for callers that
// want the compact wire format instead of JSON.
func CompileToBinary(src []byte, baseDir string, skipImportExpansion bool) ([]byte, *diag.List) {
	doc, diags := compileToDocument(src, baseDir, skipImportExpansion)
	if doc == nil {
		return nil, diags
	}
	data, err := kir.EncodeBinary(doc)
	if err != nil {
		diags.Add(diag.Fatal, diag.IO, token.Position{}, "encoding KIR binary: %v", err)
		return nil, diags
	}
	return data, diags
}

// compileToDocument runs the shared parse->lower pipeline both Compile and
// CompileToBinary build on, stopping short of picking a wire format. A nil
// *kir.Document means diags contains a Fatal diagnostic.
func compileToDocument(src []byte, baseDir string, skipImportExpansion bool) (*kir.Document, *diag.List) {
	diags := &diag.List{}

	p := parser.New(string(src), diags)
	file := p.Parse()
	if diags.HasFatal() {
		return nil, diags
	}

	var resolver lower.ModuleResolver
	if !skipImportExpansion && baseDir != "" {
		resolver = &fileResolver{baseDir: baseDir, diags: diags}
	}

	ctx := lower.NewContext(baseDir, resolver)
	ctx.Diags = diags
	root := lower.Lower(file, ctx)
	if diags.HasFatal() {
		return nil, diags
	}

	return &kir.Document{
		Version:  kir.FormatVersion,
		Root:     root,
		Manifest: ctx.Manifest,
		Logic:    ctx.Logic,
		Source:   ctx.Source,
		Styles:   ctx.Styles,
		Metadata: kir.SourceMetadata{
			SourceLanguage:  "kry",
			CompilerVersion: Version,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		},
	}, diags
}

// fileResolver is the filesystem-backed lower.ModuleResolver a real
// compile uses; tests supply their own in-memory lower.ModuleResolver
// instead (per pkg/lower/context.go's doc comment on ModuleResolver).
type fileResolver struct {
	baseDir string
	diags   *diag.List
}

// Resolve turns a dotted module path ("widgets.cards") into a filesystem
// path relative to baseDir ("widgets/cards.kry"), reads it, and parses it.
// Parse-time diagnostics for the imported file are appended to the same
// list the top-level compile uses, so one compile invocation surfaces
// every problem across the whole import graph.
func (r *fileResolver) Resolve(path string) (*ast.File, error) {
	rel := strings.ReplaceAll(path, ".", string(filepath.Separator)) + ".kry"
	full := filepath.Join(r.baseDir, rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading module %q: %w", path, err)
	}
	p := parser.New(string(data), r.diags)
	return p.Parse(), nil
}
