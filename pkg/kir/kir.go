// Package kir implements the KIR serializer/deserializer pair: a
// lossless binary codec (little-endian, tag-length-value, fixed magic +
// version prefix) and a structured JSON codec, both covering the same
// information — component tree, reactive manifest, logic block, source
// structures and stylesheet.
package kir

import (
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/stylesheet"
)

// FormatVersion is the KIR wire format's version number, carried in both
// codecs' headers.
const FormatVersion = 1

// SourceMetadata is the `source_metadata` section of a KIR document:
// source language, compiler version and timestamp.
type SourceMetadata struct {
	SourceLanguage  string
	CompilerVersion string
	Timestamp       string // RFC3339; caller stamps it, kir never calls time.Now
}

// Document is the full unit a compile produces and the KIR codecs
// (de)serialize: the IR root, the reactive manifest, the logic block, the
// round-trip source structures, and the optional stylesheet.
type Document struct {
	Version    int
	Root       *ir.Component
	Manifest   *manifest.Manifest
	Logic      *manifest.LogicBlock
	Source     *manifest.SourceStructures
	Styles     *stylesheet.Stylesheet // nil when no `style` blocks were compiled
	Metadata   SourceMetadata
}
