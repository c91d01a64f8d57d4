package kir

import (
	"fmt"
)

// magic is the fixed 4-byte prefix every binary KIR stream starts with
//.
var magic = [4]byte{'K', 'I', 'R', '1'}

// section tags, each followed by a uint32 length and that many payload
// bytes. Encode always emits them in this fixed order; Decode reads
// sections in the same fixed order rather than sniffing an unordered tag
// stream — the layout is exact per version, not a self-describing,
// order-independent container.
const (
	tagRoot       = 0x01
	tagManifest   = 0x02
	tagLogic      = 0x03
	tagSource     = 0x04
	tagStylesheet = 0x05
	tagMetadata   = 0x06
)

// ErrBadMagic is returned by Decode when the stream does not start with
// the expected 4-byte magic.
var ErrBadMagic = fmt.Errorf("kir: bad magic bytes")

// ErrUnknownTag is returned by Decode when a section tag doesn't match
// the fixed sequence this version emits. Unknown tags are a fatal decode
// error; there is no forward compatibility within a major version.
var ErrUnknownTag = fmt.Errorf("kir: unknown section tag")

// EncodeBinary serializes doc to the binary KIR wire format.
func EncodeBinary(doc *Document) ([]byte, error) {
	w := &writer{}
	w.buf.Write(magic[:])
	w.u32(FormatVersion)

	writeSection(w, tagRoot, func(sw *writer) { writeComponent(sw, doc.Root) })
	writeSection(w, tagManifest, func(sw *writer) { writeManifest(sw, doc.Manifest) })
	writeSection(w, tagLogic, func(sw *writer) { writeLogic(sw, doc.Logic) })
	writeSection(w, tagSource, func(sw *writer) { writeSource(sw, doc.Source) })
	writeSection(w, tagStylesheet, func(sw *writer) { writeStylesheet(sw, doc.Styles) })
	writeSection(w, tagMetadata, func(sw *writer) {
		sw.str(doc.Metadata.SourceLanguage)
		sw.str(doc.Metadata.CompilerVersion)
		sw.str(doc.Metadata.Timestamp)
	})

	return w.bytes(), nil
}

// writeSection frames one section's payload with its tag byte and a
// uint32 length prefix. Decode checks tags strictly rather than skipping
// unrecognized ones.
func writeSection(w *writer, tag byte, body func(*writer)) {
	inner := &writer{}
	body(inner)
	w.u8(tag)
	payload := inner.bytes()
	w.u32(uint32(len(payload)))
	w.buf.Write(payload)
}

// DecodeBinary parses data produced by EncodeBinary back into a Document.
func DecodeBinary(data []byte) (*Document, error) {
	if len(data) < 4 || data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return nil, ErrBadMagic
	}
	r := newReader(data[4:])
	version, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("kir: reading version: %w", err)
	}

	doc := &Document{Version: int(version)}

	for _, tag := range [...]byte{tagRoot, tagManifest, tagLogic, tagSource, tagStylesheet, tagMetadata} {
		gotTag, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("kir: reading section tag: %w", err)
		}
		if gotTag != tag {
			return nil, fmt.Errorf("%w: expected 0x%02x, got 0x%02x", ErrUnknownTag, tag, gotTag)
		}
		length, err := r.u32()
		if err != nil {
			return nil, fmt.Errorf("kir: reading section length: %w", err)
		}
		if r.remaining() < int(length) {
			return nil, errTruncated
		}
		sectionStart := r.pos
		sr := newReader(r.data[sectionStart : sectionStart+int(length)])
		r.pos = sectionStart + int(length)

		switch tag {
		case tagRoot:
			if doc.Root, err = readComponent(sr); err != nil {
				return nil, fmt.Errorf("kir: decoding root: %w", err)
			}
		case tagManifest:
			if doc.Manifest, err = readManifest(sr); err != nil {
				return nil, fmt.Errorf("kir: decoding manifest: %w", err)
			}
		case tagLogic:
			if doc.Logic, err = readLogic(sr); err != nil {
				return nil, fmt.Errorf("kir: decoding logic block: %w", err)
			}
		case tagSource:
			if doc.Source, err = readSource(sr); err != nil {
				return nil, fmt.Errorf("kir: decoding source structures: %w", err)
			}
		case tagStylesheet:
			if doc.Styles, err = readStylesheet(sr); err != nil {
				return nil, fmt.Errorf("kir: decoding stylesheet: %w", err)
			}
		case tagMetadata:
			if doc.Metadata.SourceLanguage, err = sr.str(); err != nil {
				return nil, fmt.Errorf("kir: decoding metadata: %w", err)
			}
			if doc.Metadata.CompilerVersion, err = sr.str(); err != nil {
				return nil, fmt.Errorf("kir: decoding metadata: %w", err)
			}
			if doc.Metadata.Timestamp, err = sr.str(); err != nil {
				return nil, fmt.Errorf("kir: decoding metadata: %w", err)
			}
		}
	}

	return doc, nil
}
