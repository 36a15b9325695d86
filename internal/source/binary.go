// Binary content detection for early rejection of non-text files.
// Prevents tree-sitter from attempting to parse binary data as source code.
package source

import "bytes"

// magicPrefixes lists signatures of common binary formats. A file whose
// extension claims to be source can still be a renamed archive or an
// object file dropped into a source tree.
var magicPrefixes = [][]byte{
	{0x1F, 0x8B},             // gzip
	{0x50, 0x4B, 0x03, 0x04}, // ZIP
	{0x50, 0x4B, 0x05, 0x06}, // ZIP (empty archive)
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x47, 0x49, 0x46, 0x38}, // GIF
	{0x25, 0x50, 0x44, 0x46}, // PDF
	{0x7F, 0x45, 0x4C, 0x46}, // ELF
	{0x4D, 0x5A},             // DOS/Windows executable
	{0xCA, 0xFE, 0xBA, 0xBE}, // Mach-O fat binary
	{0x77, 0x4F, 0x46, 0x46}, // WOFF font
	{0x77, 0x4F, 0x46, 0x32}, // WOFF2 font
}

// LooksBinary reports whether sample appears to be binary content.
// Callers pass the first few hundred bytes of a file; the check is a
// magic-number scan followed by a null/non-printable ratio heuristic.
func LooksBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	// Check at most 512 bytes (standard for file type detection)
	if len(sample) > 512 {
		sample = sample[:512]
	}

	for _, magic := range magicPrefixes {
		if bytes.HasPrefix(sample, magic) {
			return true
		}
	}

	nullBytes := 0
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			nullBytes++
		}
		// Count control bytes that are not common whitespace. Bytes
		// >= 0x80 are not counted so UTF-8 text never trips this.
		if b < 0x20 && b != 0x09 && b != 0x0A && b != 0x0D {
			nonPrintable++
		}
	}

	// More than 1% null bytes: very likely binary
	if nullBytes > len(sample)/100 {
		return true
	}

	// More than 30% non-printable characters: likely binary
	return nonPrintable > len(sample)*30/100
}
