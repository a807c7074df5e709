package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	// Normalization makes checksums resilient to formatting changes.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// Normalization for ArkTS sources:
//  1. Remove comments (// and /* */) while preserving string and template literals
//  2. Collapse whitespace outside literals to single spaces
//  3. Trim leading/trailing whitespace
//
// Case is preserved; identifiers are case-sensitive.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

var _ Calculator = SHA256{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	normalized := c.normalize(string(content))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

type scanState int

const (
	ssNormal scanState = iota
	ssLineComment
	ssBlockComment
	ssQuoted
)

// normalize strips comments and collapses whitespace in one pass.
// Literal contents are copied byte for byte.
func (c SHA256) normalize(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := ssNormal
	var quote byte
	pendingSpace := false

	emit := func(ch byte) {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(ch)
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]
		var next byte
		if i+1 < len(content) {
			next = content[i+1]
		}

		switch state {
		case ssNormal:
			switch {
			case ch == '/' && next == '/':
				state = ssLineComment
				pendingSpace = true
				i++
			case ch == '/' && next == '*':
				state = ssBlockComment
				pendingSpace = true
				i++
			case ch == '\'' || ch == '"' || ch == '`':
				state = ssQuoted
				quote = ch
				emit(ch)
			case ch < 0x80 && unicode.IsSpace(rune(ch)):
				pendingSpace = true
			default:
				emit(ch)
			}

		case ssLineComment:
			if ch == '\n' || ch == '\r' {
				state = ssNormal
			}

		case ssBlockComment:
			if ch == '*' && next == '/' {
				state = ssNormal
				i++
			}

		case ssQuoted:
			b.WriteByte(ch)
			switch ch {
			case '\\':
				if i+1 < len(content) {
					b.WriteByte(next)
					i++
				}
			case quote:
				state = ssNormal
			}
		}
	}

	return b.String()
}
