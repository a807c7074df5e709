// Package checksum provides content hashing with normalization support.
//
// Two checksums are computed for generated artifacts:
//
//   - Raw checksum: hash of the exact content (detects all changes)
//   - Normalized checksum: hash after removing comments and collapsing
//     whitespace (tells formatting-only changes apart from real ones)
//
// The artifact writer skips a write when the raw checksum of the rendered
// content equals that of the file on disk, and reports whether a rewrite was
// cosmetic by comparing normalized checksums.
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(content)
//	normalized := calculator.CalculateNormalized(content)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
