package checksum

import (
	"strings"
	"testing"
)

// BenchmarkCalculateRaw benchmarks raw checksum calculation
func BenchmarkCalculateRaw(b *testing.B) {
	calculator := New()
	content := []byte(strings.Repeat("import { Page } from '../pages/Page'\n", 100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculator.CalculateRaw(content)
	}
}

// BenchmarkCalculateNormalized benchmarks normalized checksum calculation
func BenchmarkCalculateNormalized(b *testing.B) {
	calculator := New()
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("// page registration\n")
		sb.WriteString("@Builder\nexport function entryPageBuilder(name: string, param: Object) {\n  Page()\n}\n")
		sb.WriteString("/* block\n   comment */\n")
	}
	content := []byte(sb.String())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculator.CalculateNormalized(content)
	}
}
