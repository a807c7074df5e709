package syntax

import (
	"io"
	"testing"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"@Route({ name: 'home' })\n@Component\nexport struct HomePage {\n  build() {}\n}\n",
		"@Entry\n@Component\nstruct Index { @State msg: string = `hi` }",
		"export default function f(a, b) { return a / b }",
		"#",
		"a = #",
		"@A#{",
		"class A { #x = 1 }",
		"x ? : y",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		root, err := Parse("fuzz.ets", src)
		if err != nil {
			return
		}
		if root == nil || root.Kind != KindSourceFile {
			t.Fatalf("Parse(%q) returned %v without error", src, root)
		}
		if err := Dump(io.Discard, root); err != nil {
			t.Fatalf("Dump(%q): %v", src, err)
		}
	})
}
