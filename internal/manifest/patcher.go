package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tailscale/hujson"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// Result reports what Patch did.
type Result int

const (
	// ResultMissing means there is no manifest; nothing was done.
	ResultMissing Result = iota
	// ResultPresent means module.routerMap was already declared.
	ResultPresent
	// ResultPatched means module.routerMap was added or filled in.
	ResultPatched
)

func (r Result) String() string {
	switch r {
	case ResultMissing:
		return "missing"
	case ResultPresent:
		return "present"
	case ResultPatched:
		return "patched"
	}
	return "unknown"
}

const (
	moduleKey    = "module"
	routerMapKey = "routerMap"
)

// Patcher declares the route table resource in module.json5.
type Patcher struct {
	fs     filesystem.FileSystem
	logger arkroute.Logger
}

// NewPatcher creates a patcher. A nil logger discards output.
func NewPatcher(fs filesystem.FileSystem, logger arkroute.Logger) *Patcher {
	if fs == nil {
		panic("filesystem cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Patcher{fs: fs, logger: logger}
}

// Patch sets module.routerMap in the manifest at path unless it already has
// a value. Everything else in the file is kept byte for byte.
func (p *Patcher) Patch(path string) (Result, error) {
	if !filesystem.IsRegularFile(p.fs, path) {
		p.logger.Verbose("No manifest at %s", path)
		return ResultMissing, nil
	}

	src, err := p.fs.ReadFile(path)
	if err != nil {
		return ResultMissing, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	out, changed, err := PatchBytes(src)
	if err != nil {
		return ResultMissing, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		p.logger.Verbose("%s already declares %s", path, routerMapKey)
		return ResultPresent, nil
	}

	if err := p.fs.WriteFile(path, out); err != nil {
		return ResultMissing, fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	p.logger.Info("Added %s.%s to %s", moduleKey, routerMapKey, path)
	return ResultPatched, nil
}

const quotingTip = "module.json5 is read as JSON with comments and trailing commas; " +
	"object keys and strings must use double quotes (unquoted keys and 'single quotes' are not supported)"

// PatchBytes applies the routerMap patch to manifest source. It reports
// whether the content changed; unchanged input is returned as is.
func PatchBytes(src []byte) ([]byte, bool, error) {
	root, err := hujson.Parse(src)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse manifest: %v: %w\n\nTip: %s", err, arkroute.ErrManifestInvalid, quotingTip)
	}

	top, ok := root.Value.(*hujson.Object)
	if !ok {
		return nil, false, fmt.Errorf("manifest root is not an object: %w", arkroute.ErrManifestInvalid)
	}
	modValue := member(top, moduleKey)
	if modValue == nil {
		return nil, false, fmt.Errorf("manifest has no %q object: %w", moduleKey, arkroute.ErrManifestInvalid)
	}
	mod, ok := modValue.Value.(*hujson.Object)
	if !ok {
		return nil, false, fmt.Errorf("manifest %q is not an object: %w", moduleKey, arkroute.ErrManifestInvalid)
	}

	resource := stringLiteral(arkroute.RouteTableResource)
	if existing := member(mod, routerMapKey); existing != nil {
		if truthy(existing.Value) {
			return src, false, nil
		}
		existing.Value = resource
	} else {
		appendMember(mod, routerMapKey, resource)
	}
	return root.Pack(), true, nil
}

// member returns the value of the first member called name.
func member(obj *hujson.Object, name string) *hujson.Value {
	for i := range obj.Members {
		lit, ok := obj.Members[i].Name.Value.(hujson.Literal)
		if !ok {
			continue
		}
		var key string
		if json.Unmarshal(lit, &key) == nil && key == name {
			return &obj.Members[i].Value
		}
	}
	return nil
}

// truthy mirrors JavaScript truthiness for JSON values.
func truthy(v hujson.ValueTrimmed) bool {
	lit, ok := v.(hujson.Literal)
	if !ok {
		return true
	}
	var x interface{}
	if err := json.Unmarshal(lit, &x); err != nil {
		return true
	}
	switch x := x.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	}
	return true
}

func stringLiteral(s string) hujson.Literal {
	b, _ := json.Marshal(s)
	return hujson.Literal(b)
}

// appendMember adds name as the last member of obj, laid out like the
// current last member.
func appendMember(obj *hujson.Object, name string, value hujson.Literal) {
	m := hujson.ObjectMember{
		Name:  hujson.Value{Value: stringLiteral(name)},
		Value: hujson.Value{BeforeExtra: hujson.Extra(" "), Value: value},
	}

	if n := len(obj.Members); n > 0 {
		last := &obj.Members[n-1]
		m.Name.BeforeExtra = cloneExtra(last.Name.BeforeExtra)
		m.Name.AfterExtra = cloneExtra(last.Name.AfterExtra)
		if isBlank(last.Value.BeforeExtra) {
			m.Value.BeforeExtra = cloneExtra(last.Value.BeforeExtra)
		}
		// whitespace before the closing brace moves behind the new member
		if isBlank(last.Value.AfterExtra) {
			m.Value.AfterExtra = last.Value.AfterExtra
			last.Value.AfterExtra = nil
		}
	} else {
		m.Name.BeforeExtra = hujson.Extra(" ")
		m.Value.AfterExtra = hujson.Extra(" ")
	}

	obj.Members = append(obj.Members, m)
}

func cloneExtra(e hujson.Extra) hujson.Extra {
	if e == nil {
		return nil
	}
	return append(hujson.Extra(nil), e...)
}

func isBlank(e hujson.Extra) bool {
	return len(bytes.TrimSpace(e)) == 0
}
