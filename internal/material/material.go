// Package material writes the optional SpriteCard material definition that
// points the engine at a compiled particle sheet.
package material

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// Shader is the material shader used for particle sheets.
const Shader = "SpriteCard"

// Options selects the texture and render flags of a material.
type Options struct {
	Name         string // texture base name, without extension
	MaterialPath string // directory below materials/, forward slashes
	BlendFrames  bool
	Translucent  bool
}

// BaseTexture returns the engine path of the texture, e.g. "particles/export".
func (o Options) BaseTexture() string {
	dir := strings.Trim(strings.ReplaceAll(o.MaterialPath, `\`, "/"), "/")
	if dir == "" {
		return o.Name
	}
	return path.Join(dir, o.Name)
}

// Render returns the material file contents. KeyValues strings have no escape
// sequences, so values are written verbatim between double quotes; names and
// paths containing a quote are rejected by config validation.
func Render(o Options) string {
	var b strings.Builder
	b.WriteString(quote(Shader) + "\n{\n")
	kv := func(k, v string) { b.WriteString("\t" + quote(k) + "\t" + quote(v) + "\n") }
	kv("$basetexture", o.BaseTexture())
	kv("vertexcolor", "1")
	kv("vertexalpha", "1")
	kv("$translucent", flag(o.Translucent))
	kv("$blendframes", flag(o.BlendFrames))
	b.WriteString("}\n")
	return b.String()
}

// Write renders o to path, replacing any existing file.
func Write(path string, o Options) error {
	if err := os.WriteFile(path, []byte(Render(o)), 0o644); err != nil {
		return fmt.Errorf("write material %s: %w", path, err)
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
