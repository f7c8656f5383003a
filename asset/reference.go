package asset

import (
	"fmt"
	"strings"
)

// Scheme prefixes every reference the registry synthesizes itself.
// References supplied by importers keep whatever scheme they came with.
const Scheme = "quoll"

// Categories used when synthesizing derived resource references.
const (
	CategoryMaterials = "materials"
	CategoryMeshes    = "meshes"
)

// SanitizeName normalizes a derived resource name for use inside a
// reference. The name is trimmed, lower-cased and every character
// outside [a-z0-9_-] becomes an underscore. Sanitizing an already
// sanitized name is a no-op.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DeriveReference composes the canonical reference of a derived
// resource from its owner identity and name, for example
// quoll://materials/42/rusty_metal. Names that sanitize to empty
// yield no reference at all. Equal inputs always produce equal output.
func DeriveReference(category string, owner uint64, name string) (string, bool) {
	sanitized := SanitizeName(name)
	if sanitized == "" {
		return "", false
	}
	return fmt.Sprintf("%s://%s/%d/%s", Scheme, category, owner, sanitized), true
}
