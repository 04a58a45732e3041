package shebang

import "strings"

// Override replaces a captured shebang before it is reinjected. It is
// either a literal or a function of the captured value.
type Override struct {
	literal string
	fn      func(original string) string
}

// Literal returns an Override that always yields s. An empty s is no
// override at all, so Literal("") returns nil.
func Literal(s string) *Override {
	if s == "" {
		return nil
	}
	return &Override{literal: s}
}

// Func returns an Override that yields fn(captured).
func Func(fn func(original string) string) *Override {
	return &Override{fn: fn}
}

// Apply returns the shebang to reinject in place of original.
func (o *Override) Apply(original string) string {
	if o == nil {
		return original
	}
	if o.fn != nil {
		return o.fn(original)
	}
	return o.literal
}

// IsLiteral reports whether the override ignores the captured value.
func (o *Override) IsLiteral() bool {
	return o != nil && o.fn == nil
}

// Options configures the plugin. The zero value preserves shebangs as they
// are and makes shebang chunks executable.
type Options struct {
	// Shebang replaces captured shebangs. Nil keeps them.
	Shebang *Override
	// Executable adds the execute bits to written shebang chunks. Nil means true.
	Executable *bool
	// Hires emits one source map segment per character. Nil means true.
	Hires *bool
}

// Bool returns a pointer to b, for the optional fields of Options.
func Bool(b bool) *bool {
	return &b
}

func (o Options) executable() bool {
	return o.Executable == nil || *o.Executable
}

func (o Options) hires() bool {
	return o.Hires == nil || *o.Hires
}

// IsShebang reports whether s starts with "#!".
func IsShebang(s string) bool {
	return strings.HasPrefix(s, "#!")
}
