package features

// Provider evaluates feature flags. It is installed by whoever wires the
// application together; a Reader only ever delegates to it.
type Provider interface {
	IsEnabled(name string) bool
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(name string) bool

// IsEnabled calls f(name).
func (f ProviderFunc) IsEnabled(name string) bool {
	if f == nil {
		return false
	}
	return f(name)
}

// Reader answers whether a flag is enabled. A non-interactive run, or a missing
// provider, reads every flag as disabled; callers cannot tell "off" from "unknown".
type Reader struct {
	provider    Provider
	interactive bool
}

// NewReader returns a Reader delegating to provider. interactive reports whether
// the process is attached to an interactive terminal.
func NewReader(provider Provider, interactive bool) *Reader {
	return &Reader{
		provider:    provider,
		interactive: interactive,
	}
}

// IsEnabled reports whether the named flag is enabled. A provider that panics,
// such as a typed nil pointer without a nil-safe method, reads as disabled.
func (r *Reader) IsEnabled(name string) (enabled bool) {
	if r == nil || !r.interactive || r.provider == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			enabled = false
		}
	}()
	return r.provider.IsEnabled(name)
}
