package gemkit

// Secret holds a sensitive string (an API key) and shields it from
// accidental logging or serialization. String, GoString, JSON, and text
// marshaling all produce a redacted placeholder; call Expose to read the
// real value when building authentication headers.
type Secret struct {
	value string
}

// NewSecret wraps a raw string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer with a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString redacts %#v formatting.
func (s Secret) GoString() string {
	return "gemkit.Secret{[REDACTED]}"
}

// MarshalJSON always emits a redacted JSON string.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText redacts text-based encoders such as YAML.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the underlying value. Callers must take care not to log
// or serialize the result.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether no value has been set.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
