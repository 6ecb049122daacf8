package ir

// Track is a named, typed accumulator threaded through a monitor
// session. Tracks form an order-insensitive mapping name -> value;
// Track itself is just the declaration (name, type, default).
type Track struct {
	Name    string
	Type    Type
	Default interface{}
	Span    Span
}
