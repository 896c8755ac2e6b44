package bind

// Defaulter is implemented by resources whose default is not the zero value.
type Defaulter interface {
	SetDefaults()
}

// NewDefault returns the default value of T: the zero value, adjusted by
// SetDefaults when *T implements Defaulter.
func NewDefault[T any]() T {
	var v T
	if d, ok := any(&v).(Defaulter); ok {
		d.SetDefaults()
	}
	return v
}
