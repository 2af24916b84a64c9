package datasource

// Sampler reads the current value of a data source.
//
// Implementations are owned by the caller and may block. The returned value is
// written to the snapshot as-is; it is not checked against the source bounds.
type Sampler interface {
	Sample() Value
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() Value

var _ Sampler = SamplerFunc(nil)

// Sample calls f.
func (f SamplerFunc) Sample() Value {
	return f()
}

type userdataSampler[T any] struct {
	data T
	fn   func(T) Value
}

func (s userdataSampler[T]) Sample() Value {
	return s.fn(s.data)
}

// WithUserdata returns a Sampler that passes data to fn on every call.
//
// Example:
//
//	counter := &atomic.Int64{}
//	s := datasource.WithUserdata(counter, func(c *atomic.Int64) datasource.Value {
//	    return datasource.Int64(c.Load())
//	})
func WithUserdata[T any](data T, fn func(T) Value) Sampler {
	return userdataSampler[T]{data: data, fn: fn}
}

// Constant returns a Sampler that always reports v.
func Constant(v Value) Sampler {
	return SamplerFunc(func() Value { return v })
}
