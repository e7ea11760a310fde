package pool

import "sync"

var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves an empty float64 slice with at least the given
// capacity. The caller must call the returned cleanup function, typically
// with defer, once the slice is no longer referenced.
//
// Example:
//
//	values, cleanup := pool.GetFloat64Slice(n)
//	defer cleanup()
//	values = append(values, x)
func GetFloat64Slice(capacity int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]float64, 0, capacity)
		*ptr = slice
	}

	return slice, func() { float64SlicePool.Put(ptr) }
}
