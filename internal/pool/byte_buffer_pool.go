package pool

import (
	"io"
	"sync"
)

// Default sizes of the shared pools.
const (
	TextBufferDefaultSize    = 1024             // 1KiB, one folded string
	TextBufferMaxThreshold   = 1024 * 64        // 64KiB
	StreamBufferDefaultSize  = 1024 * 1024      // 1MiB, one decompressed file
	StreamBufferMaxThreshold = 1024 * 1024 * 64 // 64MiB
	streamReadChunk          = 1024 * 32
)

// ByteBuffer is a growable byte slice that can be returned to a pool. Text
// buffers assemble folded string values; stream buffers collect the output
// of a container decompressor.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// String returns the buffer contents as a string.
func (bb *ByteBuffer) String() string {
	return string(bb.B)
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Truncate discards all but the first n bytes. It does nothing when n is
// out of range.
func (bb *ByteBuffer) Truncate(n int) {
	if n >= 0 && n < len(bb.B) {
		bb.B = bb.B[:n]
	}
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// Small buffers grow by at least TextBufferDefaultSize, larger ones by 25%.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := TextBufferDefaultSize
	if cap(bb.B) > 4*TextBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// Fill appends n copies of c, e.g. the space padding of a string slot.
func (bb *ByteBuffer) Fill(c byte, n int) {
	if n <= 0 {
		return
	}
	bb.Grow(n)
	for range n {
		bb.B = append(bb.B, c)
	}
}

// ReadFrom appends everything r yields until io.EOF.
func (bb *ByteBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		bb.Grow(streamReadChunk)
		n, err := r.Read(bb.B[len(bb.B):cap(bb.B)])
		bb.B = bb.B[:len(bb.B)+n]
		total += int64(n)

		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// ByteBufferPool recycles ByteBuffers. Buffers that grew beyond
// maxThreshold are dropped on Put so one huge file does not pin memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	textDefaultPool   = NewByteBufferPool(TextBufferDefaultSize, TextBufferMaxThreshold)
	streamDefaultPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)
)

// GetTextBuffer retrieves a buffer sized for assembling one string value.
func GetTextBuffer() *ByteBuffer {
	return textDefaultPool.Get()
}

// PutTextBuffer returns a buffer obtained from GetTextBuffer.
func PutTextBuffer(bb *ByteBuffer) {
	textDefaultPool.Put(bb)
}

// GetStreamBuffer retrieves a buffer sized for a decompressed file.
func GetStreamBuffer() *ByteBuffer {
	return streamDefaultPool.Get()
}

// PutStreamBuffer returns a buffer obtained from GetStreamBuffer.
func PutStreamBuffer(bb *ByteBuffer) {
	streamDefaultPool.Put(bb)
}
