package feeder

// BufferFeeder reads from an in-memory byte slice. The slice is never
// modified; Next returns copies.
type BufferFeeder struct {
	data   []byte
	cursor int64
}

var _ Feeder = (*BufferFeeder)(nil)

// NewBufferFeeder creates a feeder positioned at the start of data.
func NewBufferFeeder(data []byte) *BufferFeeder {
	return &BufferFeeder{data: data}
}

func (b *BufferFeeder) Jump(pos int64) error {
	if err := checkJump(pos, b.Size()); err != nil {
		return err
	}
	b.cursor = pos

	return nil
}

func (b *BufferFeeder) Next(n int) ([]byte, error) {
	if err := checkNext(b.cursor, n, b.Size()); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b.data[b.cursor:b.cursor+int64(n)])
	b.cursor += int64(n)

	return out, nil
}

func (b *BufferFeeder) Position() int64 {
	return b.cursor
}

func (b *BufferFeeder) Done() bool {
	return b.cursor == b.Size()
}

// Size returns the total input length.
func (b *BufferFeeder) Size() int64 {
	return int64(len(b.data))
}
