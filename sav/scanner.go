package sav

import (
	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/section"
)

// maxPresize bounds the capacity taken from a count declared in the file.
// Larger tables grow by append as their bytes are actually read.
const maxPresize = 1 << 12

// presize returns a slice capacity for a declared count.
func presize(count int32) int {
	if count <= 0 {
		return 0
	}

	return min(int(count), maxPresize)
}

// scanner reads typed values from a feeder with the file's byte order.
type scanner struct {
	f      feeder.Feeder
	engine endian.EndianEngine
}

func newScanner(f feeder.Feeder) *scanner {
	return &scanner{f: f, engine: endian.GetLittleEndianEngine()}
}

func (s *scanner) next(n int) ([]byte, error) {
	return s.f.Next(n)
}

func (s *scanner) readInt32() (int32, error) {
	b, err := s.f.Next(4)
	if err != nil {
		return 0, err
	}

	return endian.Int32(s.engine, b), nil
}

func (s *scanner) readFloat64() (float64, error) {
	b, err := s.f.Next(8)
	if err != nil {
		return 0, err
	}

	return endian.Float64(s.engine, b), nil
}

func (s *scanner) readText(n int) (string, error) {
	b, err := s.f.Next(n)
	if err != nil {
		return "", err
	}

	return section.TrimText(b), nil
}

func (s *scanner) position() int64 {
	return s.f.Position()
}

func (s *scanner) jump(pos int64) error {
	return s.f.Jump(pos)
}

func (s *scanner) done() bool {
	return s.f.Done()
}
