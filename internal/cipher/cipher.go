package cipher

import (
	"bufio"
	"errors"
	"io"
	"math/rand/v2"
)

// Errors a map file can earn. Gaps mean some byte value never occurs, so
// there is plaintext the map cannot encode at all; too-simple means strict
// mode ran out of fresh positions for a byte.
var (
	ErrMapGaps      = errors.New("gaps in map file")
	ErrMapTooSimple = errors.New("map file not complex enough")
)

// EncryptMap maps every byte value to the positions where it occurs in the
// map data. Each position pool is shuffled once so repeated plaintext bytes
// encode to unrelated indices.
type EncryptMap struct {
	pools  [256][]int64
	next   [256]int
	strict bool
}

// NewEncryptMap reads the whole map and builds the position pools. In
// strict mode every emitted position is unique for the lifetime of the map;
// otherwise an exhausted pool starts over.
func NewEncryptMap(r io.Reader, strict bool) (*EncryptMap, error) {
	m := &EncryptMap{strict: strict}
	buf := make([]byte, 64*1024)
	var index int64
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			m.pools[b] = append(m.pools[b], index)
			index++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	for _, pool := range m.pools {
		if len(pool) == 0 {
			return nil, ErrMapGaps
		}
	}
	m.shuffle()
	return m, nil
}

func (m *EncryptMap) shuffle() {
	for i := range m.pools {
		pool := m.pools[i]
		rand.Shuffle(len(pool), func(a, b int) {
			pool[a], pool[b] = pool[b], pool[a]
		})
	}
}

// Encode returns the next position of b in the map.
func (m *EncryptMap) Encode(b byte) (int64, error) {
	pool := m.pools[b]
	if len(pool) == 0 {
		return 0, ErrMapGaps
	}
	if m.next[b] >= len(pool) {
		if m.strict {
			return 0, ErrMapTooSimple
		}
		m.next[b] = 0
	}
	index := pool[m.next[b]]
	m.next[b]++
	return index, nil
}

// Assessment summarizes a candidate map file's byte coverage.
type Assessment struct {
	Min     int64 // occurrences of the rarest byte value
	Missing int   // byte values that never occur
}

// Qualifies reports whether the data covers all 256 byte values.
func (a Assessment) Qualifies() bool {
	return a.Missing == 0
}

// Assess scans candidate map data and counts how often each byte value
// occurs.
func Assess(r io.Reader) (Assessment, error) {
	var counts [256]int64
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			counts[b]++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Assessment{}, err
		}
	}

	a := Assessment{Min: counts[0]}
	for _, c := range counts {
		if c < a.Min {
			a.Min = c
		}
		if c == 0 {
			a.Missing++
		}
	}
	return a, nil
}

// StreamScanner walks a map file too large to load, finding one requested
// byte at a time. Each search starts where the previous find left off and
// wraps around the file at most once.
type StreamScanner struct {
	rs   io.ReadSeeker
	size int64
	pos  int64
}

// NewStreamScanner prepares a scanner over the map file.
func NewStreamScanner(rs io.ReadSeeker) (*StreamScanner, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return &StreamScanner{rs: rs, size: size}, nil
}

// Next returns the position of the next occurrence of target at or after
// the current position, wrapping to the start of the file when the tail has
// none. A byte absent from the whole file is a map gap.
func (s *StreamScanner) Next(target byte) (int64, error) {
	pos, found, err := scanRange(s.rs, target, s.pos, s.size)
	if err != nil {
		return 0, err
	}
	if !found {
		pos, found, err = scanRange(s.rs, target, 0, s.pos)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, ErrMapGaps
		}
	}

	s.pos = pos + 1
	if s.pos >= s.size {
		s.pos = 0
	}
	return pos, nil
}

// scanRange looks for target in [start, limit) and returns its position.
func scanRange(rs io.ReadSeeker, target byte, start, limit int64) (int64, bool, error) {
	if start >= limit {
		return 0, false, nil
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return 0, false, err
	}
	br := bufio.NewReaderSize(rs, 64*1024)
	for pos := start; pos < limit; pos++ {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		if b == target {
			return pos, true, nil
		}
	}
	return 0, false, nil
}
