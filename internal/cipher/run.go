package cipher

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/mem"
)

// availableMemory returns the free memory budget used to decide between
// loading the map and scanning it on disk. When the reading fails, assume
// nothing is free and take the slow safe path.
func availableMemory(logger *log.Logger) uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Debug("cannot read memory stats", "err", err)
		return 0
	}
	return vm.Available
}

// Encrypt reads plaintext from in and writes one map index per line to out.
// The map is loaded whole when it fits in available memory; otherwise the
// map file is scanned incrementally, where strict mode cannot be enforced.
func Encrypt(in io.Reader, out io.Writer, m *Map, strict bool, logger *log.Logger) error {
	free := availableMemory(logger)
	logger.Debug("map loaded", "map_size", m.Size, "free_memory", free)
	if uint64(m.Size) > free {
		logger.Debug("map data will not fit in memory, scanning the map file instead")
		if strict {
			logger.Warn("map is too large to enforce strict mode")
		}
		return encryptStreaming(in, out, m)
	}
	return encryptInMemory(in, out, m, strict)
}

func encryptInMemory(in io.Reader, out io.Writer, m *Map, strict bool) error {
	em, err := NewEncryptMap(m, strict)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	br := bufio.NewReader(in)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		index, err := em.Encode(b)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%d\n", index)
	}
	return bw.Flush()
}

func encryptStreaming(in io.Reader, out io.Writer, m *Map) error {
	scanner, err := NewStreamScanner(m)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	br := bufio.NewReader(in)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		index, err := scanner.Next(b)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%d\n", index)
	}
	return bw.Flush()
}

// Decrypt reads one map index per line from in and writes the map byte at
// each index to out.
func Decrypt(in io.Reader, out io.Writer, m *Map, logger *log.Logger) error {
	free := availableMemory(logger)
	logger.Debug("map loaded", "map_size", m.Size, "free_memory", free)
	if uint64(m.Size) > free {
		logger.Debug("map data will not fit in memory, seeking the map file instead")
		return decryptSeeking(in, out, m)
	}

	data, err := io.ReadAll(m)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	err = eachIndex(in, func(index int64) error {
		if index < 0 || index >= int64(len(data)) {
			return fmt.Errorf("index %d out of range for map of %d bytes", index, len(data))
		}
		return bw.WriteByte(data[index])
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func decryptSeeking(in io.Reader, out io.Writer, m *Map) error {
	bw := bufio.NewWriter(out)
	one := make([]byte, 1)
	err := eachIndex(in, func(index int64) error {
		if index < 0 || index >= m.Size {
			return fmt.Errorf("index %d out of range for map of %d bytes", index, m.Size)
		}
		if _, err := m.Seek(index, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.ReadFull(m, one); err != nil {
			return err
		}
		_, err := bw.Write(one)
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// eachIndex parses one decimal index per line, skipping blank lines.
func eachIndex(in io.Reader, fn func(int64) error) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		index, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return fmt.Errorf("bad index line %q: %w", line, err)
		}
		if err := fn(index); err != nil {
			return err
		}
	}
	return sc.Err()
}
