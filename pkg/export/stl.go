// Package export writes kernel meshes to interchange formats.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chazu/partforge/pkg/kernel"
)

// WriteSTL writes a mesh as binary STL: an 80-byte header, a uint32
// triangle count, then one 50-byte record per triangle (normal, three
// vertices, attribute count), all little-endian.
func WriteSTL(w io.Writer, m *kernel.Mesh) error {
	if m == nil || m.IsEmpty() {
		return errors.New("export: empty mesh")
	}

	var header [80]byte
	copy(header[:], "partforge "+m.PartName)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	count := m.TriangleCount()
	if err := binary.Write(w, binary.LittleEndian, uint32(count)); err != nil {
		return fmt.Errorf("write triangle count: %w", err)
	}

	var rec [50]byte
	for i := 0; i < count; i++ {
		n := m.TriangleNormal(i)
		tri := m.Triangle(i)

		off := 0
		for _, f := range n {
			binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(f))
			off += 4
		}
		for _, v := range tri {
			for _, f := range v {
				binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(f))
				off += 4
			}
		}
		// Attribute byte count stays zero.
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("write triangle %d: %w", i, err)
		}
	}
	return nil
}

// SaveSTL writes a mesh as binary STL to a file, creating or
// truncating it.
func SaveSTL(path string, m *kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteSTL(bw, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
