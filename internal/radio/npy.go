// Package radio reads solver-produced power grids from the numpy formats
// the external collaborator writes (np.save / np.savez).
package radio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

var (
	descrRe   = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	fortranRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// readArray decodes one .npy member: little-endian f4/f8, C order.
func readArray(r io.Reader) (shape []int, data []float64, err error) {
	magic := make([]byte, 8)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, fmt.Errorf("failed to read npy magic: %w", err)
	}
	if !bytes.Equal(magic[:6], npyMagic) {
		return nil, nil, fmt.Errorf("not an npy file")
	}
	major := magic[6]

	var headerLen int
	switch major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, nil, fmt.Errorf("failed to read npy header length: %w", err)
		}
		headerLen = int(l)
	case 2, 3:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, nil, fmt.Errorf("failed to read npy header length: %w", err)
		}
		headerLen = int(l)
	default:
		return nil, nil, fmt.Errorf("unsupported npy version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, fmt.Errorf("failed to read npy header: %w", err)
	}

	descr, fortran, shape, err := parseHeader(string(header))
	if err != nil {
		return nil, nil, err
	}
	if fortran {
		return nil, nil, fmt.Errorf("fortran-order npy arrays are not supported")
	}

	count := 1
	for _, d := range shape {
		if d < 0 {
			return nil, nil, fmt.Errorf("invalid npy shape %v", shape)
		}
		count *= d
	}

	data = make([]float64, count)
	switch descr {
	case "<f4":
		raw := make([]byte, count*4)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, nil, fmt.Errorf("failed to read npy payload: %w", err)
		}
		for i := 0; i < count; i++ {
			data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	case "<f8":
		raw := make([]byte, count*8)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, nil, fmt.Errorf("failed to read npy payload: %w", err)
		}
		for i := 0; i < count; i++ {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
	default:
		return nil, nil, fmt.Errorf("unsupported npy dtype %q", descr)
	}
	return shape, data, nil
}

func parseHeader(header string) (descr string, fortran bool, shape []int, err error) {
	m := descrRe.FindStringSubmatch(header)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header missing descr")
	}
	descr = m[1]

	m = fortranRe.FindStringSubmatch(header)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header missing fortran_order")
	}
	fortran = m[1] == "True"

	m = shapeRe.FindStringSubmatch(header)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header missing shape")
	}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return "", false, nil, fmt.Errorf("invalid npy shape dimension %q", part)
		}
		shape = append(shape, d)
	}
	return descr, fortran, shape, nil
}
