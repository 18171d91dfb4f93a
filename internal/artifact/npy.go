// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// The offline trainer persists vector matrices as NPY files. Only the
// subset of the format that the trainer produces is supported: version
// 1.0/2.0 headers, little-endian float32 or float64, C order, 2-D shape.

var npyMagic = []byte("\x93NUMPY")

var npyHeaderRe = regexp.MustCompile(
	`'descr':\s*'([^']+)',\s*'fortran_order':\s*(True|False),\s*'shape':\s*\((\d+),\s*(\d+)\s*,?\)`)

// ReadNPY reads a 2-D float matrix from an NPY file. float64 payloads are
// narrowed to float32, matching the combined-space precision.
func ReadNPY(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open npy: %w", err)
	}
	defer f.Close()

	m, err := readNPY(f)
	if err != nil {
		return nil, fmt.Errorf("npy %s: %w", path, err)
	}
	return m, nil
}

func readNPY(r io.Reader) ([][]float32, error) {
	preamble := make([]byte, 8)
	if _, err := io.ReadFull(r, preamble); err != nil {
		return nil, fmt.Errorf("read preamble: %w", err)
	}
	if string(preamble[:6]) != string(npyMagic) {
		return nil, fmt.Errorf("bad magic")
	}

	major := preamble[6]
	var headerLen int
	switch major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("read header length: %w", err)
		}
		headerLen = int(n)
	case 2:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("read header length: %w", err)
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("unsupported npy version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	descr, rows, cols, err := parseNPYHeader(string(header))
	if err != nil {
		return nil, err
	}

	var itemSize int
	switch descr {
	case "<f4":
		itemSize = 4
	case "<f8":
		itemSize = 8
	default:
		return nil, fmt.Errorf("unsupported dtype %q", descr)
	}

	payload := make([]byte, rows*cols*itemSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	matrix := make([][]float32, rows)
	for i := 0; i < rows; i++ {
		row := make([]float32, cols)
		for j := 0; j < cols; j++ {
			off := (i*cols + j) * itemSize
			if itemSize == 4 {
				row[j] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off:]))
			} else {
				row[j] = float32(math.Float64frombits(binary.LittleEndian.Uint64(payload[off:])))
			}
		}
		matrix[i] = row
	}

	return matrix, nil
}

func parseNPYHeader(header string) (descr string, rows, cols int, err error) {
	m := npyHeaderRe.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return "", 0, 0, fmt.Errorf("unsupported header %q", strings.TrimSpace(header))
	}
	if m[2] != "False" {
		return "", 0, 0, fmt.Errorf("fortran order not supported")
	}

	rows, err = strconv.Atoi(m[3])
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad shape: %w", err)
	}
	cols, err = strconv.Atoi(m[4])
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad shape: %w", err)
	}

	return m[1], rows, cols, nil
}
