package dicomio

import (
	"bytes"
	"io"
	"os"
)

// preambleSize is the fixed DICOM preamble length. The DICM magic follows
// immediately after it.
const preambleSize = 128

var dicmMagic = []byte("DICM")

// IsDICOM reports whether the file at path carries the DICM magic bytes at
// offset 128. It reads only the file header, so it is cheap enough to run
// on every candidate during directory discovery.
func IsDICOM(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, preambleSize+len(dicmMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header[preambleSize:], dicmMagic)
}
