package output

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// DefaultFileBufferSize is the size of the write buffer CreateFile places in
// front of each output file.
const DefaultFileBufferSize = 32 * 1024

// Memory is an in-memory sink. Close does nothing, so the bytes remain
// available afterwards.
type Memory struct {
	bytes.Buffer
}

// Close implements io.Closer.
func (m *Memory) Close() error {
	return nil
}

// bufferedFile flushes its buffer before closing the file under it.
type bufferedFile struct {
	*bufio.Writer
	f *os.File
}

// Close flushes buffered bytes and closes the file. The file is closed even
// when the flush fails.
func (b *bufferedFile) Close() error {
	err := b.Writer.Flush()
	if cerr := b.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// CreateFile is an Opener that creates or truncates the named file and
// buffers writes to it.
func CreateFile(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{bufio.NewWriterSize(f, DefaultFileBufferSize), f}, nil
}
