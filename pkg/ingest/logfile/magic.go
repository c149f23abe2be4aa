package logfile

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

type Content int

const (
	Octet Content = iota
	Gzip
)

func (c Content) String() string {
	switch c {
	case Gzip:
		return "application/gzip"
	default:
		return "application/octet-stream"
	}
}

func magic(r *bufio.Reader) Content {
	mag, err := r.Peek(2)
	if err != nil {
		return Octet
	}
	if mag[0] == 31 && mag[1] == 139 {
		return Gzip
	}
	return Octet
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r readCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// open returns plaintext reader for path, gzip content is detected by magic bytes
func open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == Stdin {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
	}
	return wrap(f)
}

func wrap(src io.ReadCloser) (io.ReadCloser, error) {
	buffered := bufio.NewReader(src)
	if magic(buffered) != Gzip {
		return readCloser{Reader: buffered, closers: []io.Closer{src}}, nil
	}
	gz, err := gzip.NewReader(buffered)
	if err != nil {
		src.Close()
		return nil, err
	}
	return readCloser{Reader: gz, closers: []io.Closer{src, gz}}, nil
}

// sniff reports content type of file at path
func sniff(path string) (Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return Octet, err
	}
	defer f.Close()
	return magic(bufio.NewReader(f)), nil
}
