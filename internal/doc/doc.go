package doc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Document is the in-memory result of loading a file.
type Document struct {
	Name string
	Path string
	Text string
}

// DecodeError reports that a file was read but is not valid UTF-8.
type DecodeError struct {
	Path string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", e.Path, e.Offset)
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Load reads path and decodes it as UTF-8. The text is returned unchanged.
// When the bytes are not valid UTF-8 the returned document has an empty text
// and the error is a *DecodeError; the document is still usable.
func Load(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	d := Document{
		Name: filepath.Base(abs),
		Path: abs,
	}
	if !utf8.Valid(data) {
		return d, &DecodeError{Path: abs, Offset: firstInvalid(data)}
	}
	d.Text = string(data)
	return d, nil
}

func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
