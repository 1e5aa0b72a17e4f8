package subtitle

import (
	"fmt"
	"io"
	"os"
)

// parsed subtitle file: its format plus the entry store
type File struct {
	format Format
	store  *Store
}

func Open(path string) (*File, error) {
	format, ok := GetFormatFromExtension(path)
	if !ok {
		return nil, fmt.Errorf("unsupported subtitle format: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(f, format)
}

func Parse(r io.Reader, format Format) (*File, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatSRT:
		entries, err = parseSRT(r)
	case FormatVTT:
		entries, err = parseVTT(r)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	store, err := NewStore(entries...)
	if err != nil {
		return nil, err
	}
	return &File{format: format, store: store}, nil
}

func (f *File) Format() Format {
	return f.format
}

func (f *File) Store() *Store {
	return f.store
}

// same format, different entries
func (f *File) WithStore(store *Store) *File {
	return &File{format: f.format, store: store}
}

// Write serializes the store in the format named by path's extension,
// falling back to the file's own format.
func (f *File) Write(path string) error {
	format := f.format
	if ext, ok := GetFormatFromExtension(path); ok {
		format = ext
	}
	writer, err := NewWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(f.store, path)
}
