package tags

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// File is an open tag handle. The property map is read once on Open;
// SetTags stages a replacement that Save writes to disk.
type File struct {
	path     string
	fileType tag.FileType
	size     int64
	stored   map[string][]string
	pending  map[string][]string
	closed   bool
}

// Open reads the tags of the file at path. It fails if the path is not a
// regular file or TagLib cannot parse it as a supported container.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	stored := cloneTags(rawTags)
	normalizeNumberPairs(stored)

	return &File{
		path:     path,
		fileType: detectFileType(path),
		size:     info.Size(),
		stored:   stored,
		pending:  cloneTags(stored),
	}, nil
}

// detectFileType sniffs the container from the file header, falling back
// to the extension when there is no recognizable tag header (e.g. a bare
// MPEG stream).
func detectFileType(path string) tag.FileType {
	f, err := os.Open(path)
	if err != nil {
		return fileTypeFromExt(path)
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil || fileType == tag.UnknownFileType {
		return fileTypeFromExt(path)
	}
	return fileType
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// FileType returns the detected container type.
func (f *File) FileType() tag.FileType { return f.fileType }

// Size returns the file size in bytes at open time.
func (f *File) Size() int64 { return f.size }

// Tags returns a copy of the tags as stored on disk.
func (f *File) Tags() map[string][]string {
	return cloneTags(f.stored)
}

// SetTags stages m as the complete replacement mapping.
func (f *File) SetTags(m map[string][]string) {
	f.pending = cloneTags(m)
}

// Close releases the handle. Staged changes that were not saved are dropped.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	f.pending = nil
	return nil
}
