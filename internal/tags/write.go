package tags

import (
	"fmt"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Save writes the staged mapping, replacing every tag on disk.
func (f *File) Save() error {
	if f.closed {
		return ErrClosed
	}

	var err error
	switch f.fileType {
	case tag.FLAC:
		err = writeFLACTags(f.path, f.pending)
		if err != nil {
			// go-flac rejects some files TagLib handles (e.g. ID3-prefixed FLAC)
			err = writeTaglibTags(f.path, f.pending)
		}
	case tag.MP3:
		err = writeMP3Tags(f.path, f.pending)
	default:
		err = writeTaglibTags(f.path, f.pending)
	}
	if err != nil {
		return err
	}

	f.stored = cloneTags(f.pending)
	return nil
}

// writeTaglibTags writes the property map with TagLib. Clear removes any
// existing tags not in the map.
func writeTaglibTags(path string, m map[string][]string) error {
	if err := taglib.WriteTags(path, m, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
