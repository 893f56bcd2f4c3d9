package tags

import (
	"fmt"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// writeFLACTags replaces the VORBIS_COMMENT block of a FLAC file. Other
// metadata blocks (stream info, pictures, cue sheets) are left untouched
// and the original vendor string is kept.
func writeFLACTags(path string, m map[string][]string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	cmtIdx := -1
	vendor := ""
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmtIdx = i
			if old, err := flacvorbis.ParseFromMetaDataBlock(*meta); err == nil {
				vendor = old.Vendor
			}
			break
		}
	}

	cmts := flacvorbis.New()
	if vendor != "" {
		cmts.Vendor = vendor
	}
	for _, key := range sortedKeys(m) {
		for _, value := range m[key] {
			if err := cmts.Add(key, value); err != nil {
				return fmt.Errorf("add %s: %w", key, err)
			}
		}
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}
