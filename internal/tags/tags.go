// Package tags is the codec adapter: it opens an audio file, exposes its
// metadata as a property map (uppercase key to ordered values), writes the
// map back and releases the file.
//
// Reading goes through TagLib for every container. Writing uses native
// libraries where they give finer control (go-flac for FLAC, id3v2 for MP3)
// and TagLib for everything else.
package tags

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"
)

// File extensions recognized by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
	ExtWAV  = ".wav"
)

// Property keys with special handling.
const (
	keyTrackNumber = "TRACKNUMBER"
	keyTrackTotal  = "TRACKTOTAL"
	keyDiscNumber  = "DISCNUMBER"
	keyDiscTotal   = "DISCTOTAL"
)

var (
	// ErrClosed is returned when a closed File is used.
	ErrClosed = errors.New("file already closed")
	// ErrNotRegular is returned when the path is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
)

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4, ExtWAV:
		return true
	}
	return false
}

// fileTypeFromExt maps an extension to a container type, used when
// content sniffing finds no tag header.
func fileTypeFromExt(path string) tag.FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return tag.MP3
	case ExtFLAC:
		return tag.FLAC
	case ExtOPUS, ExtOGG, ExtOGA:
		return tag.OGG
	case ExtM4A, ExtMP4:
		return tag.M4A
	}
	return tag.UnknownFileType
}

// normalizeNumberPairs splits "n/total" values of TRACKNUMBER and
// DISCNUMBER (as stored in ID3 TRCK/TPOS frames) into separate number and
// total entries. An existing total entry wins over the embedded one.
func normalizeNumberPairs(m map[string][]string) {
	split := func(numberKey, totalKey string) {
		values := m[numberKey]
		if len(values) == 0 {
			return
		}
		idx := strings.Index(values[0], "/")
		if idx < 0 {
			return
		}
		num, total := strings.TrimSpace(values[0][:idx]), strings.TrimSpace(values[0][idx+1:])
		if num == "" {
			delete(m, numberKey)
		} else {
			m[numberKey] = []string{num}
		}
		if _, ok := m[totalKey]; !ok && total != "" {
			m[totalKey] = []string{total}
		}
	}
	split(keyTrackNumber, keyTrackTotal)
	split(keyDiscNumber, keyDiscTotal)
}

// sortedKeys returns the map keys in lexical order.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cloneTags(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
