package tags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// textFrames maps property keys to ID3v2.4 text frame IDs, mirroring the
// translation TagLib applies when reading.
var textFrames = map[string]string{
	"ALBUM":           "TALB",
	"ALBUMARTIST":     "TPE2",
	"ALBUMARTISTSORT": "TSO2",
	"ALBUMSORT":       "TSOA",
	"ARTIST":          "TPE1",
	"ARTISTSORT":      "TSOP",
	"BPM":             "TBPM",
	"COMPILATION":     "TCMP",
	"COMPOSER":        "TCOM",
	"CONDUCTOR":       "TPE3",
	"COPYRIGHT":       "TCOP",
	"DATE":            "TDRC",
	"ENCODEDBY":       "TENC",
	"ENCODING":        "TSSE",
	"GENRE":           "TCON",
	"ISRC":            "TSRC",
	"LABEL":           "TPUB",
	"LANGUAGE":        "TLAN",
	"LYRICIST":        "TEXT",
	"MEDIA":           "TMED",
	"MOOD":            "TMOO",
	"ORIGINALDATE":    "TDOR",
	"SUBTITLE":        "TIT3",
	"TITLE":           "TIT2",
	"TITLESORT":       "TSOT",
}

// urlFrames maps property keys to ID3v2 URL link frames.
var urlFrames = map[string]string{
	"ARTISTWEBPAGE":       "WOAR",
	"AUDIOSOURCEWEBPAGE":  "WOAS",
	"COPYRIGHTURL":        "WCOP",
	"FILEWEBPAGE":         "WOAF",
	"PAYMENTWEBPAGE":      "WPAY",
	"PUBLISHERWEBPAGE":    "WPUB",
	"RADIOSTATIONWEBPAGE": "WORS",
}

// keptFrames are binary frames TagLib does not expose as properties. Every
// other frame is dropped on write so the file ends up holding exactly the
// property map.
var keptFrames = map[string]bool{
	"APIC": true,
	"CHAP": true,
	"CTOC": true,
	"ETCO": true,
	"GEOB": true,
	"MCDI": true,
	"PCNT": true,
	"POPM": true,
	"PRIV": true,
	"RVA2": true,
	"SYLT": true,
}

const (
	keyComment      = "COMMENT"
	keyLyrics       = "LYRICS"
	keyMusicBrainz  = "MUSICBRAINZ_TRACKID"
	musicBrainzUFID = "http://musicbrainz.org"
)

// writeMP3Tags replaces every frame backing a property of an MP3 file with
// the property map. Attached pictures and other binary frames are kept.
func writeMP3Tags(path string, m map[string][]string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and retry
		if stripErr := stripID3v2Tag(path); stripErr != nil {
			return fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	// Use ID3v2.4 with UTF-8 for better Unicode support
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	for id := range tag.AllFrames() {
		if !keptFrames[id] {
			tag.DeleteFrames(id)
		}
	}

	pending := cloneTags(m)
	addNumberPair(tag, pending, keyTrackNumber, keyTrackTotal, "TRCK")
	addNumberPair(tag, pending, keyDiscNumber, keyDiscTotal, "TPOS")

	for _, key := range sortedKeys(pending) {
		values := pending[key]
		if len(values) == 0 {
			continue
		}
		switch key {
		case keyComment:
			for _, v := range values {
				tag.AddCommentFrame(id3v2.CommentFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Text:     v,
				})
			}
			continue
		case keyLyrics:
			for _, v := range values {
				tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Lyrics:   v,
				})
			}
			continue
		case keyMusicBrainz:
			tag.AddFrame("UFID", id3v2.UnknownFrame{Body: ufidBody(musicBrainzUFID, values[0])})
			continue
		}
		if id, ok := urlFrames[key]; ok {
			// id3v2 keeps one frame per URL ID; the first link wins
			tag.AddFrame(id, id3v2.UnknownFrame{Body: []byte(values[0])})
			continue
		}

		// ID3v2.4 separates multiple values with a null byte
		text := strings.Join(values, "\x00")
		if id, ok := textFrames[key]; ok {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
			continue
		}
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: key,
			Value:       text,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// ufidBody encodes a unique file identifier frame: owner, NUL, identifier.
func ufidBody(owner, id string) []byte {
	body := make([]byte, 0, len(owner)+1+len(id))
	body = append(body, owner...)
	body = append(body, 0)
	return append(body, id...)
}

// addNumberPair writes "number/total" into frameID and removes both keys
// from pending. A total without a number is left for a TXXX frame.
func addNumberPair(tag *id3v2.Tag, pending map[string][]string, numberKey, totalKey, frameID string) {
	number := pending[numberKey]
	if len(number) == 0 {
		return
	}
	text := number[0]
	if total := pending[totalKey]; len(total) > 0 {
		text += "/" + total[0]
		delete(pending, totalKey)
	}
	delete(pending, numberKey)
	tag.AddTextFrame(frameID, id3v2.EncodingUTF8, text)
}

// stripID3v2Tag removes ID3v2 tags from an MP3 file.
// This is used to handle ID3v2.2 tags which the id3v2 library doesn't support.
func stripID3v2Tag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Check for ID3v2 header (must have at least 10 bytes for header)
	if len(data) < 10 || string(data[:3]) != id3Magic {
		return nil
	}

	// Parse tag size from bytes 6-9 (synchsafe integer: each byte uses only 7 bits)
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	tagSize := size + 10

	// Check for footer flag (bit 4 of flags byte) - ID3v2.4 only
	if data[5]&0x10 != 0 {
		tagSize += 10
	}

	if tagSize >= len(data) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if err := os.WriteFile(path, data[tagSize:], info.Mode()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
