package track

import (
	"fmt"
	"strings"
)

// Tag identifies one of the metadata fields audiotag knows about.
type Tag int

// Recognized tags, in canonical key order.
const (
	Album Tag = iota
	AlbumArtist
	Artist
	Date
	DiscNumber
	DiscTotal
	Encoder
	Genre
	Title
	TrackNumber
	TrackTotal

	numTags
)

// tagKeys is the property-map key used by the codec for each Tag.
var tagKeys = [numTags]string{
	Album:       "ALBUM",
	AlbumArtist: "ALBUMARTIST",
	Artist:      "ARTIST",
	Date:        "DATE",
	DiscNumber:  "DISCNUMBER",
	DiscTotal:   "DISCTOTAL",
	Encoder:     "ENCODER",
	Genre:       "GENRE",
	Title:       "TITLE",
	TrackNumber: "TRACKNUMBER",
	TrackTotal:  "TRACKTOTAL",
}

// Key returns the codec key of the tag, e.g. "TRACKNUMBER".
func (t Tag) Key() string {
	if t < 0 || t >= numTags {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagKeys[t]
}

func (t Tag) String() string {
	return t.Key()
}

// MultiValued reports whether the tag holds an ordered list of values.
func (t Tag) MultiValued() bool {
	return t == Artist || t == AlbumArtist || t == Genre
}

// Numeric reports whether the tag is one of the track/disc number fields.
func (t Tag) Numeric() bool {
	return t == TrackNumber || t == TrackTotal || t == DiscNumber || t == DiscTotal
}

// AllTags returns every recognized tag in canonical order.
func AllTags() []Tag {
	all := make([]Tag, 0, numTags)
	for t := Tag(0); t < numTags; t++ {
		all = append(all, t)
	}
	return all
}

// ParseTag resolves a tag name case-insensitively ("artist", "TRACKNUMBER").
func ParseTag(name string) (Tag, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	for t, k := range tagKeys {
		if k == key {
			return Tag(t), nil
		}
	}
	return 0, fmt.Errorf("unknown tag %q", name)
}

// requiredForFilename lists the tags FormatFilename needs, in reporting order.
var requiredForFilename = []Tag{
	Artist, Title, Album, Date, Genre, TrackNumber, TrackTotal, DiscNumber, DiscTotal,
}
