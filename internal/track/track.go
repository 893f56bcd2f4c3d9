// Package track models the tag state of a single audio file: typed accessors
// with cross-field validation, bulk set/remove/clear/copy operations, a
// human-readable dump and a filename generator.
package track

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/llehouerou/audiotag/internal/tags"
)

// File is an open tag handle provided by the codec adapter.
type File interface {
	// Tags returns the tag mapping as stored on disk.
	Tags() map[string][]string
	// SetTags replaces the whole pending mapping.
	SetTags(map[string][]string)
	// Save persists the pending mapping.
	Save() error
	// Close releases the underlying file.
	Close() error
}

// OpenFunc opens path through a codec adapter.
type OpenFunc func(path string) (File, error)

// Opener creates Tracks. The zero value opens files with the tags package
// and uses DefaultSeparator for tag-list strings.
type Opener struct {
	OpenFile  OpenFunc
	Separator rune
}

// Open opens path as a Track. Any failure is reported as an *OpenError.
func (o Opener) Open(path string) (*Track, error) {
	openFile := o.OpenFile
	if openFile == nil {
		openFile = openTagFile
	}
	sep := o.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}

	f, err := openFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Track{
		path: path,
		file: f,
		tags: cloneTags(f.Tags()),
		sep:  sep,
	}, nil
}

// Open opens path with the default Opener.
func Open(path string) (*Track, error) {
	return Opener{}.Open(path)
}

func openTagFile(path string) (File, error) {
	f, err := tags.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Track is one audio file's mutable tag state plus its path. Changes stay in
// memory until Save is called.
type Track struct {
	path string
	file File
	tags map[string][]string
	sep  rune
}

// Path returns the file path the track was opened from.
func (t *Track) Path() string {
	return t.path
}

// Ext returns the file extension including the dot.
func (t *Track) Ext() string {
	return filepath.Ext(t.path)
}

// Dir returns the directory containing the file.
func (t *Track) Dir() string {
	return filepath.Dir(t.path)
}

// Less orders tracks by path.
func (t *Track) Less(other *Track) bool {
	return t.path < other.path
}

// Equal reports whether both tracks refer to the same path.
func (t *Track) Equal(other *Track) bool {
	return other != nil && t.path == other.path
}

// Compare orders tracks by path, for use with slices.SortFunc.
func Compare(a, b *Track) int {
	switch {
	case a.path < b.path:
		return -1
	case a.path > b.path:
		return 1
	}
	return 0
}

func (t *Track) String() string {
	return fmt.Sprintf("Track('%s')", t.path)
}

// Save persists the current tag mapping.
func (t *Track) Save() error {
	t.file.SetTags(cloneTags(t.tags))
	if err := t.file.Save(); err != nil {
		return fmt.Errorf("save %s: %w", t.path, err)
	}
	return nil
}

// Close releases the file handle. Unsaved changes are discarded.
func (t *Track) Close() error {
	return t.file.Close()
}

// Tags returns a copy of the raw tag mapping.
func (t *Track) Tags() map[string][]string {
	return cloneTags(t.tags)
}

// HasTag reports whether the tag key is present, whatever its value.
func (t *Track) HasTag(tag Tag) bool {
	_, ok := t.tags[tag.Key()]
	return ok
}

func (t *Track) values(tag Tag) []string {
	v, ok := t.tags[tag.Key()]
	if !ok || len(v) == 0 {
		return nil
	}
	return v
}

func (t *Track) text(tag Tag) string {
	if v := t.values(tag); v != nil {
		return v[0]
	}
	return ""
}

func (t *Track) list(tag Tag) []string {
	if v := t.values(tag); v != nil {
		return slices.Clone(v)
	}
	return []string{""}
}

func (t *Track) number(tag Tag) int {
	n, err := strconv.Atoi(t.text(tag))
	if err != nil {
		return 0
	}
	return n
}

func (t *Track) put(tag Tag, values ...string) {
	t.tags[tag.Key()] = values
}

// Artist returns the artists, or [""] if none are set.
func (t *Track) Artist() []string { return t.list(Artist) }

// SetArtist sets one or more artists.
func (t *Track) SetArtist(artists ...string) { t.put(Artist, artists...) }

// AlbumArtist returns the album artists, or [""] if none are set.
func (t *Track) AlbumArtist() []string { return t.list(AlbumArtist) }

// SetAlbumArtist sets one or more album artists.
func (t *Track) SetAlbumArtist(artists ...string) { t.put(AlbumArtist, artists...) }

// Genre returns the genres, or [""] if none are set.
func (t *Track) Genre() []string { return t.list(Genre) }

// SetGenre sets one or more genres.
func (t *Track) SetGenre(genres ...string) { t.put(Genre, genres...) }

func (t *Track) Album() string         { return t.text(Album) }
func (t *Track) SetAlbum(album string) { t.put(Album, album) }
func (t *Track) Title() string         { return t.text(Title) }
func (t *Track) SetTitle(title string) { t.put(Title, title) }

// Encoder is read-only; only ClearTags and CopyTags preserve it.
func (t *Track) Encoder() string { return t.text(Encoder) }

// Date returns the release year, or 0 when missing or not a number.
func (t *Track) Date() int { return t.number(Date) }

// SetDate stores the release year.
func (t *Track) SetDate(year int) error {
	if year < 0 {
		return &ValidationError{Tag: Date, Msg: fmt.Sprintf("%s must not be negative", Date)}
	}
	t.put(Date, strconv.Itoa(year))
	return nil
}

func (t *Track) TrackNumber() int { return t.number(TrackNumber) }
func (t *Track) TrackTotal() int  { return t.number(TrackTotal) }
func (t *Track) DiscNumber() int  { return t.number(DiscNumber) }
func (t *Track) DiscTotal() int   { return t.number(DiscTotal) }

// SetTrackNumber fails if n < 1 or n exceeds an existing TRACKTOTAL.
func (t *Track) SetTrackNumber(n int) error { return t.setNumber(TrackNumber, TrackTotal, n) }

// SetTrackTotal fails if n < 1 or n is below an existing TRACKNUMBER.
func (t *Track) SetTrackTotal(n int) error { return t.setTotal(TrackTotal, TrackNumber, n) }

// SetDiscNumber fails if n < 1 or n exceeds an existing DISCTOTAL.
func (t *Track) SetDiscNumber(n int) error { return t.setNumber(DiscNumber, DiscTotal, n) }

// SetDiscTotal fails if n < 1 or n is below an existing DISCNUMBER.
func (t *Track) SetDiscTotal(n int) error { return t.setTotal(DiscTotal, DiscNumber, n) }

func (t *Track) setNumber(tag, total Tag, n int) error {
	if n < 1 {
		return &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must be positive", tag)}
	}
	if t.HasTag(total) && n > t.number(total) {
		return &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must not be greater than %s", tag, total)}
	}
	t.put(tag, strconv.Itoa(n))
	return nil
}

func (t *Track) setTotal(tag, number Tag, n int) error {
	if n < 1 {
		return &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must be positive", tag)}
	}
	if t.HasTag(number) && n < t.number(number) {
		return &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must not be less than %s", tag, number)}
	}
	t.put(tag, strconv.Itoa(n))
	return nil
}

// ClearTags drops every tag not listed in keep. A nil keep means {ENCODER};
// an empty, non-nil keep removes everything.
func (t *Track) ClearTags(keep []Tag) {
	if keep == nil {
		keep = []Tag{Encoder}
	}
	kept := make(map[string][]string, len(keep))
	for _, tag := range keep {
		if v, ok := t.tags[tag.Key()]; ok {
			kept[tag.Key()] = v
		}
	}
	t.tags = kept
}

// SetTags overwrites each given tag. Values of multi-valued tags are decoded
// as tag-list strings; DATE and the number tags must be integers (DATE
// non-negative, numbers positive). It reports whether the mapping changed.
// Tags are applied in canonical order; on error the tags applied before the
// failing one stay set. Unlike the typed setters, SetTags does not check a
// number against its total, so a batch can set either side first.
func (t *Track) SetTags(values map[Tag]string) (bool, error) {
	before := cloneTags(t.tags)
	for _, tag := range sortedTags(values) {
		v := values[tag]
		switch {
		case tag.MultiValued():
			list, err := SplitTagList(v, t.sep)
			if err != nil {
				return !tagsEqual(before, t.tags), err
			}
			t.put(tag, list...)
		case tag == Date || tag.Numeric():
			n, err := coerceNumber(tag, v)
			if err != nil {
				return !tagsEqual(before, t.tags), err
			}
			t.put(tag, strconv.Itoa(n))
		default:
			t.put(tag, v)
		}
	}
	return !tagsEqual(before, t.tags), nil
}

func coerceNumber(tag Tag, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must be a number, got '%s'", tag, v)}
	}
	if tag == Date && n < 0 {
		return 0, &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must not be negative", tag)}
	}
	if tag != Date && n < 1 {
		return 0, &ValidationError{Tag: tag, Msg: fmt.Sprintf("%s must be positive", tag)}
	}
	return n, nil
}

// RemoveTags deletes the given tags and reports whether any were present.
func (t *Track) RemoveTags(remove []Tag) bool {
	changed := false
	for _, tag := range remove {
		if _, ok := t.tags[tag.Key()]; ok {
			delete(t.tags, tag.Key())
			changed = true
		}
	}
	return changed
}

// CopyTags replaces this track's tags with source's, except that tags in
// omit keep this track's own values (or stay absent). A nil omit means
// {ENCODER}.
func (t *Track) CopyTags(source *Track, omit []Tag) {
	if omit == nil {
		omit = []Tag{Encoder}
	}
	next := cloneTags(source.tags)
	for _, tag := range omit {
		delete(next, tag.Key())
		if v, ok := t.tags[tag.Key()]; ok && len(v) > 0 {
			next[tag.Key()] = slices.Clone(v)
		}
	}
	t.tags = next
}

func sortedTags(values map[Tag]string) []Tag {
	keys := slices.Collect(maps.Keys(values))
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

func tagsEqual(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, slices.Equal[[]string])
}
