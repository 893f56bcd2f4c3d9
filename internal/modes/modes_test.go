package modes

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/audiotag/internal/prompt"
	"github.com/llehouerou/audiotag/internal/tags"
	"github.com/llehouerou/audiotag/internal/track"
)

// scriptedPrompter answers questions from a fixed script and records what
// was asked. An empty answer accepts the pre-filled value.
type scriptedPrompter struct {
	answers  []string
	confirms []bool
	asked    []string
	initials []string
	queries  []string
}

func (p *scriptedPrompter) Ask(label, initial string) (string, error) {
	p.asked = append(p.asked, label)
	p.initials = append(p.initials, initial)
	if len(p.answers) == 0 {
		return "", prompt.ErrInterrupted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a == "" {
		return initial, nil
	}
	return a, nil
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.queries = append(p.queries, question)
	if len(p.confirms) == 0 {
		return false, prompt.ErrInterrupted
	}
	c := p.confirms[0]
	p.confirms = p.confirms[1:]
	return c, nil
}

type fixture struct {
	dir    string
	store  *tags.MemoryStore
	prompt *scriptedPrompter
	out    *bytes.Buffer
	runner *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dir:    t.TempDir(),
		store:  tags.NewMemoryStore(),
		prompt: &scriptedPrompter{},
		out:    &bytes.Buffer{},
	}
	f.runner = New(Options{
		Opener:   track.MemoryOpener(f.store, 0),
		Prompter: f.prompt,
		Out:      f.out,
		Logger:   log.New(io.Discard),
	})
	t.Cleanup(func() {
		assert.Empty(t, f.store.OpenHandles(), "tracks left open")
	})
	return f
}

// addFile creates an empty file at rel and registers it as audio with m.
func (f *fixture) addFile(t *testing.T, rel string, m map[string][]string) string {
	t.Helper()
	path := f.addPlain(t, rel)
	f.store.Add(path, m)
	return path
}

// addPlain creates a file that does not open as audio.
func (f *fixture) addPlain(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(f.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func (f *fixture) stored(t *testing.T, path string) map[string][]string {
	t.Helper()
	m, ok := f.store.Get(path)
	require.True(t, ok, "no such file %s", path)
	return m
}

func TestNew_Defaults(t *testing.T) {
	r := New(Options{Prompter: &scriptedPrompter{}})
	assert.Equal(t, track.DefaultPatterns(), r.patterns)
	assert.Equal(t, os.Stdout, r.out)
	assert.NotNil(t, r.log)
	assert.Equal(t, track.DefaultSeparator, r.separator())
}

func TestListFiles(t *testing.T) {
	f := newFixture(t)
	f.addPlain(t, "b.mp3")
	f.addPlain(t, "a.flac")
	f.addPlain(t, "sub/c.mp3")
	require.NoError(t, os.Symlink(filepath.Join(f.dir, "a.flac"), filepath.Join(f.dir, "link.flac")))

	files, err := listFiles(f.dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(f.dir, "a.flac"), filepath.Join(f.dir, "b.mp3")}, files)

	_, err = listFiles(filepath.Join(f.dir, "missing"))
	var dirErr *NoSuchDirectoryError
	assert.ErrorAs(t, err, &dirErr)

	_, err = listFiles(filepath.Join(f.dir, "a.flac"))
	assert.ErrorAs(t, err, &dirErr)
}

func TestOpenTracks_SkipsUnreadable(t *testing.T) {
	f := newFixture(t)
	good := f.addFile(t, "01.flac", nil)
	bad := f.addPlain(t, "cover.jpg")

	tracks, err := f.runner.openTracks([]string{bad, good})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, good, tracks[0].Path())
	f.runner.closeAll(tracks)

	_, err = f.runner.openTracks([]string{bad})
	assert.ErrorIs(t, err, ErrNoAudioFiles)
}

func TestOpenTracks_WarnsWithExtensionHint(t *testing.T) {
	f := newFixture(t)
	var logs bytes.Buffer
	f.runner.log = log.New(&logs)
	cover := f.addPlain(t, "cover.jpg")
	broken := f.addPlain(t, "broken.flac")

	_, err := f.runner.openTracks([]string{cover, broken})
	require.ErrorIs(t, err, ErrNoAudioFiles)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "unable to open file")
	assert.Contains(t, lines[0], "not an audio extension")
	assert.Contains(t, lines[1], "unable to open file")
	assert.NotContains(t, lines[1], "hint")
}

func TestPrint(t *testing.T) {
	f := newFixture(t)
	a := f.addFile(t, "a.flac", map[string][]string{"TITLE": {"One"}, "ARTIST": {"X", "Y"}})
	b := f.addFile(t, "b.flac", map[string][]string{"TITLE": {"Two"}})

	require.NoError(t, f.runner.Print([]string{a, f.addPlain(t, "notes.txt"), b}))

	want := "Filename: " + a + "\nARTIST: X, Y\nTITLE: One\n\n" +
		"Filename: " + b + "\nTITLE: Two\n\n"
	assert.Equal(t, want, f.out.String())
}

func TestPrint_NoFiles(t *testing.T) {
	f := newFixture(t)
	err := f.runner.Print([]string{f.addPlain(t, "notes.txt")})
	assert.ErrorIs(t, err, ErrNoAudioFiles)
}

func TestSet(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "a.flac", map[string][]string{"TITLE": {"Old"}, "ALBUM": {"L"}})

	err := f.runner.Set([]string{path},
		[]track.Tag{track.Title},
		map[track.Tag]string{track.Artist: "X", track.TrackNumber: "10"})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"ALBUM":       {"L"},
		"ARTIST":      {"X"},
		"TRACKNUMBER": {"10"},
	}, f.stored(t, path))
	assert.Equal(t, 1, f.store.Saves(path))
}

func TestSet_UnchangedNotSaved(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "a.flac", map[string][]string{"ARTIST": {"X"}})

	err := f.runner.Set([]string{path}, []track.Tag{track.Title}, map[track.Tag]string{track.Artist: "X"})
	require.NoError(t, err)
	assert.Zero(t, f.store.Saves(path))
}

func TestSet_StopsAtInvalidList(t *testing.T) {
	f := newFixture(t)
	first := f.addFile(t, "a.flac", nil)
	second := f.addFile(t, "b.flac", nil)

	// The first file fails, so neither is saved
	err := f.runner.Set([]string{first, second}, nil, map[track.Tag]string{track.Genre: "Rock//"})
	var listErr *track.InvalidListError
	require.ErrorAs(t, err, &listErr)
	assert.Equal(t, 2, listErr.Index)
	assert.Zero(t, f.store.Saves(first))
	assert.Zero(t, f.store.Saves(second))
}

func TestSet_InvalidNumber(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "a.flac", nil)

	err := f.runner.Set([]string{path}, nil, map[track.Tag]string{track.TrackNumber: "x"})
	var vErr *track.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Zero(t, f.store.Saves(path))
}

func TestClean(t *testing.T) {
	f := newFixture(t)
	all := map[string][]string{
		"ENCODER": {"LAME"}, "ARTIST": {"A"}, "ALBUM": {"L"},
		"TITLE": {"T"}, "DATE": {"1999"}, "GENRE": {"G"},
	}
	a := f.addFile(t, "a.mp3", all)
	b := f.addFile(t, "b.mp3", all)

	require.NoError(t, f.runner.Clean([]string{a}, nil))
	assert.Equal(t, map[string][]string{"ENCODER": {"LAME"}}, f.stored(t, a))

	require.NoError(t, f.runner.Clean([]string{b}, []track.Tag{track.Title, track.Date}))
	assert.Equal(t, map[string][]string{"TITLE": {"T"}, "DATE": {"1999"}}, f.stored(t, b))
}

func TestCopy_SingleFile(t *testing.T) {
	f := newFixture(t)
	src := f.addFile(t, "src.flac", map[string][]string{"TITLE": {"T"}, "ENCODER": {"src"}})
	dst := f.addFile(t, "dst.flac", map[string][]string{"ALBUM": {"Gone"}, "ENCODER": {"dst"}})

	require.NoError(t, f.runner.Copy(src, dst))
	assert.Equal(t, map[string][]string{"TITLE": {"T"}, "ENCODER": {"dst"}}, f.stored(t, dst))
	assert.Zero(t, f.store.Saves(src))
}

func TestCopy_Directories(t *testing.T) {
	f := newFixture(t)
	// Source paths sort differently from creation order
	f.addFile(t, "src/02.flac", map[string][]string{"TITLE": {"Two"}})
	f.addFile(t, "src/01.flac", map[string][]string{"TITLE": {"One"}, "ENCODER": {"x"}})
	f.addPlain(t, "src/cover.jpg")
	d1 := f.addFile(t, "dst/a.mp3", nil)
	d2 := f.addFile(t, "dst/b.mp3", map[string][]string{"ENCODER": {"LAME"}})

	require.NoError(t, f.runner.Copy(filepath.Join(f.dir, "src"), filepath.Join(f.dir, "dst")))

	assert.Equal(t, map[string][]string{"TITLE": {"One"}}, f.stored(t, d1))
	assert.Equal(t, map[string][]string{"TITLE": {"Two"}, "ENCODER": {"LAME"}}, f.stored(t, d2))
}

func TestCopy_CountMismatch(t *testing.T) {
	f := newFixture(t)
	f.addFile(t, "src/1.flac", map[string][]string{"TITLE": {"1"}})
	f.addFile(t, "src/2.flac", map[string][]string{"TITLE": {"2"}})
	dsts := []string{
		f.addFile(t, "dst/1.flac", nil),
		f.addFile(t, "dst/2.flac", nil),
		f.addFile(t, "dst/3.flac", nil),
	}

	err := f.runner.Copy(filepath.Join(f.dir, "src"), filepath.Join(f.dir, "dst"))
	var countErr *FileCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 2, countErr.Source)
	assert.Equal(t, 3, countErr.Dest)
	for _, d := range dsts {
		assert.Zero(t, f.store.Saves(d))
	}
}

func TestCopy_Errors(t *testing.T) {
	f := newFixture(t)
	file := f.addFile(t, "a.flac", nil)
	f.addFile(t, "dir/b.flac", nil)
	f.addPlain(t, "empty/notes.txt")
	dir := filepath.Join(f.dir, "dir")

	var dirErr *NoSuchDirectoryError
	assert.ErrorAs(t, f.runner.Copy(filepath.Join(f.dir, "missing"), dir), &dirErr)
	assert.ErrorAs(t, f.runner.Copy(dir, filepath.Join(f.dir, "missing")), &dirErr)
	assert.ErrorIs(t, f.runner.Copy(file, dir), ErrMixedCopyArgs)
	assert.ErrorIs(t, f.runner.Copy(dir, file), ErrMixedCopyArgs)
	assert.ErrorIs(t, f.runner.Copy(dir, filepath.Join(f.dir, "empty")), ErrNoAudioFiles)
}

func renameTags(title string, n int) map[string][]string {
	return map[string][]string{
		"ARTIST": {"A"}, "TITLE": {title}, "ALBUM": {"L"}, "DATE": {"2000"},
		"GENRE": {"G"}, "TRACKNUMBER": {fmt.Sprintf("%02d", n)}, "TRACKTOTAL": {"12"},
		"DISCNUMBER": {"1"}, "DISCTOTAL": {"1"},
	}
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "track.flac", renameTags("Intro/Outro", 3))

	require.NoError(t, f.runner.Rename([]string{path}, "", false))

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(f.dir, "03 - Intro-Outro.flac"))
	assert.Empty(t, f.prompt.queries)
}

func TestRename_CustomPatternAndNoop(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "03 - T.flac", renameTags("T", 3))

	require.NoError(t, f.runner.Rename([]string{path}, "", false))
	assert.FileExists(t, path)

	require.NoError(t, f.runner.Rename([]string{path}, "{Y} {L} {N}", false))
	assert.FileExists(t, filepath.Join(f.dir, "2000 L 03.flac"))
}

func TestRename_UncleanPathKeepsFile(t *testing.T) {
	for _, force := range []bool{false, true} {
		for _, rel := range []string{"./03 - T.flac", "sub//03 - T.flac", "sub/../03 - T.flac"} {
			t.Run(fmt.Sprintf("%s force=%t", rel, force), func(t *testing.T) {
				f := newFixture(t)
				require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "sub"), 0o755))
				clean := filepath.Join(f.dir, rel)
				require.NoError(t, os.WriteFile(clean, []byte("audio"), 0o600))
				path := f.dir + "/" + rel
				f.store.Add(path, renameTags("T", 3))

				require.NoError(t, f.runner.Rename([]string{path}, "", force))

				data, err := os.ReadFile(clean)
				require.NoError(t, err)
				assert.Equal(t, "audio", string(data))
				assert.Empty(t, f.prompt.queries)
			})
		}
	}
}

func TestRename_HardLinkToTargetIsKept(t *testing.T) {
	f := newFixture(t)
	path := f.addFile(t, "x.flac", renameTags("T", 3))
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))
	target := filepath.Join(f.dir, "03 - T.flac")
	require.NoError(t, os.Link(path, target))

	require.NoError(t, f.runner.Rename([]string{path}, "", true))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
	assert.Empty(t, f.prompt.queries)
}

func TestRename_Existing(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		confirm   []bool
		renamed   bool
		questions int
	}{
		{"declined", false, []bool{false}, false, 1},
		{"confirmed", false, []bool{true}, true, 1},
		{"forced", true, nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			path := f.addFile(t, "x.flac", renameTags("T", 1))
			target := filepath.Join(f.dir, "01 - T.flac")
			require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))
			f.prompt.confirms = tt.confirm

			require.NoError(t, f.runner.Rename([]string{path}, "", tt.force))

			assert.Len(t, f.prompt.queries, tt.questions)
			data, err := os.ReadFile(target)
			require.NoError(t, err)
			if tt.renamed {
				assert.Empty(t, data)
				assert.NoFileExists(t, path)
			} else {
				assert.Equal(t, "old", string(data))
				assert.FileExists(t, path)
			}
		})
	}
}

func TestRename_MissingTagsClosesAll(t *testing.T) {
	f := newFixture(t)
	good := f.addFile(t, "a.flac", renameTags("T", 1))
	bad := f.addFile(t, "b.flac", map[string][]string{"TITLE": {"T"}})
	after := f.addFile(t, "c.flac", renameTags("U", 2))

	err := f.runner.Rename([]string{good, bad, after}, "", false)
	var vErr *track.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.FileExists(t, filepath.Join(f.dir, "01 - T.flac"))
	assert.FileExists(t, after)
}

func TestInteractive_TwoDiscs(t *testing.T) {
	f := newFixture(t)
	b := f.addFile(t, "cd2/01.flac", nil)
	a := f.addFile(t, "cd1/01.flac", map[string][]string{"TRACKNUMBER": {"9"}, "ENCODER": {"enc"}})

	f.prompt.answers = []string{"Artist", "Album", "Rock//Pop", "1999", "First", "Second"}
	require.NoError(t, f.runner.Interactive([]string{b, a}, false))

	assert.Equal(t, []string{"Artist", "Album", "Genre", "Date", "Title", "Title"}, f.prompt.asked)
	assert.Equal(t, map[string][]string{
		"ARTIST": {"Artist"}, "ALBUM": {"Album"}, "GENRE": {"Rock", "Pop"},
		"DATE": {"1999"}, "TITLE": {"First"}, "ENCODER": {"enc"},
		"TRACKNUMBER": {"1"}, "TRACKTOTAL": {"1"}, "DISCNUMBER": {"1"}, "DISCTOTAL": {"2"},
	}, f.stored(t, a))

	got := f.stored(t, b)
	assert.Equal(t, []string{"Second"}, got["TITLE"])
	assert.Equal(t, []string{"2"}, got["DISCNUMBER"])
	assert.Equal(t, []string{"2"}, got["DISCTOTAL"])
	assert.Equal(t, []string{"1"}, got["TRACKNUMBER"])
	assert.Equal(t, []string{"1"}, got["TRACKTOTAL"])
}

func TestInteractive_TrackOrder(t *testing.T) {
	f := newFixture(t)
	paths := []string{
		f.addFile(t, "album/b.flac", nil),
		f.addFile(t, "album/c.flac", nil),
		f.addFile(t, "album/a.flac", nil),
	}
	f.prompt.answers = []string{"X", "Y", "Z", "2020", "ta", "tb", "tc"}
	require.NoError(t, f.runner.Interactive(paths, false))

	for i, name := range []string{"a", "b", "c"} {
		got := f.stored(t, filepath.Join(f.dir, "album", name+".flac"))
		assert.Equal(t, []string{"t" + name}, got["TITLE"])
		assert.Equal(t, []string{string(rune('1' + i))}, got["TRACKNUMBER"])
		assert.Equal(t, []string{"3"}, got["TRACKTOTAL"])
		assert.Equal(t, []string{"1"}, got["DISCTOTAL"])
	}
}

func TestInteractive_AbortWritesNothing(t *testing.T) {
	f := newFixture(t)
	a := f.addFile(t, "a.flac", nil)
	b := f.addFile(t, "b.flac", nil)

	// Script runs out at the second title
	f.prompt.answers = []string{"X", "Y", "Z", "2020", "first"}
	err := f.runner.Interactive([]string{a, b}, false)
	assert.ErrorIs(t, err, prompt.ErrInterrupted)
	assert.Zero(t, f.store.Saves(a))
	assert.Zero(t, f.store.Saves(b))
}

func TestInteractive_Reprompts(t *testing.T) {
	f := newFixture(t)
	a := f.addFile(t, "a.flac", nil)

	f.prompt.answers = []string{"//bad", "Good", "Album", "Genre", "soon", "-3", "2001", "Title"}
	require.NoError(t, f.runner.Interactive([]string{a}, false))

	assert.Equal(t, []string{"Artist", "Artist", "Album", "Genre", "Date", "Date", "Date", "Title"}, f.prompt.asked)
	assert.Contains(t, f.out.String(), "value 1 in '//bad' is invalid")
	assert.Contains(t, f.out.String(), "'soon' is not a valid year")
	assert.Equal(t, []string{"2001"}, f.stored(t, a)["DATE"])
}

func TestInteractive_PrefillsCurrentValues(t *testing.T) {
	f := newFixture(t)
	a := f.addFile(t, "a.flac", map[string][]string{
		"ARTIST": {"AC/DC", "Guest"}, "ALBUM": {"Live"}, "DATE": {"1992"}, "TITLE": {"Thunder"},
	})

	f.prompt.answers = []string{"", "", "Rock", "", ""}
	require.NoError(t, f.runner.Interactive([]string{a}, false))

	assert.Equal(t, []string{`AC\/DC//Guest`, "Live", "", "1992", "Thunder"}, f.prompt.initials)
	got := f.stored(t, a)
	assert.Equal(t, []string{"AC/DC", "Guest"}, got["ARTIST"])
	assert.Equal(t, []string{"Live"}, got["ALBUM"])
	assert.Equal(t, []string{"1992"}, got["DATE"])
	assert.Equal(t, []string{"Thunder"}, got["TITLE"])
}

func TestInteractive_Compilation(t *testing.T) {
	f := newFixture(t)
	a := f.addFile(t, "a.flac", nil)
	b := f.addFile(t, "b.flac", nil)

	f.prompt.answers = []string{"Various", "Hits", "Pop", "2010", "One", "Singer A", "Two", "Singer B//Singer C"}
	require.NoError(t, f.runner.Interactive([]string{a, b}, true))

	assert.Equal(t, []string{"Album artist", "Album", "Genre", "Date", "Title", "Artist", "Title", "Artist"}, f.prompt.asked)
	assert.Equal(t, []string{"Various"}, f.stored(t, a)["ALBUMARTIST"])
	assert.Equal(t, []string{"Singer A"}, f.stored(t, a)["ARTIST"])
	assert.Equal(t, []string{"Singer B", "Singer C"}, f.stored(t, b)["ARTIST"])
}
