package modes

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/llehouerou/audiotag/internal/track"
	"github.com/llehouerou/audiotag/internal/ui/styles"
)

// albumInfo holds the answers shared by every track.
type albumInfo struct {
	artists []string // ARTIST, or ALBUMARTIST for compilations
	album   string
	genres  []string
	date    int
}

// trackPlan holds everything to write to one track.
type trackPlan struct {
	track     *track.Track
	title     string
	artists   []string // compilations only
	number    int
	total     int
	disc      int
	discTotal int
}

// Interactive asks for album-level tags once and a title per track, then
// numbers tracks and discs. Files sharing a parent directory form a disc;
// discs are ordered by directory and tracks by path. With compilation set,
// the album-level artist becomes ALBUMARTIST and ARTIST is asked per track.
//
// Nothing is written until every answer has been collected, so aborting a
// prompt leaves all files untouched.
func (r *Runner) Interactive(files []string, compilation bool) error {
	tracks, err := r.openTracks(files)
	if err != nil {
		return err
	}
	defer r.closeAll(tracks)

	discs := groupDiscs(tracks)

	album, err := r.askAlbum(discs[0][0], compilation)
	if err != nil {
		return err
	}

	var plans []trackPlan
	for d, disc := range discs {
		r.printDisc(d+1, len(discs))
		for n, tr := range disc {
			r.printPath(tr.Path())
			title, err := r.prompter.Ask("Title", tr.Title())
			if err != nil {
				return err
			}
			plan := trackPlan{
				track:     tr,
				title:     title,
				number:    n + 1,
				total:     len(disc),
				disc:      d + 1,
				discTotal: len(discs),
			}
			if compilation {
				if plan.artists, err = r.askList("Artist", tr.Artist()); err != nil {
					return err
				}
			}
			plans = append(plans, plan)
		}
	}

	for _, p := range plans {
		if err := applyPlan(p, album, compilation); err != nil {
			return fmt.Errorf("%s: %w", p.track.Path(), err)
		}
		if err := r.saveTrack(p.track); err != nil {
			return err
		}
	}
	return nil
}

// groupDiscs partitions sorted tracks by parent directory, directories in
// lexical order.
func groupDiscs(tracks []*track.Track) [][]*track.Track {
	byDir := make(map[string][]*track.Track)
	for _, tr := range tracks {
		dir := filepath.Dir(tr.Path())
		byDir[dir] = append(byDir[dir], tr)
	}

	dirs := slices.Sorted(maps.Keys(byDir))
	discs := make([][]*track.Track, 0, len(dirs))
	for _, dir := range dirs {
		disc := byDir[dir]
		slices.SortFunc(disc, track.Compare)
		discs = append(discs, disc)
	}
	return discs
}

func applyPlan(p trackPlan, album albumInfo, compilation bool) error {
	tr := p.track
	// Old numbers could conflict with the new ones in either direction.
	tr.RemoveTags([]track.Tag{track.TrackNumber, track.TrackTotal, track.DiscNumber, track.DiscTotal})

	tr.SetTitle(p.title)
	tr.SetAlbum(album.album)
	tr.SetGenre(album.genres...)
	if err := tr.SetDate(album.date); err != nil {
		return err
	}
	if compilation {
		tr.SetAlbumArtist(album.artists...)
		tr.SetArtist(p.artists...)
	} else {
		tr.SetArtist(album.artists...)
	}

	if err := tr.SetTrackTotal(p.total); err != nil {
		return err
	}
	if err := tr.SetDiscTotal(p.discTotal); err != nil {
		return err
	}
	if err := tr.SetTrackNumber(p.number); err != nil {
		return err
	}
	return tr.SetDiscNumber(p.disc)
}

func (r *Runner) askAlbum(first *track.Track, compilation bool) (albumInfo, error) {
	var info albumInfo
	var err error

	if compilation {
		info.artists, err = r.askList("Album artist", first.AlbumArtist())
	} else {
		info.artists, err = r.askList("Artist", first.Artist())
	}
	if err != nil {
		return info, err
	}
	if info.album, err = r.prompter.Ask("Album", first.Album()); err != nil {
		return info, err
	}
	if info.genres, err = r.askList("Genre", first.Genre()); err != nil {
		return info, err
	}
	info.date, err = r.askDate(first)
	return info, err
}

// askList asks for a tag-list string until it decodes.
func (r *Runner) askList(label string, current []string) ([]string, error) {
	initial := ""
	if !slices.Equal(current, []string{""}) {
		initial = track.JoinTagList(current, r.separator())
	}
	for {
		answer, err := r.prompter.Ask(label, initial)
		if err != nil {
			return nil, err
		}
		values, err := track.SplitTagList(answer, r.separator())
		var listErr *track.InvalidListError
		if errors.As(err, &listErr) {
			r.printError(err)
			continue
		}
		return values, err
	}
}

// askDate asks for a year until it is a non-negative integer.
func (r *Runner) askDate(first *track.Track) (int, error) {
	initial := ""
	if first.HasTag(track.Date) && first.Date() > 0 {
		initial = strconv.Itoa(first.Date())
	}
	for {
		answer, err := r.prompter.Ask("Date", initial)
		if err != nil {
			return 0, err
		}
		year, err := strconv.Atoi(answer)
		if err != nil || year < 0 {
			r.printError(fmt.Errorf("'%s' is not a valid year", answer))
			continue
		}
		return year, nil
	}
}

// printDisc announces each disc of a multi-disc album on a terminal.
func (r *Runner) printDisc(n, total int) {
	if !r.rich || total < 2 {
		return
	}
	fmt.Fprintln(r.out, styles.T().Heading(fmt.Sprintf("Disc %d/%d", n, total)))
}

func (r *Runner) printPath(path string) {
	if r.rich {
		path = styles.T().S().Path.Render(path)
	}
	fmt.Fprintln(r.out, path)
}

func (r *Runner) printError(err error) {
	msg := err.Error()
	if r.rich {
		msg = styles.T().S().Error.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}
