package modes

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/audiotag/internal/tags"
	"github.com/llehouerou/audiotag/internal/track"
)

// listFiles returns the regular files directly inside dir, sorted.
// Subdirectories and symlinks are skipped.
func listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &NoSuchDirectoryError{Path: dir}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// openTracks opens every path, skipping those that cannot be opened with a
// warning. It fails with ErrNoAudioFiles when nothing could be opened.
func (r *Runner) openTracks(paths []string) ([]*track.Track, error) {
	tracks := make([]*track.Track, 0, len(paths))
	for _, p := range paths {
		tr, err := r.opener.Open(p)
		if err != nil {
			kv := []any{"path", p, "err", errors.Unwrap(err)}
			if !tags.IsMusicFile(p) {
				kv = append(kv, "ext", filepath.Ext(p), "hint", "not an audio extension")
			}
			r.log.Warn("unable to open file", kv...)
			continue
		}
		if info, statErr := os.Stat(p); statErr == nil {
			r.log.Debug("opened file", "path", p, "size", humanize.Bytes(uint64(info.Size())))
		} else {
			r.log.Debug("opened file", "path", p)
		}
		tracks = append(tracks, tr)
	}
	if len(tracks) == 0 {
		return nil, ErrNoAudioFiles
	}
	return tracks, nil
}

// closeAll closes every track, logging failures.
func (r *Runner) closeAll(tracks []*track.Track) {
	for _, tr := range tracks {
		r.closeTrack(tr)
	}
}

func (r *Runner) closeTrack(tr *track.Track) {
	if err := tr.Close(); err != nil {
		r.log.Warn("unable to close file", "path", tr.Path(), "err", err)
	}
}

// saveTrack persists tr and logs it.
func (r *Runner) saveTrack(tr *track.Track) error {
	if err := tr.Save(); err != nil {
		return err
	}
	r.log.Debug("saved tags", "path", tr.Path())
	return nil
}
