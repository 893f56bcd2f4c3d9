package modes

import (
	"fmt"

	"github.com/llehouerou/audiotag/internal/track"
)

// Print writes the tag dump of every file followed by a blank line.
func (r *Runner) Print(files []string) error {
	tracks, err := r.openTracks(files)
	if err != nil {
		return err
	}
	defer r.closeAll(tracks)

	for _, tr := range tracks {
		fmt.Fprintln(r.out, tr.FormatTags(r.rich))
	}
	return nil
}

// Set applies set and then remove to every file, saving those that
// changed. It stops at the first invalid value; files processed before it
// keep their changes.
func (r *Runner) Set(files []string, remove []track.Tag, set map[track.Tag]string) error {
	tracks, err := r.openTracks(files)
	if err != nil {
		return err
	}
	defer r.closeAll(tracks)

	for _, tr := range tracks {
		changed, err := tr.SetTags(set)
		if err != nil {
			return fmt.Errorf("%s: %w", tr.Path(), err)
		}
		if tr.RemoveTags(remove) {
			changed = true
		}
		if !changed {
			r.log.Debug("tags unchanged", "path", tr.Path())
			continue
		}
		if err := r.saveTrack(tr); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes every tag not in keep from every file. A nil keep keeps
// only ENCODER.
func (r *Runner) Clean(files []string, keep []track.Tag) error {
	tracks, err := r.openTracks(files)
	if err != nil {
		return err
	}
	defer r.closeAll(tracks)

	for _, tr := range tracks {
		tr.ClearTags(keep)
		if err := r.saveTrack(tr); err != nil {
			return err
		}
	}
	return nil
}
