package modes

import (
	"fmt"
	"os"
	"path/filepath"
)

// Rename renames every file after pattern (or the default pattern for its
// disc count when empty), keeping directory and extension. An existing
// target is overwritten when force is set, otherwise after confirmation.
// Each track is closed before its file is renamed. Renames already done
// stay done if a later file fails.
func (r *Runner) Rename(files []string, pattern string, force bool) error {
	tracks, err := r.openTracks(files)
	if err != nil {
		return err
	}
	closed := 0
	defer func() { r.closeAll(tracks[closed:]) }()

	for _, tr := range tracks {
		name, err := tr.FormatFilename(pattern, r.patterns)
		if err != nil {
			return fmt.Errorf("%s: %w", tr.Path(), err)
		}
		oldPath := tr.Path()
		newPath := filepath.Join(tr.Dir(), name+tr.Ext())

		r.closeTrack(tr)
		closed++

		if newPath == filepath.Clean(oldPath) {
			continue
		}

		if info, err := os.Stat(newPath); err == nil && info.Mode().IsRegular() {
			// Another spelling of the same file, e.g. a case-insensitive
			// filesystem or a hard link.
			if oldInfo, err := os.Stat(oldPath); err == nil && os.SameFile(info, oldInfo) {
				continue
			}
			if !force {
				ok, err := r.prompter.Confirm(fmt.Sprintf("File '%s' already exists. Overwrite it?", newPath))
				if err != nil {
					return err
				}
				if !ok {
					r.log.Info("skipped", "path", oldPath)
					continue
				}
			}
			if err := os.Remove(newPath); err != nil {
				return fmt.Errorf("remove existing file: %w", err)
			}
		}

		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
		r.log.Debug("renamed file", "from", oldPath, "to", newPath)
	}
	return nil
}
