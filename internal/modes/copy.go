package modes

import (
	"fmt"
	"os"
	"slices"

	"github.com/llehouerou/audiotag/internal/track"
)

// Copy copies all tags except ENCODER from source to dest. Both must be
// files, or both directories; directories are paired file by file in path
// order and must hold the same number of audio files. Nothing is written
// unless the arguments and file counts check out.
func (r *Runner) Copy(source, dest string) error {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return &NoSuchDirectoryError{Path: source}
	}
	dstInfo, err := os.Stat(dest)
	if err != nil {
		return &NoSuchDirectoryError{Path: dest}
	}

	switch {
	case srcInfo.IsDir() && dstInfo.IsDir():
		return r.copyDirs(source, dest)
	case srcInfo.Mode().IsRegular() && dstInfo.Mode().IsRegular():
		return r.copyFile(source, dest)
	}
	return ErrMixedCopyArgs
}

func (r *Runner) copyFile(source, dest string) error {
	src, err := r.opener.Open(source)
	if err != nil {
		return err
	}
	defer r.closeTrack(src)

	dst, err := r.opener.Open(dest)
	if err != nil {
		return err
	}
	defer r.closeTrack(dst)

	dst.CopyTags(src, nil)
	return r.saveTrack(dst)
}

func (r *Runner) copyDirs(source, dest string) error {
	srcFiles, err := listFiles(source)
	if err != nil {
		return err
	}
	dstFiles, err := listFiles(dest)
	if err != nil {
		return err
	}

	srcTracks, err := r.openTracks(srcFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	defer r.closeAll(srcTracks)

	dstTracks, err := r.openTracks(dstFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", dest, err)
	}
	defer r.closeAll(dstTracks)

	if len(srcTracks) != len(dstTracks) {
		return &FileCountError{Source: len(srcTracks), Dest: len(dstTracks)}
	}

	slices.SortFunc(srcTracks, track.Compare)
	slices.SortFunc(dstTracks, track.Compare)

	for i, dst := range dstTracks {
		dst.CopyTags(srcTracks[i], nil)
		if err := r.saveTrack(dst); err != nil {
			return err
		}
		r.log.Debug("copied tags", "from", srcTracks[i].Path(), "to", dst.Path())
	}
	return nil
}
