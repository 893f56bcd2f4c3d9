// Package modes implements the audiotag commands as batch operations over
// lists of files. Every operation closes each track it opens, on every
// return path.
package modes

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/audiotag/internal/prompt"
	"github.com/llehouerou/audiotag/internal/track"
)

var (
	// ErrNoAudioFiles is returned when none of the given files could be
	// opened as audio.
	ErrNoAudioFiles = errors.New("no audio files found")
	// ErrMixedCopyArgs is returned when copy gets one file and one directory.
	ErrMixedCopyArgs = errors.New("source and destination must both be files or both be directories")
)

// NoSuchDirectoryError is returned when a copy argument does not exist or a
// directory argument is not a directory.
type NoSuchDirectoryError struct {
	Path string
}

func (e *NoSuchDirectoryError) Error() string {
	return fmt.Sprintf("directory '%s' does not exist", e.Path)
}

// FileCountError is returned by directory copy when both sides hold a
// different number of audio files.
type FileCountError struct {
	Source int
	Dest   int
}

func (e *FileCountError) Error() string {
	return fmt.Sprintf("different number of files in source (%d) and destination (%d)", e.Source, e.Dest)
}

// Options configures a Runner.
type Options struct {
	// Opener opens tracks; its Separator is also used for tag-list prompts.
	Opener track.Opener
	// Patterns are the default filename patterns for rename.
	Patterns track.Patterns
	// Prompter answers interactive questions and overwrite confirmations.
	Prompter prompt.Prompter
	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives warnings and debug output. Defaults to log.Default().
	Logger *log.Logger
	// Rich enables styled output.
	Rich bool
}

// Runner executes batch operations.
type Runner struct {
	opener   track.Opener
	patterns track.Patterns
	prompter prompt.Prompter
	out      io.Writer
	log      *log.Logger
	rich     bool
}

// New creates a Runner from opts.
func New(opts Options) *Runner {
	r := &Runner{
		opener:   opts.Opener,
		patterns: opts.Patterns,
		prompter: opts.Prompter,
		out:      opts.Out,
		log:      opts.Logger,
		rich:     opts.Rich,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.log == nil {
		r.log = log.Default()
	}
	if r.patterns == (track.Patterns{}) {
		r.patterns = track.DefaultPatterns()
	}
	if r.prompter == nil {
		r.prompter = prompt.New(os.Stdin, r.out, false)
	}
	return r
}

func (r *Runner) separator() rune {
	if r.opener.Separator == 0 {
		return track.DefaultSeparator
	}
	return r.opener.Separator
}
