package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/audiotag/internal/errmsg"
	"github.com/llehouerou/audiotag/internal/track"
)

func newPrintCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE...",
		Short: "Print the tags of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withOp(errmsg.OpPrint, app.runner().Print(args))
		},
	}
}

func newInteractiveCommand(app *AppContext) *cobra.Command {
	var compilation bool

	cmd := &cobra.Command{
		Use:   "interactive FILE...",
		Short: "Tag an album by answering prompts",
		Long: "Asks for artist, album, genre and date once and for a title per file, then numbers " +
			"tracks and discs. Files in the same directory form one disc. Nothing is written " +
			"until every prompt is answered.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withOp(errmsg.OpInteractive, app.runner().Interactive(args, compilation))
		},
	}
	cmd.Flags().BoolVarP(&compilation, "compilation", "c", false, "Ask album artist once and artist per track")
	return cmd
}

// settableTags are the tags with --<tag> and --no<tag> flags.
func settableTags() []track.Tag {
	var out []track.Tag
	for _, t := range track.AllTags() {
		if t != track.Encoder {
			out = append(out, t)
		}
	}
	return out
}

func newSetCommand(app *AppContext) *cobra.Command {
	tags := settableTags()
	values := make(map[track.Tag]*string, len(tags))
	removals := make(map[track.Tag]*bool, len(tags))

	cmd := &cobra.Command{
		Use:   "set [--TAG=VALUE | --noTAG]... FILE...",
		Short: "Set or remove tags",
		Long: "Sets each --TAG=VALUE and removes each --noTAG on every file. Multi-valued tags " +
			"(artist, albumartist, genre) take values separated by the doubled separator, e.g. \"A//B\".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := make(map[track.Tag]string)
			var remove []track.Tag
			for _, t := range tags {
				if cmd.Flags().Changed(flagName(t)) {
					set[t] = *values[t]
				}
				if *removals[t] {
					remove = append(remove, t)
				}
			}
			return withOp(errmsg.OpSet, app.runner().Set(args, remove, set))
		},
	}

	for _, t := range tags {
		name := flagName(t)
		values[t] = cmd.Flags().String(name, "", fmt.Sprintf("Set %s", t))
		removals[t] = cmd.Flags().Bool("no"+name, false, fmt.Sprintf("Remove %s", t))
		cmd.MarkFlagsMutuallyExclusive(name, "no"+name)
	}
	return cmd
}

func flagName(t track.Tag) string {
	return strings.ToLower(t.Key())
}

func newCleanCommand(app *AppContext) *cobra.Command {
	var keepNames []string

	cmd := &cobra.Command{
		Use:   "clean [--keep TAG]... FILE...",
		Short: "Remove all tags except ENCODER (or the kept ones)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var keep []track.Tag
			if cmd.Flags().Changed("keep") {
				keep = make([]track.Tag, 0, len(keepNames))
				for _, name := range keepNames {
					t, err := track.ParseTag(name)
					if err != nil {
						return withOp(errmsg.OpParseArgs, err)
					}
					keep = append(keep, t)
				}
			}
			return withOp(errmsg.OpClean, app.runner().Clean(args, keep))
		},
	}
	cmd.Flags().StringArrayVarP(&keepNames, "keep", "k", nil, "Tag to keep (repeatable); replaces the default ENCODER")
	return cmd
}

func newRenameCommand(app *AppContext) *cobra.Command {
	var (
		pattern string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "rename [--pattern P] [--force] FILE...",
		Short: "Rename files after their tags",
		Long: "Renames each file after PATTERN, keeping its directory and extension. Tokens: " +
			"{A} artist, {T} title, {L} album, {Y} date, {G} genre, {N} track number, " +
			"{D} disc number, {NO} track total, {DO} disc total.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withOp(errmsg.OpRename, app.runner().Rename(args, pattern, force))
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Filename pattern (default from config)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files without asking")
	return cmd
}

func newCopyCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "copy SOURCE DEST",
		Short: "Copy tags from one file or directory to another",
		Long: "Copies every tag except ENCODER. SOURCE and DEST must both be files or both " +
			"directories; directories are paired file by file in name order.",
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return withOp(errmsg.OpCopy, app.runner().Copy(args[0], args[1]))
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "audiotag %s\n", Version)
		},
	}
}
