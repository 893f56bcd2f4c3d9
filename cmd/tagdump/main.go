// Dev tool that dumps the raw property map the codec adapter reads from
// each file, with the detected container and audio properties.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"go.senan.xyz/taglib"

	"github.com/llehouerou/audiotag/internal/errmsg"
	"github.com/llehouerou/audiotag/internal/tags"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s FILE...", os.Args[0])
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := dump(path); err != nil {
			log.Print(errmsg.FormatWith(errmsg.OpDump, path, err))
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func dump(path string) error {
	f, err := tags.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("%s\n", path)
	fmt.Printf("  container: %s, %s\n", f.FileType(), humanize.Bytes(uint64(f.Size())))

	props, err := taglib.ReadProperties(path)
	if err != nil {
		log.Printf("Warning: no audio properties for %s: %v", path, err)
	} else {
		fmt.Printf("  audio: %s, %d Hz, %d ch, %d kbps\n",
			props.Length, props.SampleRate, props.Channels, props.Bitrate)
	}

	m := f.Tags()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %q\n", k, m[k])
	}
	fmt.Println()
	return nil
}
