package track

import "github.com/llehouerou/audiotag/internal/tags"

// MemoryOpener returns an Opener backed by an in-memory tag store.
func MemoryOpener(store *tags.MemoryStore, sep rune) Opener {
	return Opener{
		OpenFile: func(path string) (File, error) {
			f, err := store.Open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		Separator: sep,
	}
}
