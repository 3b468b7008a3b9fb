package corpus

import (
	"io/fs"
)

// Stats summarizes the candidate documents under a root.
type Stats struct {
	Documents  int   `json:"documents"`
	TotalBytes int64 `json:"total_bytes"`
}

// Collect counts the candidate files under root and sums their sizes.
// Files that cannot be stat'ed are counted with size zero.
func (w *Walker) Collect(root string) (Stats, error) {
	var s Stats
	err := w.Walk(root, func(_ string, entry fs.DirEntry) error {
		s.Documents++
		if info, err := entry.Info(); err == nil {
			s.TotalBytes += info.Size()
		}
		return nil
	})
	return s, err
}
