package watchlater

import (
	"time"
	"wlsync/youtube"
)

// FilterNew returns the uploads published strictly after boundary minus
// buffer, preserving input order. The buffer tolerates the platform's
// indexing delay: a video published just before the previous run's boundary
// may only become visible in scan results after that run finished, and
// without the buffer it would be missed entirely. A video published exactly
// at the cutoff is excluded.
func FilterNew(uploads []youtube.Video, boundary time.Time, buffer time.Duration) []youtube.Video {
	cutoff := boundary.Add(-buffer)

	var fresh []youtube.Video
	for _, v := range uploads {
		if v.Published.After(cutoff) {
			fresh = append(fresh, v)
		}
	}
	return fresh
}
