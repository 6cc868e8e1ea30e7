package estimator

import "math"

// estimateDOCPages uses file size only; the binary format is not parsed.
// Larger files tend to carry more embedded objects per page.
func estimateDOCPages(size int) int {
	sizeKB := float64(size) / 1024

	var ratio float64
	switch {
	case sizeKB < 50:
		ratio = 1.0 / 30
	case sizeKB < 200:
		ratio = 1.0 / 50
	default:
		ratio = 1.0 / 75
	}

	return max(1, int(math.Floor(sizeKB*ratio)))
}
