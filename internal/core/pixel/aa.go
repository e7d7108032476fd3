package pixel

// Anti-aliasing detection. A pixel is treated as anti-aliased when among
// its neighbors it sits between a darkest and a lightest extreme and one
// of those extremes belongs to a flat color run in both images. Such
// pixels come from font and edge smoothing rather than layout changes.

// antialiased reports whether the pixel at (x1,y1) in img looks like an
// anti-aliasing artifact when checked against img2
func antialiased(img []uint8, x1, y1, w, h int, img2 []uint8) bool {
	x0 := maxInt(x1-1, 0)
	y0 := maxInt(y1-1, 0)
	x2 := minInt(x1+1, w-1)
	y2 := minInt(y1+1, h-1)
	pos := (y1*w + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	var minDelta, maxDelta float64
	var minX, minY, maxX, maxY int

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}

			delta := colorDelta(img, img, pos, (y*w+x)*4, true)
			switch {
			case delta == 0:
				zeroes++
				// more than two equal siblings means flat area, not AA
				if zeroes > 2 {
					return false
				}
			case delta < minDelta:
				minDelta = delta
				minX, minY = x, y
			case delta > maxDelta:
				maxDelta = delta
				maxX, maxY = x, y
			}
		}
	}

	// no darker or no lighter neighbor means not an AA gradient
	if minDelta == 0 || maxDelta == 0 {
		return false
	}

	// either extreme must sit in a flat run in both images
	return (hasManySiblings(img, minX, minY, w, h) && hasManySiblings(img2, minX, minY, w, h)) ||
		(hasManySiblings(img, maxX, maxY, w, h) && hasManySiblings(img2, maxX, maxY, w, h))
}

// hasManySiblings reports whether the pixel at (x1,y1) has more than two
// identical neighbors
func hasManySiblings(img []uint8, x1, y1, w, h int) bool {
	x0 := maxInt(x1-1, 0)
	y0 := maxInt(y1-1, 0)
	x2 := minInt(x1+1, w-1)
	y2 := minInt(y1+1, h-1)
	pos := (y1*w + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}
			pos2 := (y*w + x) * 4
			if img[pos] == img[pos2] && img[pos+1] == img[pos2+1] &&
				img[pos+2] == img[pos2+2] && img[pos+3] == img[pos2+3] {
				zeroes++
			}
			if zeroes > 2 {
				return true
			}
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
