package inventory

// Size is a creature, vehicle, or object size category.
type Size string

const (
	SizeFine       Size = "fine"
	SizeDiminutive Size = "diminutive"
	SizeTiny       Size = "tiny"
	SizeSmall      Size = "small"
	SizeMedium     Size = "medium"
	SizeLarge      Size = "large"
	SizeHuge       Size = "huge"
	SizeGargantuan Size = "gargantuan"
	SizeColossal   Size = "colossal"
	SizeFrigate    Size = "colossal (frigate)"
	SizeCruiser    Size = "colossal (cruiser)"
	SizeStation    Size = "colossal (station)"
)

// sizeOrder lists sizes from smallest to largest.
var sizeOrder = []Size{
	SizeFine, SizeDiminutive, SizeTiny, SizeSmall, SizeMedium,
	SizeLarge, SizeHuge, SizeGargantuan, SizeColossal,
	SizeFrigate, SizeCruiser, SizeStation,
}

// Valid reports whether s is a known size category.
func (s Size) Valid() bool {
	return s.index() >= 0
}

func (s Size) index() int {
	for i, v := range sizeOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Larger returns the next size category up and true, or (s, false) when s is
// unknown or already the largest object size. Object size increases stop at colossal.
func (s Size) Larger() (Size, bool) {
	i := s.index()
	if i < 0 || s == SizeColossal || i >= len(sizeOrder)-1 || i > SizeColossal.index() {
		return s, false
	}
	return sizeOrder[i+1], true
}
