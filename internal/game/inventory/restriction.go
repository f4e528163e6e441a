package inventory

// Restriction is an item's legal availability level.
type Restriction string

const (
	RestrictionCommon     Restriction = "common"
	RestrictionLicensed   Restriction = "licensed"
	RestrictionRestricted Restriction = "restricted"
	RestrictionMilitary   Restriction = "military"
	RestrictionIllegal    Restriction = "illegal"
)

// restrictionRank orders restrictions from least to most restrictive.
var restrictionRank = map[Restriction]int{
	RestrictionCommon:     0,
	RestrictionLicensed:   1,
	RestrictionRestricted: 2,
	RestrictionMilitary:   3,
	RestrictionIllegal:    4,
}

// Valid reports whether r is one of the five known restriction levels.
func (r Restriction) Valid() bool {
	_, ok := restrictionRank[r]
	return ok
}

// Rank returns r's position in the order common < licensed < restricted <
// military < illegal. Unknown and empty values rank as common.
func (r Restriction) Rank() int {
	return restrictionRank[r]
}

// MoreRestrictive returns whichever of a and b ranks higher; ties return a.
func MoreRestrictive(a, b Restriction) Restriction {
	if b.Rank() > a.Rank() {
		return b
	}
	if a == "" {
		return RestrictionCommon
	}
	return a
}
