package utils

// BuildTag ORs collision category bits into a Box2D filter mask.
func BuildTag(groups ...uint16) uint16 {
	var tag uint16
	for _, group := range groups {
		tag |= group
	}

	return tag
}
