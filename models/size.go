package models

// sizeThresholds are inclusive upper bounds on bust circumference in cm.
var sizeThresholds = []struct {
	maxBust float64
	size    string
}{
	{80, "XS"},
	{84, "S"},
	{88, "M"},
	{96, "L"},
	{104, "XL"},
	{112, "XXL"},
}

// SuggestSize maps a bust circumference to a garment size label.
// A nil bust yields an empty label.
func SuggestSize(bust *float64) string {
	if bust == nil {
		return ""
	}
	for _, t := range sizeThresholds {
		if *bust <= t.maxBust {
			return t.size
		}
	}
	return "3XL"
}
