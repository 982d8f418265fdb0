package wallet

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MaxTypoDistance is the largest edit distance that still yields a name
// suggestion.
const MaxTypoDistance = 2

// Suggest returns the name in names closest to input, compared case
// insensitively, or "" when none is within MaxTypoDistance.
func Suggest(input string, names []string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string
	for _, name := range names {
		dist := levenshtein.ComputeDistance(input, strings.ToLower(name))
		if dist == 0 {
			return name
		}
		if dist < minDist {
			minDist = dist
			suggestion = name
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}
