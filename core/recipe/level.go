package recipe

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var levelPattern = regexp.MustCompile(`^(\D+)(\d+)$`)

// ParseLevel splits a level label such as "专业120" into its non-digit
// prefix and trailing number. Labels that do not match come back whole
// with a number of 0.
func ParseLevel(label string) (prefix string, num int) {
	label = strings.TrimSpace(label)
	m := levelPattern.FindStringSubmatch(label)
	if m == nil {
		return label, 0
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return label, 0
	}
	return m[1], n
}

// levelGroupRank orders beginner tiers before expert tiers
func levelGroupRank(level string) int {
	switch {
	case strings.HasPrefix(level, "入门"):
		return 0
	case strings.HasPrefix(level, "专业"):
		return 1
	default:
		return 2
	}
}

// SortForDisplay orders recipes the way product pickers list them:
// profession, then level group, then level number, then level label.
// The input slice is left untouched.
func SortForDisplay(recipes []*Recipe) []*Recipe {
	sorted := make([]*Recipe, len(recipes))
	copy(sorted, recipes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Profession != b.Profession {
			return a.Profession < b.Profession
		}
		if ra, rb := levelGroupRank(a.Level), levelGroupRank(b.Level); ra != rb {
			return ra < rb
		}
		if a.LevelNum != b.LevelNum {
			return a.LevelNum < b.LevelNum
		}
		return a.Level < b.Level
	})
	return sorted
}
