package mask

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labels used by the comb/wood segmentation model.
const (
	Background uint8 = 0
	Wood       uint8 = 1
	Comb       uint8 = 2
)

// Missing marks frame sides without a mask in the contents arrays.
const Missing uint8 = 255

// ContentClasses are the labels of the comb contents model, indexed by value.
func ContentClasses() []string {
	return []string{
		"background", "wood", "comb", "pollen", "nectar", "brood", "eggs",
		"capped-honey", "capped-brood", "queen-cup", "queen-cell", "bees",
	}
}

// CombClasses are the labels of the comb type model.
func CombClasses() []string {
	return []string{"background", "wood", "worker", "drone", "queen", "bee"}
}

// CombinedClasses is the label set of the full annotation export,
// before drone classes were merged into their worker equivalents.
func CombinedClasses() []string {
	return []string{
		"background", "wood", "comb", "pollen", "nectar", "brood", "eggs",
		"capped-honey", "capped-brood", "eggs-drone", "pollen-drone", "comb-drone",
		"queen-cup", "nectar-drone", "capped-brood-drone", "brood-drone", "queen-cell", "bees",
	}
}

// ClassSet returns a named label set.
func ClassSet(name string) ([]string, bool) {
	switch name {
	case "contents", "":
		return ContentClasses(), true
	case "comb":
		return CombClasses(), true
	case "combined":
		return CombinedClasses(), true
	}
	return nil, false
}

// ClassName returns the label name for value, or its number when unknown.
func ClassName(names []string, value uint8) string {
	if int(value) < len(names) {
		return names[value]
	}
	if value == Missing {
		return "missing"
	}
	return strconv.Itoa(int(value))
}

// DisplayName turns "capped-honey" into "Capped Honey".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// ClassID resolves a class name or a numeric label.
func ClassID(names []string, s string) (uint8, bool) {
	for i, n := range names {
		if strings.EqualFold(n, s) && i <= 255 {
			return uint8(i), true
		}
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}
