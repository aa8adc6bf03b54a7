// Package salary extracts numeric salary bounds from free-form phrases such
// as "$150k - $200k" or "$120,000".
package salary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRun = regexp.MustCompile(`\d+`)
	// groupSep matches a thousands separator between digit groups: "120,000".
	groupSep = regexp.MustCompile(`(\d),(\d{3})\b`)
)

// thousands expands the k/K abbreviation. It runs before digit scanning so
// that "150k" reads as 150000.
var thousands = strings.NewReplacer("k", "000", "K", "000")

// Parse returns the salary range found in phrase.
//
// With two or more numbers the first two are returned as (min, max) in the
// order they appear; no swap is made when min > max. A single number sets
// both bounds. No number yields (nil, nil).
func Parse(phrase string) (min, max *int) {
	runs := digitRun.FindAllString(joinGroups(thousands.Replace(phrase)), -1)

	nums := make([]int, 0, 2)
	for _, r := range runs {
		n, err := strconv.Atoi(r)
		if err != nil {
			// out of int range; not a salary
			continue
		}
		nums = append(nums, n)
		if len(nums) == 2 {
			break
		}
	}

	switch len(nums) {
	case 0:
		return nil, nil
	case 1:
		lo, hi := nums[0], nums[0]
		return &lo, &hi
	default:
		lo, hi := nums[0], nums[1]
		return &lo, &hi
	}
}

// joinGroups drops grouping commas so "1,250,000" scans as one run.
// Separators overlap ("1,250,000"), hence the loop.
func joinGroups(s string) string {
	for {
		next := groupSep.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

// MetadataItem is one entry of an ATS custom-field list. Value is left
// untyped because boards store strings, numbers or objects there.
type MetadataItem struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FromMetadata parses the first item whose name mentions "salary".
func FromMetadata(items []MetadataItem) (min, max *int) {
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Name), "salary") {
			continue
		}
		return Parse(valueString(item.Value))
	}
	return nil, nil
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
