package classifier

import (
	"cmp"
	"slices"
)

// UnknownDynastyRank is given to any label missing from the table.
const UnknownDynastyRank = 11

// DynastyInfo contains information about a dynasty label
type DynastyInfo struct {
	Name   string
	NameEn string
	Rank   int
}

// dynasties maps every known label to its chronological rank. Several labels
// share a rank (秦 with 先秦, 两汉 with 汉, 五代 with 唐, 金 with 元).
var dynasties = map[string]DynastyInfo{
	"先秦":  {Name: "先秦", NameEn: "Pre-Qin", Rank: 1},
	"秦":   {Name: "秦", NameEn: "Qin", Rank: 1},
	"汉":   {Name: "汉", NameEn: "Han", Rank: 2},
	"两汉":  {Name: "两汉", NameEn: "Han", Rank: 2},
	"魏晋":  {Name: "魏晋", NameEn: "Wei-Jin", Rank: 3},
	"南北朝": {Name: "南北朝", NameEn: "Northern and Southern", Rank: 4},
	"隋":   {Name: "隋", NameEn: "Sui", Rank: 5},
	"唐":   {Name: "唐", NameEn: "Tang", Rank: 6},
	"五代":  {Name: "五代", NameEn: "Five Dynasties", Rank: 6},
	"宋":   {Name: "宋", NameEn: "Song", Rank: 7},
	"金":   {Name: "金", NameEn: "Jin", Rank: 8},
	"元":   {Name: "元", NameEn: "Yuan", Rank: 8},
	"明":   {Name: "明", NameEn: "Ming", Rank: 9},
	"清":   {Name: "清", NameEn: "Qing", Rank: 10},
}

// GetDynastyInfo returns information about a dynasty by name. Unknown
// labels keep their name and get UnknownDynastyRank.
func GetDynastyInfo(name string) DynastyInfo {
	if info, ok := dynasties[name]; ok {
		return info
	}
	return DynastyInfo{Name: name, NameEn: "Other", Rank: UnknownDynastyRank}
}

// DynastyRank returns the display rank of a dynasty label.
func DynastyRank(name string) int {
	return GetDynastyInfo(name).Rank
}

// SortDynasties orders items by dynasty rank, breaking ties by name.
func SortDynasties[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(x, y T) int {
		a, b := name(x), name(y)
		return cmp.Or(
			cmp.Compare(DynastyRank(a), DynastyRank(b)),
			cmp.Compare(a, b),
		)
	})
}
