package loader

// Source is one collection inside a chinese-poetry checkout: the JSON files
// in Dir matching Pattern, all attributed to Dynasty.
type Source struct {
	Name    string
	Dir     string
	Pattern string
	Dynasty string
}

// DefaultSources is the chinese-poetry layout, in import order.
func DefaultSources() []Source {
	return []Source{
		{Name: "全唐诗", Dir: "全唐诗", Pattern: "poet.tang.*.json", Dynasty: "唐"},
		{Name: "全宋诗", Dir: "全宋诗", Pattern: "poet.song.*.json", Dynasty: "宋"},
		{Name: "宋词", Dir: "宋词", Pattern: "ci.song.*.json", Dynasty: "宋"},
		{Name: "元曲", Dir: "元曲", Pattern: "*.json", Dynasty: "元"},
		{Name: "诗经", Dir: "诗经", Pattern: "shijing.json", Dynasty: "先秦"},
	}
}
