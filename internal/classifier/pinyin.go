package classifier

import "github.com/mozillazg/go-pinyin"

var pinyinArgs = pinyin.NewArgs()

func init() {
	pinyinArgs.Style = pinyin.Tone
	pinyinArgs.Heteronym = false
	// characters without a reading (punctuation, latin, spaces) pass through
	// so the syllables stay aligned with the characters of the line
	pinyinArgs.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
}

// LinePinyin returns one tone-marked syllable per character of line, so
// syllable i always belongs to rune i.
func LinePinyin(line string) []string {
	syllables := make([]string, 0, len([]rune(line)))
	for _, item := range pinyin.Pinyin(line, pinyinArgs) {
		if len(item) > 0 {
			syllables = append(syllables, item[0])
		}
	}
	return syllables
}

// PoemPinyin converts every paragraph of a poem with LinePinyin.
func PoemPinyin(paragraphs []string) [][]string {
	lines := make([][]string, len(paragraphs))
	for i, p := range paragraphs {
		lines[i] = LinePinyin(p)
	}
	return lines
}
