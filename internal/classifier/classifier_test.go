package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynastyRank(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"先秦", 1},
		{"秦", 1},
		{"汉", 2},
		{"两汉", 2},
		{"魏晋", 3},
		{"南北朝", 4},
		{"隋", 5},
		{"唐", 6},
		{"五代", 6},
		{"宋", 7},
		{"金", 8},
		{"元", 8},
		{"明", 9},
		{"清", 10},
		{"近现代", UnknownDynastyRank},
		{"", UnknownDynastyRank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DynastyRank(tt.name))
		})
	}
}

func TestGetDynastyInfo(t *testing.T) {
	assert.Equal(t, DynastyInfo{Name: "唐", NameEn: "Tang", Rank: 6}, GetDynastyInfo("唐"))
	assert.Equal(t, DynastyInfo{Name: "民国", NameEn: "Other", Rank: UnknownDynastyRank}, GetDynastyInfo("民国"))
}

func TestSortDynasties(t *testing.T) {
	names := []string{"宋", "未知", "唐", "五代", "先秦", "其他", "清"}
	SortDynasties(names, func(s string) string { return s })

	// equal ranks fall back to name order: 五代 (U+4E94) < 唐 (U+5510), 其他 < 未知
	assert.Equal(t, []string{"先秦", "五代", "唐", "宋", "清", "其他", "未知"}, names)
}

func FuzzDynastyRank(f *testing.F) {
	f.Add("唐")
	f.Add("")
	f.Add("不存在")

	f.Fuzz(func(t *testing.T, name string) {
		r := DynastyRank(name)
		if r < 1 || r > UnknownDynastyRank {
			t.Errorf("DynastyRank(%q) = %d out of range", name, r)
		}
	})
}

func TestLinePinyin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain line", "床前明月光", []string{"chuáng", "qián", "míng", "yuè", "guāng"}},
		{"punctuation kept", "春眠，", []string{"chūn", "mián", "，"}},
		{"space keeps its position", "李 白", []string{"lǐ", " ", "bái"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinePinyin(tt.input))
		})
	}
}

func TestPoemPinyin(t *testing.T) {
	got := PoemPinyin([]string{"床前明月光", "疑是地上霜"})
	assert.Len(t, got, 2)
	for i, line := range []string{"床前明月光", "疑是地上霜"} {
		assert.Len(t, got[i], len([]rune(line)), "one syllable per character")
	}
	assert.Equal(t, [][]string{}, PoemPinyin([]string{}))

	// paragraphs keep single inner spaces after normalization
	line := NormalizeText("春风  又绿 江南岸")
	syllables := LinePinyin(line)
	require.Len(t, syllables, len([]rune(line)))
	for i, r := range []rune(line) {
		if r == ' ' {
			assert.Equal(t, " ", syllables[i], "position %d", i)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "静夜思", NormalizeText("  静夜思\n"))
	assert.Equal(t, "a b", NormalizeText("a   b"))
	assert.Equal(t, []string{"床前明月光", "疑是地上霜"}, NormalizeTextArray([]string{" 床前明月光", "", "  ", "疑是地上霜 "}))
	assert.Equal(t, "无题", NormalizeOrDefault("  ", "无题"))
	assert.Equal(t, "锦瑟", NormalizeOrDefault(" 锦瑟 ", "无题"))
}
