package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTone(t *testing.T) {
	tests := []struct {
		in       string
		wantTone Tone
		wantBase string
	}{
		{"zhōng", Tone1, "zhong"},
		{"hǎo", Tone3, "hao"},
		{"lǜ", Tone4, "lü"},
		{"de", Tone5, "de"},
		{"nv3", Tone5, "nü3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tone, base := SplitTone(tt.in)
			assert.Equal(t, tt.wantTone, tone)
			assert.Equal(t, tt.wantBase, base)
		})
	}
}

func TestParseNumbered(t *testing.T) {
	base, tone := ParseNumbered("zhong1")
	assert.Equal(t, "zhong", base)
	assert.Equal(t, Tone1, tone)

	base, tone = ParseNumbered("lv4")
	assert.Equal(t, "lü", base)
	assert.Equal(t, Tone4, tone)

	base, tone = ParseNumbered("ma")
	assert.Equal(t, "ma", base)
	assert.Equal(t, ToneUnknown, tone)

	assert.Equal(t, "hao3", Numbered("hao", Tone3))
}

func TestZhuyinToPinyin(t *testing.T) {
	tests := []struct {
		name string
		z    ZhuyinSyllable
		want string
	}{
		{"zhong", ZhuyinSyllable{Initial: 'ㄓ', Medial: 'ㄨ', Final: 'ㄥ'}, "zhong"},
		{"weng", ZhuyinSyllable{Medial: 'ㄨ', Final: 'ㄥ'}, "weng"},
		{"liu", ZhuyinSyllable{Initial: 'ㄌ', Medial: 'ㄧ', Final: 'ㄡ'}, "liu"},
		{"you", ZhuyinSyllable{Medial: 'ㄧ', Final: 'ㄡ'}, "you"},
		{"gui", ZhuyinSyllable{Initial: 'ㄍ', Medial: 'ㄨ', Final: 'ㄟ'}, "gui"},
		{"dun", ZhuyinSyllable{Initial: 'ㄉ', Medial: 'ㄨ', Final: 'ㄣ'}, "dun"},
		{"ju", ZhuyinSyllable{Initial: 'ㄐ', Medial: 'ㄩ'}, "ju"},
		{"xue", ZhuyinSyllable{Initial: 'ㄒ', Medial: 'ㄩ', Final: 'ㄝ'}, "xue"},
		{"nü", ZhuyinSyllable{Initial: 'ㄋ', Medial: 'ㄩ'}, "nü"},
		{"yong", ZhuyinSyllable{Medial: 'ㄩ', Final: 'ㄥ'}, "yong"},
		{"zhi", ZhuyinSyllable{Initial: 'ㄓ'}, "zhi"},
		{"bo", ZhuyinSyllable{Initial: 'ㄅ', Final: 'ㄛ'}, "bo"},
		{"er", ZhuyinSyllable{Final: 'ㄦ'}, "er"},
		{"lone b", ZhuyinSyllable{Initial: 'ㄅ'}, ""},
		{"ja", ZhuyinSyllable{Initial: 'ㄐ', Final: 'ㄚ'}, ""},
		{"empty", ZhuyinSyllable{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.z.Pinyin())
		})
	}
}

func TestToZhuyin(t *testing.T) {
	assert.Equal(t, "ㄓㄨㄥ", ToZhuyin("zhong", Tone1))
	assert.Equal(t, "ㄏㄠˇ", ToZhuyin("hao", Tone3))
	assert.Equal(t, "ㄐㄩㄝˊ", ToZhuyin("jue", Tone2))
	assert.Equal(t, "ㄉㄜ˙", ToZhuyin("de", Tone5))
	assert.Equal(t, "", ToZhuyin("xyz", Tone1))
	assert.True(t, ValidPinyin("shi"))
	assert.False(t, ValidPinyin("sh"))
}

func TestParserParse(t *testing.T) {
	p := NewParser()
	s := p.Parse("zhōng")
	assert.Equal(t, "zh", s.Initial)
	assert.Equal(t, "ong", s.Final)
	assert.Equal(t, "zhong1", s.Numbered())
	assert.Equal(t, "ㄓㄨㄥ", s.Zhuyin())

	readings := p.ParseChar("好")
	assert.NotEmpty(t, readings)
	assert.Equal(t, "hao", readings[0].Base)
}

func TestZhuyinClass(t *testing.T) {
	assert.Equal(t, 1, ZhuyinClass('ㄅ'))
	assert.Equal(t, 2, ZhuyinClass('ㄩ'))
	assert.Equal(t, 3, ZhuyinClass('ㄦ'))
	assert.Equal(t, 0, ZhuyinClass('a'))
}

func TestParseZhuyin(t *testing.T) {
	tests := []struct {
		in     string
		pinyin string
		tone   Tone
		ok     bool
	}{
		{"ㄓㄨㄥ", "zhong", Tone1, true},
		{"ㄏㄠˇ", "hao", Tone3, true},
		{"˙ㄉㄜ", "de", Tone5, true},
		{"ㄓx", "", ToneUnknown, false},
		{"ˇ", "", ToneUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			z, ok := ParseZhuyin(tt.in)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.pinyin, z.Pinyin())
			assert.Equal(t, tt.tone, z.Tone)
		})
	}
}
