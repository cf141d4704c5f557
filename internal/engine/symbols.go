package engine

// ToFullwidth returns the fullwidth form of a printable ASCII rune.
func ToFullwidth(r rune) rune {
	switch {
	case r == ' ':
		return '　'
	case r > ' ' && r <= '~':
		return r + 0xfee0
	}
	return r
}

// chinesePunct maps keys typed in Chinese mode to CJK punctuation. The
// unshifted entries only apply to layouts that leave those keys free.
var chinesePunct = map[rune]string{
	'<': "，", '>': "。", '?': "？", ':': "：", '!': "！", '"': "；",
	'[': "「", ']': "」", '{': "『", '}': "』", '(': "（", ')': "）",
	'~': "～", '_': "——", '^': "……", '\\': "、", '|': "｜",
	',': "，", '.': "。", ';': "；", '\'': "、", '/': "／",
}

// symbolTable is the list offered by the symbol key.
var symbolTable = []string{
	"，", "、", "。", "．", "‧", "；", "：", "？", "！", "…", "‥", "﹐",
	"（", "）", "｛", "｝", "〔", "〕", "【", "】", "《", "》", "〈", "〉",
	"「", "」", "『", "』", "‘", "’", "“", "”", "〝", "〞", "＃", "＆",
	"＊", "※", "§", "〃", "○", "●", "△", "▲", "◎", "☆", "★", "◇",
	"◆", "□", "■", "▽", "▼", "㊣", "℅", "＋", "－", "×", "÷", "±",
	"√", "＜", "＞", "＝", "≦", "≧", "≠", "∞", "≒", "≡", "～", "∩",
	"∪", "⊥", "∠", "∵", "∴", "♀", "♂", "⊕", "⊙", "↑", "↓", "←",
	"→", "↖", "↗", "↙", "↘", "＄", "￥", "〒", "￠", "￡", "％", "＠",
	"℃", "℉", "°",
}

// SymbolKey opens the symbol table when typed in Chinese mode.
const SymbolKey = '`'
