package emoji

// Codepoint ranges considered emoji. Static lookup data, kept apart from the
// aggregation logic that consumes it. Ranges are inclusive and sorted by Lo
// so membership can binary search.
type codeRange struct {
	Lo, Hi rune
}

var ranges = []codeRange{
	{0x203C, 0x203C}, // double exclamation
	{0x2049, 0x2049}, // exclamation question
	{0x2122, 0x2122}, // trade mark
	{0x2139, 0x2139}, // information
	{0x2194, 0x2199}, // arrows
	{0x21A9, 0x21AA}, // hooked arrows
	{0x231A, 0x231B}, // watch, hourglass
	{0x2328, 0x2328}, // keyboard
	{0x23CF, 0x23CF}, // eject
	{0x23E9, 0x23F3}, // media controls
	{0x23F8, 0x23FA}, // pause, stop, record
	{0x24C2, 0x24C2}, // circled M
	{0x25AA, 0x25AB}, // small squares
	{0x25B6, 0x25B6}, // play
	{0x25C0, 0x25C0}, // reverse
	{0x25FB, 0x25FE}, // medium squares
	{0x2600, 0x27BF}, // misc symbols, dingbats
	{0x2934, 0x2935}, // curved arrows
	{0x2B05, 0x2B07}, // heavy arrows
	{0x2B1B, 0x2B1C}, // large squares
	{0x2B50, 0x2B50}, // star
	{0x2B55, 0x2B55}, // heavy circle
	{0x3030, 0x3030}, // wavy dash
	{0x303D, 0x303D}, // part alternation mark
	{0x3297, 0x3297}, // congratulations
	{0x3299, 0x3299}, // secret
	{0x1F004, 0x1F004}, // mahjong red dragon
	{0x1F0CF, 0x1F0CF}, // joker
	{0x1F170, 0x1F251}, // enclosed alphanumerics
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport
	{0x1F700, 0x1F77F}, // alchemical
	{0x1F780, 0x1F7FF}, // geometric extended
	{0x1F800, 0x1F8FF}, // supplemental arrows
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA00, 0x1FA6F}, // chess, extended-A
	{0x1FA70, 0x1FAFF}, // extended-A pictographs
}
