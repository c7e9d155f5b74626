package jsongen

import "strings"

// sigil 是占位符的起始字符。
const sigil = '$'

// isIdentChar 判断字符是否属于标识符字符集（大小写字母、数字、下划线）。
func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// scanMarkers 返回模板中每个 '$' 的字节位置，按出现顺序排列。
func scanMarkers(text string) []int {
	var positions []int
	for i := 0; ; {
		k := strings.IndexByte(text[i:], sigil)
		if k < 0 {
			return positions
		}
		positions = append(positions, i+k)
		i += k + 1
	}
}

// scanIdentifier 从 marker 之后向右扩展标识符，返回标识符结束位置（不含）。
//
// 返回值等于 marker+1 时表示 '$' 后没有标识符。
func scanIdentifier(text string, marker int) int {
	end := marker + 1
	for end < len(text) && isIdentChar(text[end]) {
		end++
	}

	return end
}
