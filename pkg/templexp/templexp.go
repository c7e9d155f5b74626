package templexp

import (
	"fmt"
	"os"
	"strings"
)

// Lookup 返回变量值以及该变量是否已设置。
type Lookup func(name string) (string, bool)

// MapLookup 把 map 包装为 [Lookup]。
func MapLookup(vars map[string]string) Lookup {
	return func(name string) (string, bool) {
		val, ok := vars[name]
		return val, ok
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 展开状态
// ═══════════════════════════════════════════════════════════════════════════

// expander 保存一次展开的状态。
//
// ":=" 与 "=" 的赋值只写入 assigned，不会回写到 lookup 的数据源。
type expander struct {
	lookup   Lookup
	assigned map[string]string
}

func (e *expander) get(name string) (string, bool) {
	if val, ok := e.assigned[name]; ok {
		return val, true
	}
	if e.lookup == nil {
		return "", false
	}

	return e.lookup(name)
}

// ═══════════════════════════════════════════════════════════════════════════
// Shell Parameter Expansion
// ═══════════════════════════════════════════════════════════════════════════

func isVarNameStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isVarNameChar(ch byte) bool {
	return isVarNameStart(ch) || (ch >= '0' && ch <= '9')
}

// splitParameter 把 "NAME<op>WORD" 拆成三部分，op 为空表示纯变量引用。
func splitParameter(expr string) (name, op, word string, ok bool) {
	if expr == "" || !isVarNameStart(expr[0]) {
		return "", "", "", false
	}

	i := 1
	for i < len(expr) && isVarNameChar(expr[i]) {
		i++
	}
	name, rest := expr[:i], expr[i:]
	if rest == "" {
		return name, "", "", true
	}

	opLen := 1
	if rest[0] == ':' {
		opLen = 2
	}
	if len(rest) < opLen || !strings.ContainsRune("-+?=", rune(rest[opLen-1])) {
		return "", "", "", false
	}

	return name, rest[:opLen], rest[opLen:], true
}

func requiredError(name, word string) error {
	if word == "" {
		return fmt.Errorf("templexp: %s: parameter null or not set", name)
	}

	return fmt.Errorf("templexp: %s: %s", name, word)
}

// evaluate 计算一个 ${...} 表达式。ok 为 false 时表达式无法识别，调用方原样保留。
func (e *expander) evaluate(expr string) (string, bool, error) {
	name, op, word, ok := splitParameter(expr)
	if !ok {
		return "", false, nil
	}

	val, isSet := e.get(name)
	if op == "" {
		return val, true, nil
	}

	// 带冒号的操作符把空值视同未设置
	missing := !isSet || (op[0] == ':' && val == "")

	switch op[len(op)-1] {
	case '-':
		if missing {
			expanded, err := e.expandWord(word)
			return expanded, err == nil, err
		}
		return val, true, nil
	case '=':
		if missing {
			expanded, err := e.expandWord(word)
			if err != nil {
				return "", false, err
			}
			e.assigned[name] = expanded
			return expanded, true, nil
		}
		return val, true, nil
	case '+':
		if missing {
			return "", true, nil
		}
		expanded, err := e.expandWord(word)
		return expanded, err == nil, err
	case '?':
		if missing {
			return "", false, requiredError(name, word)
		}
		return val, true, nil
	}

	return "", false, nil
}

func (e *expander) expandWord(word string) (string, error) {
	if !strings.Contains(word, "${") {
		return word, nil
	}

	return e.expand(word)
}

func (e *expander) expand(text string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' || i+1 >= len(text) {
			buf.WriteByte(ch)
			i++
			continue
		}

		switch text[i+1] {
		case '$':
			buf.WriteByte('$')
			i += 2
			continue
		case '{':
		default:
			// $name 等其它写法不属于本包，原样保留
			buf.WriteByte(ch)
			i++
			continue
		}

		end := findMatchingBrace(text, i+2)
		if end == -1 {
			buf.WriteByte(ch)
			i++
			continue
		}

		expanded, ok, err := e.evaluate(text[i+2 : end])
		if err != nil {
			return "", err
		}
		if ok {
			buf.WriteString(expanded)
		} else {
			buf.WriteString(text[i : end+1])
		}

		i = end + 1
	}

	return buf.String(), nil
}

// findMatchingBrace 返回与 start 之前 "${" 配对的 '}' 位置，支持嵌套。
func findMatchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch {
		case text[i] == '$' && i+1 < len(text) && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return -1
}

// ═══════════════════════════════════════════════════════════════════════════
// 入口
// ═══════════════════════════════════════════════════════════════════════════

// Expand 使用 lookup 提供的变量执行 Shell 参数展开。
//
// lookup 为 nil 时所有变量视为未设置。
func Expand(text string, lookup Lookup) (string, error) {
	e := &expander{lookup: lookup, assigned: make(map[string]string)}
	return e.expand(text)
}

// ExpandTemplate 以当前进程环境变量执行 Shell 参数展开。
//
// 支持语法：
//   - ${VAR} - 变量替换
//   - ${VAR:-default} / ${VAR-default} - fallback
//   - ${VAR:+alt} / ${VAR+alt} - 替代值
//   - ${VAR:?msg} / ${VAR?msg} - 必填校验
//   - ${VAR:=default} / ${VAR=default} - 赋值（仅作用于当前展开）
//
// 返回展开后的字符串；仅在必填校验失败时返回 error。
func ExpandTemplate(text string) (string, error) {
	return Expand(text, os.LookupEnv)
}
