package jsongen

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ModifierKind 是修饰符的种类。
type ModifierKind int

const (
	// ZeroPad 对应 .zfill(width)。
	ZeroPad ModifierKind = iota + 1
	// Stringify 对应 .to_string()。
	Stringify
	// ParseInt 对应 .to_int()。
	ParseInt
)

var modifierKinds = map[string]ModifierKind{
	"zfill":     ZeroPad,
	"to_string": Stringify,
	"to_int":    ParseInt,
}

func (k ModifierKind) String() string {
	switch k {
	case ZeroPad:
		return "zfill"
	case Stringify:
		return "to_string"
	case ParseInt:
		return "to_int"
	}

	return fmt.Sprintf("ModifierKind(%d)", int(k))
}

// Modifier 是引用后链式调用的一个修饰符。
type Modifier struct {
	Kind  ModifierKind
	Args  []string
	width int
}

// String 返回修饰符在模板中的写法，例如 ".zfill(3)"。
func (m Modifier) String() string {
	return "." + m.Kind.String() + "(" + strings.Join(m.Args, ",") + ")"
}

func newModifier(name string, args []string) (Modifier, *Error) {
	kind, ok := modifierKinds[name]
	if !ok {
		return Modifier{}, newError(KindUnknownModifier, name, -1, "")
	}

	mod := Modifier{Kind: kind, Args: args}
	switch kind {
	case ZeroPad:
		if len(args) != 1 {
			return Modifier{}, newError(KindMalformedModifier, name, -1,
				fmt.Sprintf("expects 1 argument, got %d", len(args)))
		}
		width, err := strconv.Atoi(args[0])
		if err != nil || width < 0 {
			return Modifier{}, newError(KindMalformedModifier, name, -1,
				fmt.Sprintf("width must be a non-negative integer, got %q", args[0]))
		}
		mod.width = width
	case Stringify, ParseInt:
		if len(args) != 0 {
			return Modifier{}, newError(KindMalformedModifier, name, -1,
				fmt.Sprintf("expects no arguments, got %d", len(args)))
		}
	}

	return mod, nil
}

// parseModifiers 解析 from 处开始的 ".name(args)" 链。
//
// '.' 之后不是 "标识符(" 时链结束，该 '.' 作为普通文本保留。
// 返回修饰符列表以及链结束的位置。
func parseModifiers(text string, from int) ([]Modifier, int, error) {
	var mods []Modifier

	pos := from
	for pos < len(text) && text[pos] == '.' {
		nameStart := pos + 1
		nameEnd := nameStart
		for nameEnd < len(text) && isIdentChar(text[nameEnd]) {
			nameEnd++
		}
		if nameEnd == nameStart || nameEnd >= len(text) || text[nameEnd] != '(' {
			break
		}

		name := text[nameStart:nameEnd]
		closeAt := strings.IndexByte(text[nameEnd:], ')')
		if closeAt < 0 {
			if _, known := modifierKinds[name]; !known {
				return nil, pos, newError(KindUnknownModifier, name, pos, "")
			}
			return nil, pos, newError(KindMalformedModifier, name, pos, "missing ')'")
		}
		closeAt += nameEnd

		mod, err := newModifier(name, splitArgs(text[nameEnd+1:closeAt]))
		if err != nil {
			err.Pos = pos
			return nil, pos, err
		}
		mods = append(mods, mod)
		pos = closeAt + 1
	}

	return mods, pos, nil
}

func splitArgs(argText string) []string {
	if strings.TrimSpace(argText) == "" {
		return nil
	}

	args := strings.Split(argText, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	return args
}

// token 是修饰符链上传递的值：文本及是否作为 JSON 字符串输出。
type token struct {
	text   string
	quoted bool
}

func (m Modifier) apply(v token) (token, error) {
	switch m.Kind {
	case ZeroPad:
		v.text = zfill(v.text, m.width)
	case Stringify:
		v.quoted = true
	case ParseInt:
		n, err := strconv.ParseInt(strings.Trim(v.text, `"'`), 10, 64)
		if err != nil {
			return v, newError(KindMalformedModifier, m.Kind.String(), -1,
				fmt.Sprintf("cannot convert %q to int", v.text))
		}
		v = token{text: strconv.FormatInt(n, 10)}
	}

	return v, nil
}

func (v token) render() string {
	if !v.quoted {
		return v.text
	}
	b, err := json.Marshal(v.text)
	if err != nil {
		return strconv.Quote(v.text)
	}

	return string(b)
}

// zfill 在数字前补 '0' 至 width 位，保留前导符号。
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}

	pad := strings.Repeat("0", width-len(s))
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[:1] + pad + s[1:]
	}

	return pad + s
}

// format 依次应用引用上的修饰符并返回替换文本。
func (r Reference) format(value int64) (string, error) {
	v := token{text: strconv.FormatInt(value, 10)}
	for _, mod := range r.Modifiers {
		var err error
		if v, err = mod.apply(v); err != nil {
			return "", err
		}
	}

	return v.render(), nil
}
