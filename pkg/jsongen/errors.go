package jsongen

import (
	"errors"
	"fmt"
)

// Kind 标识展开错误的类别。
type Kind int

const (
	KindUndeclaredVariable Kind = iota + 1
	KindDuplicateDeclaration
	KindMalformedEnumeration
	KindCardinalityMismatch
	KindUnknownModifier
	KindMalformedModifier
	KindOutputNotValidJSON
)

// 每种 Kind 对应的哨兵错误，配合 errors.Is 使用。
var (
	ErrUndeclaredVariable   = errors.New("undeclared variable")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrMalformedEnumeration = errors.New("malformed enumeration")
	ErrCardinalityMismatch  = errors.New("cardinality mismatch")
	ErrUnknownModifier      = errors.New("unknown modifier")
	ErrMalformedModifier    = errors.New("malformed modifier")
	ErrOutputNotValidJSON   = errors.New("output is not valid json")
)

var kindSentinels = map[Kind]error{
	KindUndeclaredVariable:   ErrUndeclaredVariable,
	KindDuplicateDeclaration: ErrDuplicateDeclaration,
	KindMalformedEnumeration: ErrMalformedEnumeration,
	KindCardinalityMismatch:  ErrCardinalityMismatch,
	KindUnknownModifier:      ErrUnknownModifier,
	KindMalformedModifier:    ErrMalformedModifier,
	KindOutputNotValidJSON:   ErrOutputNotValidJSON,
}

// String 返回 Kind 的名称。
func (k Kind) String() string {
	switch k {
	case KindUndeclaredVariable:
		return "UndeclaredVariable"
	case KindDuplicateDeclaration:
		return "DuplicateDeclaration"
	case KindMalformedEnumeration:
		return "MalformedEnumeration"
	case KindCardinalityMismatch:
		return "CardinalityMismatch"
	case KindUnknownModifier:
		return "UnknownModifier"
	case KindMalformedModifier:
		return "MalformedModifier"
	case KindOutputNotValidJSON:
		return "OutputNotValidJSON"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error 是展开过程中产生的全部错误的统一类型。
//
// 字段按错误类别选择性填充：
//   - Name: 相关变量名（或修饰符名）
//   - Pos: 模板中的字节偏移，-1 表示不适用
//   - Index: 生成序号，仅 OutputNotValidJSON 与渲染期错误使用，-1 表示不适用
//   - Text: 出错的原始片段或渲染后的完整文本
type Error struct {
	Kind   Kind
	Name   string
	Pos    int
	Index  int
	Text   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := "jsongen: " + e.Kind.String()
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Pos)
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (index %d)", e.Index)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap 返回底层原因（如 strconv 或 JSON 解码错误）。
func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrXxx) 按类别匹配。
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind Kind, name string, pos int, detail string) *Error {
	return &Error{Kind: kind, Name: name, Pos: pos, Index: -1, Detail: detail}
}

// KindOf 返回 err 链上第一个 *Error 的类别；非展开错误返回 0。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
