package jsongen

import (
	"fmt"
	"strings"
)

// Reference 是变量在模板中的一次出现。
//
// [Start, End) 是原始模板中的字节区间，覆盖 '$'、标识符、
// 声明表达式（仅声明处）以及修饰符链。
type Reference struct {
	Start     int
	End       int
	Modifiers []Modifier
}

// Variable 是一个已声明的变量。References[0] 为声明处。
type Variable struct {
	Name        string
	Enumeration []int64
	References  []Reference
}

// Declaration 返回引入该变量的声明处引用。
func (v *Variable) Declaration() Reference {
	return v.References[0]
}

// site 指向一次出现：所属变量下标与其 References 下标。
type site struct {
	variable  int
	reference int
}

// cardinality 是建表过程中的局部累加器：首个非空枚举确定 N，之后的声明必须一致。
type cardinality struct {
	n     int
	fixed bool
}

func (c *cardinality) admit(name string, pos, length int) error {
	if length == 0 {
		detail := "enumeration is empty"
		if c.fixed {
			detail += fmt.Sprintf(", expected %d values", c.n)
		}
		return newError(KindCardinalityMismatch, name, pos, detail)
	}
	if !c.fixed {
		c.n, c.fixed = length, true
		return nil
	}
	if length != c.n {
		return newError(KindCardinalityMismatch, name, pos,
			fmt.Sprintf("enumeration has %d values, expected %d", length, c.n))
	}

	return nil
}

// Template 是解析后的模板：原始文本与变量表。
//
// Template 创建后只读，可被多个 goroutine 同时渲染。
type Template struct {
	text      string
	variables []*Variable
	index     map[string]int
	sites     []site
	count     int
}

// Parse 自左向右扫描模板并建立变量表。
//
// 同名变量只能声明一次；裸引用必须出现在声明之后。
// 所有变量的枚举长度必须一致，该长度即生成文档数 N；没有声明时 N 为 1。
func Parse(text string) (*Template, error) {
	t := &Template{text: text, index: make(map[string]int)}

	var card cardinality
	cursor := 0
	for _, marker := range scanMarkers(text) {
		// 已被前一个引用（声明表达式或修饰符参数）覆盖
		if marker < cursor {
			continue
		}

		identEnd := scanIdentifier(text, marker)
		if identEnd == marker+1 {
			continue
		}
		name := text[marker+1 : identEnd]

		ref := Reference{Start: marker, End: identEnd}
		var varIdx int
		if identEnd < len(text) && text[identEnd] == '(' {
			if _, dup := t.index[name]; dup {
				return nil, newError(KindDuplicateDeclaration, name, marker, "variable already declared")
			}

			values, end, err := parseDeclaration(text, name, marker, identEnd)
			if err != nil {
				return nil, err
			}
			if err := card.admit(name, marker, len(values)); err != nil {
				return nil, err
			}

			varIdx = len(t.variables)
			t.index[name] = varIdx
			t.variables = append(t.variables, &Variable{Name: name, Enumeration: values})
			ref.End = end
		} else {
			idx, ok := t.index[name]
			if !ok {
				return nil, newError(KindUndeclaredVariable, name, marker, "referenced before declaration")
			}
			varIdx = idx
		}

		mods, end, err := parseModifiers(text, ref.End)
		if err != nil {
			return nil, err
		}
		ref.Modifiers = mods
		ref.End = end

		v := t.variables[varIdx]
		v.References = append(v.References, ref)
		t.sites = append(t.sites, site{variable: varIdx, reference: len(v.References) - 1})
		cursor = ref.End
	}

	t.count = 1
	if card.fixed {
		t.count = card.n
	}

	return t, nil
}

// parseDeclaration 解析 open 处 '(' 到第一个 ')' 之间的表达式，返回取值与 ')' 之后的位置。
func parseDeclaration(text, name string, marker, open int) ([]int64, int, error) {
	closeAt := strings.IndexByte(text[open+1:], ')')
	if closeAt < 0 {
		return nil, 0, newError(KindMalformedEnumeration, name, marker, "missing ')'")
	}
	closeAt += open + 1

	expr := text[open+1 : closeAt]
	values, err := parseEnumeration(expr)
	if err != nil {
		return nil, 0, &Error{
			Kind:  KindMalformedEnumeration,
			Name:  name,
			Pos:   marker,
			Index: -1,
			Text:  expr,
			Err:   err,
		}
	}

	return values, closeAt + 1, nil
}

// Text 返回原始模板文本。
func (t *Template) Text() string { return t.text }

// Count 返回生成文档数 N。
func (t *Template) Count() int { return t.count }

// Variables 返回变量表的副本，按声明顺序排列。
func (t *Template) Variables() []Variable {
	out := make([]Variable, len(t.variables))
	for i, v := range t.variables {
		out[i] = v.clone()
	}

	return out
}

// Lookup 按名称查找变量。
func (t *Template) Lookup(name string) (Variable, bool) {
	idx, ok := t.index[name]
	if !ok {
		return Variable{}, false
	}

	return t.variables[idx].clone(), true
}

func (v *Variable) clone() Variable {
	refs := make([]Reference, len(v.References))
	for i, r := range v.References {
		r.Modifiers = append([]Modifier(nil), r.Modifiers...)
		refs[i] = r
	}

	return Variable{
		Name:        v.Name,
		Enumeration: append([]int64(nil), v.Enumeration...),
		References:  refs,
	}
}
