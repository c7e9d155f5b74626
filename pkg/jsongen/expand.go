package jsongen

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// Expand 解析模板并生成全部 JSON 文档，等价于 Parse 后调用 [Template.Generate]。
//
// 返回的文档顺序与生成序号一致；任何错误都会中止整个调用，不返回部分结果。
func Expand(template string, opts ...Option) ([]any, error) {
	t, err := Parse(template)
	if err != nil {
		return nil, err
	}

	return t.Generate(opts...)
}

// Render 返回第 i 次生成的替换后文本，不做 JSON 解码。
//
// 每次渲染都从原始模板出发。替换按原始起始位置升序进行，
// 未替换部分直接从原始文本拷贝，因此后续区间无需按已替换长度重新定位。
func (t *Template) Render(i int) (string, error) {
	if i < 0 || i >= t.count {
		return "", fmt.Errorf("jsongen: index %d out of range [0, %d)", i, t.count)
	}

	var buf strings.Builder
	buf.Grow(len(t.text))

	cursor := 0
	for _, s := range t.sites {
		v := t.variables[s.variable]
		ref := v.References[s.reference]

		formatted, err := ref.format(v.Enumeration[i])
		if err != nil {
			if e, ok := err.(*Error); ok { //nolint:errorlint // format only returns *Error
				e.Name = v.Name
				e.Pos = ref.Start
				e.Index = i
			}
			return "", err
		}

		buf.WriteString(t.text[cursor:ref.Start])
		buf.WriteString(formatted)
		cursor = ref.End
	}
	buf.WriteString(t.text[cursor:])

	return buf.String(), nil
}

// RenderAll 返回全部 N 次生成的文本。
func (t *Template) RenderAll(opts ...Option) ([]string, error) {
	o := newOptions(opts)

	texts := make([]string, t.count)
	err := t.each(o, func(i int) error {
		text, err := t.Render(i)
		if err != nil {
			return err
		}
		texts[i] = text

		return nil
	})
	if err != nil {
		return nil, err
	}

	return texts, nil
}

// Generate 渲染并解码全部 N 个文档。
//
// 渲染结果不是合法 JSON 时返回 [ErrOutputNotValidJSON]，
// 错误中携带生成序号与渲染文本。
func (t *Template) Generate(opts ...Option) ([]any, error) {
	o := newOptions(opts)

	docs := make([]any, t.count)
	err := t.each(o, func(i int) error {
		text, err := t.Render(i)
		if err != nil {
			return err
		}

		doc, err := decode(text, o.useNumber)
		if err != nil {
			return invalidOutput(i, text, err)
		}
		docs[i] = doc

		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// GenerateRaw 渲染并校验全部 N 个文档，返回未解码的 JSON 文本。
//
// 与 [Template.Generate] 不同，对象 key 保持模板中的书写顺序。
func (t *Template) GenerateRaw(opts ...Option) ([]json.RawMessage, error) {
	o := newOptions(opts)

	docs := make([]json.RawMessage, t.count)
	err := t.each(o, func(i int) error {
		text, err := t.Render(i)
		if err != nil {
			return err
		}

		if !json.Valid([]byte(text)) {
			_, err := decode(text, false)
			return invalidOutput(i, text, err)
		}
		docs[i] = json.RawMessage(text)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func invalidOutput(i int, text string, err error) *Error {
	if err == nil {
		err = errors.New("invalid json")
	}

	return &Error{
		Kind:  KindOutputNotValidJSON,
		Pos:   -1,
		Index: i,
		Text:  text,
		Err:   err,
	}
}

// each 对 [0, N) 的每个序号调用 fn。
//
// workers > 1 时并发执行，每个序号只写自己的槽位；
// 出错时返回序号最小的错误，与顺序执行的结果一致。
func (t *Template) each(o options, fn func(i int) error) error {
	if o.workers <= 1 || t.count == 1 {
		for i := range t.count {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	errs := make([]error, t.count)

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := range t.count {
		g.Go(func() error {
			errs[i] = fn(i)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func decode(text string, useNumber bool) (any, error) {
	var doc any
	if !useNumber {
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, err
		}

		return doc, nil
	}

	// Decoder 只读取第一个值，先整体校验以拒绝尾随内容
	if !json.Valid([]byte(text)) {
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid json")
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	return doc, nil
}
