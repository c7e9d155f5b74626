package jsongen_test

import (
	"errors"
	"fmt"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/jsongen"
)

// frames 提取每个文档 plugin_args 下的 frame_start/frame_end。
func frames(t *testing.T, docs []any) [][2]float64 {
	t.Helper()

	out := make([][2]float64, 0, len(docs))
	for _, doc := range docs {
		root, ok := doc.(map[string]any)
		require.True(t, ok, "document should be an object")
		tasks, ok := root["tasks"].([]any)
		require.True(t, ok, "tasks should be an array")
		task, ok := tasks[0].(map[string]any)
		require.True(t, ok)
		args, ok := task["plugin_args"].(map[string]any)
		require.True(t, ok)
		out = append(out, [2]float64{args["frame_start"].(float64), args["frame_end"].(float64)})
	}

	return out
}

func taskTemplate(declaration string) string {
	return `{
  "name": "test_job",
  "tasks": [
    {
      "name": "task1",
      "plugin_args": {
        "frame_start": $current_frame(` + declaration + `),
        "frame_end" : $current_frame
      }
    }
  ]
}`
}

func TestExpand_NoVariables(t *testing.T) {
	template := `{
  "name": "test_data",
  "tasks": [{"name": "task1", "priority": 0, "plugin_args": {"frame_start": 1, "frame_end": 1}}]
}`

	var want any
	require.NoError(t, json.Unmarshal([]byte(template), &want))

	docs, err := jsongen.Expand(template)
	require.NoError(t, err)
	assert.Equal(t, []any{want}, docs)
}

func TestExpand_ListOperator(t *testing.T) {
	docs, err := jsongen.Expand(taskTemplate("[0,2,5,6]"))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0, 0}, {2, 2}, {5, 5}, {6, 6}}, frames(t, docs))
}

func TestExpand_RangeOperator(t *testing.T) {
	tests := []struct {
		name        string
		declaration string
		want        []float64
	}{
		{name: "shorthand", declaration: "<2>", want: []float64{0, 1, 2}},
		{name: "shorthand four", declaration: "<3>", want: []float64{0, 1, 2, 3}},
		{name: "custom range", declaration: "<9-11>", want: []float64{9, 10, 11}},
		{name: "step inside shorthand", declaration: "<4{2}>", want: []float64{0, 2, 4}},
		{name: "step inside range", declaration: "<2-6{2}>", want: []float64{2, 4, 6}},
		{name: "step after range", declaration: "<2-6>{2}", want: []float64{2, 4, 6}},
		{name: "step stops before end", declaration: "<0-5>{2}", want: []float64{0, 2, 4}},
		{name: "negative start", declaration: "<-1-1>", want: []float64{-1, 0, 1}},
		{name: "single value", declaration: "<5-5>", want: []float64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := jsongen.Expand(taskTemplate(tt.declaration))
			require.NoError(t, err)

			got := frames(t, docs)
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, [2]float64{want, want}, got[i], "index %d", i)
			}
		})
	}
}

func TestExpand_Modifiers(t *testing.T) {
	template := `{
        "param1" : $var1(<2>).to_string(),
        "param2" : $var1,
        "param3" : $var2(<5-7>),
        "param4" : $var2.zfill(3).to_string(),
        "param5" : $var2,
        "param6" : $var2.zfill(3).to_int()
    }`

	want := []any{
		map[string]any{"param1": "0", "param2": float64(0), "param3": float64(5), "param4": "005", "param5": float64(5), "param6": float64(5)},
		map[string]any{"param1": "1", "param2": float64(1), "param3": float64(6), "param4": "006", "param5": float64(6), "param6": float64(6)},
		map[string]any{"param1": "2", "param2": float64(2), "param3": float64(7), "param4": "007", "param5": float64(7), "param6": float64(7)},
	}

	docs, err := jsongen.Expand(template)
	require.NoError(t, err)
	assert.Equal(t, want, docs)
}

func TestExpand_ReferenceInsideString(t *testing.T) {
	docs, err := jsongen.Expand(`{"frame": $f([7,42]), "file": "shot_$f.zfill(4).exr", "label": "$f"}`)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"frame": float64(7), "file": "shot_0007.exr", "label": "7"},
		map[string]any{"frame": float64(42), "file": "shot_0042.exr", "label": "42"},
	}, docs)
}

func TestExpand_ReferenceReuse(t *testing.T) {
	template := `[$a(<10-12>), $a, $b([1,2,3]), $a, $b, $a.to_string(), $b]`

	docs, err := jsongen.Expand(template)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for i, doc := range docs {
		arr := doc.([]any)
		a := float64(10 + i)
		b := float64(1 + i)
		assert.Equal(t, []any{a, a, b, a, b, fmt.Sprint(10 + i), b}, arr, "index %d", i)
	}
}

func TestExpand_LoneSigilIsLiteral(t *testing.T) {
	docs, err := jsongen.Expand(`{"currency": "$", "n": $n(<1>), "tag": "$ n"}`)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, map[string]any{"currency": "$", "n": float64(1), "tag": "$ n"}, docs[1])
}

func TestExpand_ShapePreserved(t *testing.T) {
	template := `{"job": {"id": $id(<100-102>), "deps": [$id, 1], "meta": {"pad": "$id.zfill(6)"}}}`

	docs, err := jsongen.Expand(template)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for _, doc := range docs {
		root := doc.(map[string]any)
		require.Contains(t, root, "job")
		job := root["job"].(map[string]any)
		assert.ElementsMatch(t, []string{"id", "deps", "meta"}, keys(job))
		assert.Len(t, job["deps"], 2)
		assert.ElementsMatch(t, []string{"pad"}, keys(job["meta"].(map[string]any)))
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sentinel error
		kind     jsongen.Kind
		varName  string
	}{
		{
			name:     "undeclared reference",
			template: `{"a": $x}`,
			sentinel: jsongen.ErrUndeclaredVariable,
			kind:     jsongen.KindUndeclaredVariable,
			varName:  "x",
		},
		{
			name:     "reference before declaration",
			template: `{"a": $x, "b": $x(<2>)}`,
			sentinel: jsongen.ErrUndeclaredVariable,
			kind:     jsongen.KindUndeclaredVariable,
			varName:  "x",
		},
		{
			name:     "duplicate declaration",
			template: `{"a": $x(<2>), "b": $x(<2>)}`,
			sentinel: jsongen.ErrDuplicateDeclaration,
			kind:     jsongen.KindDuplicateDeclaration,
			varName:  "x",
		},
		{
			name:     "non integer list element",
			template: `{"a": $x([1,b,3])}`,
			sentinel: jsongen.ErrMalformedEnumeration,
			kind:     jsongen.KindMalformedEnumeration,
			varName:  "x",
		},
		{
			name:     "non integer range bound",
			template: `{"a": $x(<1-z>)}`,
			sentinel: jsongen.ErrMalformedEnumeration,
			kind:     jsongen.KindMalformedEnumeration,
			varName:  "x",
		},
		{
			name:     "unknown expression",
			template: `{"a": $x(1..3)}`,
			sentinel: jsongen.ErrMalformedEnumeration,
			kind:     jsongen.KindMalformedEnumeration,
			varName:  "x",
		},
		{
			name:     "unterminated declaration",
			template: `{"a": $x(<3>`,
			sentinel: jsongen.ErrMalformedEnumeration,
			kind:     jsongen.KindMalformedEnumeration,
			varName:  "x",
		},
		{
			name:     "zero step",
			template: `{"a": $x(<0-3>{0})}`,
			sentinel: jsongen.ErrMalformedEnumeration,
			kind:     jsongen.KindMalformedEnumeration,
			varName:  "x",
		},
		{
			name:     "cardinality mismatch",
			template: `{"a": $x(<2>), "b": $y([1,2])}`,
			sentinel: jsongen.ErrCardinalityMismatch,
			kind:     jsongen.KindCardinalityMismatch,
			varName:  "y",
		},
		{
			name:     "empty range",
			template: `{"a": $x(<5-2>)}`,
			sentinel: jsongen.ErrCardinalityMismatch,
			kind:     jsongen.KindCardinalityMismatch,
			varName:  "x",
		},
		{
			name:     "unknown modifier",
			template: `{"a": $x(<2>).upper()}`,
			sentinel: jsongen.ErrUnknownModifier,
			kind:     jsongen.KindUnknownModifier,
			varName:  "upper",
		},
		{
			name:     "unknown modifier on bare reference",
			template: `{"a": $x(<2>), "b": $x.zfill(2).pad(3)}`,
			sentinel: jsongen.ErrUnknownModifier,
			kind:     jsongen.KindUnknownModifier,
			varName:  "pad",
		},
		{
			name:     "zfill without width",
			template: `{"a": $x(<2>).zfill()}`,
			sentinel: jsongen.ErrMalformedModifier,
			kind:     jsongen.KindMalformedModifier,
			varName:  "zfill",
		},
		{
			name:     "to_string with argument",
			template: `{"a": $x(<2>).to_string(1)}`,
			sentinel: jsongen.ErrMalformedModifier,
			kind:     jsongen.KindMalformedModifier,
			varName:  "to_string",
		},
		{
			name:     "invalid json after substitution",
			template: `{"a": $x(<2>),}`,
			sentinel: jsongen.ErrOutputNotValidJSON,
			kind:     jsongen.KindOutputNotValidJSON,
		},
		{
			name:     "invalid json without variables",
			template: `{"a": }`,
			sentinel: jsongen.ErrOutputNotValidJSON,
			kind:     jsongen.KindOutputNotValidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := jsongen.Expand(tt.template)
			require.Error(t, err)
			assert.Nil(t, docs, "no partial output on error")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, jsongen.KindOf(err))

			var e *jsongen.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.varName, e.Name)
			assert.Contains(t, err.Error(), tt.kind.String())
		})
	}
}

func TestExpand_CardinalityMessage(t *testing.T) {
	_, err := jsongen.Expand(`[$x(<2>), $y(<1>)]`)
	require.ErrorIs(t, err, jsongen.ErrCardinalityMismatch)
	assert.Contains(t, err.Error(), `"y"`)
	assert.Contains(t, err.Error(), "has 2 values, expected 3")
}

func TestExpand_DecodeErrorIndex(t *testing.T) {
	// 第 0 个值合法，第 1 个值被 zfill 成带前导零的数字，不是合法 JSON
	_, err := jsongen.Expand(`{"a": $x([100,7]).zfill(3)}`)
	require.ErrorIs(t, err, jsongen.ErrOutputNotValidJSON)

	var e *jsongen.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, `{"a": 007}`, e.Text)
	assert.Error(t, errors.Unwrap(err))
}

func TestExpand_Workers(t *testing.T) {
	template := `{"i": $i(<0-199>), "s": "$i.zfill(5)", "again": $i}`

	sequential, err := jsongen.Expand(template)
	require.NoError(t, err)

	parallel, err := jsongen.Expand(template, jsongen.WithWorkers(8))
	require.NoError(t, err)

	require.Len(t, parallel, 200)
	assert.Equal(t, sequential, parallel)
	for i, doc := range parallel {
		assert.Equal(t, float64(i), doc.(map[string]any)["i"])
	}
}

func TestExpand_WorkersReportLowestIndexError(t *testing.T) {
	// 索引 0..5 合法，6..8 经 zfill 产生前导零
	template := `{"a": $x([100,101,102,103,104,105,7,8,9]).zfill(3)}`

	for range 5 {
		_, err := jsongen.Expand(template, jsongen.WithWorkers(4))
		require.ErrorIs(t, err, jsongen.ErrOutputNotValidJSON)

		var e *jsongen.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, 6, e.Index)
	}
}

func TestExpand_UseNumber(t *testing.T) {
	docs, err := jsongen.Expand(`{"id": $id([9007199254740993])}`, jsongen.WithUseNumber())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "9007199254740993", fmt.Sprint(docs[0].(map[string]any)["id"]))
}

func TestGenerateRaw_KeepsKeyOrder(t *testing.T) {
	tpl, err := jsongen.Parse(`{"z": $n([1,2]), "a": "$n.zfill(2)"}`)
	require.NoError(t, err)

	docs, err := tpl.GenerateRaw(jsongen.WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"z": 1, "a": "01"}`, string(docs[0]))
	assert.Equal(t, `{"z": 2, "a": "02"}`, string(docs[1]))
}

func TestGenerateRaw_InvalidOutput(t *testing.T) {
	tpl, err := jsongen.Parse(`{"a": $n([1,2]).zfill(2)}`)
	require.NoError(t, err)

	_, err = tpl.GenerateRaw()
	require.ErrorIs(t, err, jsongen.ErrOutputNotValidJSON)

	var e *jsongen.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 0, e.Index)
	assert.Equal(t, `{"a": 01}`, e.Text)
}
