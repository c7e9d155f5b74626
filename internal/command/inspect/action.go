package inspect

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/jsongen"
)

// 文本输出中每个变量最多列出的取值个数。
const maxListedValues = 8

// Summary 模板摘要。
type Summary struct {
	Count     int               `json:"count"`
	Variables []VariableSummary `json:"variables"`
}

// VariableSummary 变量摘要，References 的首项为声明处。
type VariableSummary struct {
	Name       string             `json:"name"`
	Values     []int64            `json:"values"`
	References []ReferenceSummary `json:"references"`
}

// ReferenceSummary 一次出现的位置与修饰符。
type ReferenceSummary struct {
	Offset    int      `json:"offset"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Summarize 从解析后的模板提取摘要。
func Summarize(tpl *jsongen.Template) Summary {
	vars := tpl.Variables()
	s := Summary{Count: tpl.Count(), Variables: make([]VariableSummary, 0, len(vars))}

	for _, v := range vars {
		vs := VariableSummary{Name: v.Name, Values: v.Enumeration}
		for _, ref := range v.References {
			rs := ReferenceSummary{Offset: ref.Start}
			for _, m := range ref.Modifiers {
				rs.Modifiers = append(rs.Modifiers, m.String())
			}
			vs.References = append(vs.References, rs)
		}
		s.Variables = append(s.Variables, vs)
	}

	return s
}

func action(_ context.Context, cmd *cli.Command) error {
	content, stem, err := command.ReadInput(cmd)
	if err != nil {
		return err
	}

	tpl, err := jsongen.Parse(content)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(Summarize(tpl), "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)

		return err
	}

	if cmd.Bool("no-color") {
		color.NoColor = true
	}

	return Print(w, stem, Summarize(tpl))
}

// Print 以文本表格输出摘要。
func Print(w io.Writer, stem string, s Summary) error {
	heading := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	var sb strings.Builder
	heading.Fprintf(&sb, "%s", stem)
	fmt.Fprintf(&sb, ": %d document(s), %d variable(s)\n", s.Count, len(s.Variables))

	for _, v := range s.Variables {
		sb.WriteString("  ")
		name.Fprintf(&sb, "$%s", v.Name)
		fmt.Fprintf(&sb, " = %s\n", formatValues(v.Values))

		for i, ref := range v.References {
			label := "ref"
			if i == 0 {
				label = "decl"
			}
			faint.Fprintf(&sb, "    %-4s @%d", label, ref.Offset)
			if len(ref.Modifiers) > 0 {
				sb.WriteString(" " + strings.Join(ref.Modifiers, ""))
			}
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatValues(values []int64) string {
	shown := values
	if len(shown) > maxListedValues {
		shown = shown[:maxListedValues]
	}

	parts := make([]string, len(shown))
	for i, v := range shown {
		parts[i] = fmt.Sprint(v)
	}

	out := "[" + strings.Join(parts, " ")
	if len(values) > maxListedValues {
		out += fmt.Sprintf(" ... (%d total)", len(values))
	}

	return out + "]"
}
