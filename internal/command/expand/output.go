package expand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/valyala/fasttemplate"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
)

// Write 按输出格式将文档写入 w。
//
//   - json: 单个 JSON 数组
//   - jsonl: 每行一个紧凑文档
//   - yaml: 以 "---" 分隔的多文档 YAML
func Write(w io.Writer, cfg config.OutputConfig, docs []json.RawMessage) error {
	var buf bytes.Buffer

	switch cfg.Format {
	case config.FormatJSON:
		if err := writeArray(&buf, docs, cfg.Indent); err != nil {
			return err
		}
	case config.FormatJSONL:
		for _, doc := range docs {
			if err := json.Compact(&buf, doc); err != nil {
				return fmt.Errorf("compact document: %w", err)
			}
			buf.WriteByte('\n')
		}
	case config.FormatYAML:
		for i, doc := range docs {
			out, err := yaml.JSONToYAML(doc)
			if err != nil {
				return fmt.Errorf("convert document %d to yaml: %w", i, err)
			}
			if i > 0 {
				buf.WriteString("---\n")
			}
			buf.Write(out)
		}
	default:
		return fmt.Errorf("unknown output format %q (want json, jsonl or yaml)", cfg.Format)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// encode 返回单个文档的文件内容。
func encode(doc json.RawMessage, cfg config.OutputConfig) ([]byte, error) {
	var buf bytes.Buffer

	switch cfg.Format {
	case config.FormatYAML:
		return yaml.JSONToYAML(doc)
	case config.FormatJSONL:
		if err := json.Compact(&buf, doc); err != nil {
			return nil, err
		}
	default:
		if err := writeDocument(&buf, doc, "", cfg.Indent); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func writeArray(buf *bytes.Buffer, docs []json.RawMessage, indent int) error {
	if indent <= 0 {
		buf.WriteByte('[')
		for i, doc := range docs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := json.Compact(buf, doc); err != nil {
				return fmt.Errorf("compact document %d: %w", i, err)
			}
		}
		buf.WriteString("]\n")

		return nil
	}

	pad := strings.Repeat(" ", indent)
	buf.WriteString("[\n")
	for i, doc := range docs {
		buf.WriteString(pad)
		if err := writeDocument(buf, doc, pad, indent); err != nil {
			return fmt.Errorf("indent document %d: %w", i, err)
		}
		if i < len(docs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")

	return nil
}

func writeDocument(buf *bytes.Buffer, doc json.RawMessage, prefix string, indent int) error {
	if indent <= 0 {
		return json.Compact(buf, doc)
	}

	return json.Indent(buf, bytes.TrimSpace(doc), prefix, strings.Repeat(" ", indent))
}

// FileNames 按模板生成每个文档的文件名。
//
// 占位符：{index} 从 0 开始的序号，{number} 从 1 开始并按总数补零，
// {count} 文档总数，{stem} 输入文件名主干。未知占位符原样保留。
func FileNames(pattern, stem string, count int) ([]string, error) {
	width := len(strconv.Itoa(count))
	names := make([]string, count)
	seen := make(map[string]int, count)

	for i := range count {
		name := fasttemplate.ExecuteStringStd(pattern, "{", "}", map[string]any{
			"index":  strconv.Itoa(i),
			"number": fmt.Sprintf("%0*d", width, i+1),
			"count":  strconv.Itoa(count),
			"stem":   stem,
		})

		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("output pattern %q yields invalid file name %q", pattern, name)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("output pattern %q yields %q for documents %d and %d", pattern, name, prev, i)
		}
		seen[name] = i
		names[i] = name
	}

	return names, nil
}

// WriteFiles 将每个文档写入 cfg.Dir 下的独立文件，返回写入的路径。
func WriteFiles(cfg config.OutputConfig, stem string, docs []json.RawMessage) ([]string, error) {
	if cfg.Format != config.FormatJSON && cfg.Format != config.FormatJSONL && cfg.Format != config.FormatYAML {
		return nil, fmt.Errorf("unknown output format %q (want json, jsonl or yaml)", cfg.Format)
	}

	names, err := FileNames(cfg.Pattern, stem, len(docs))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, len(docs))
	var errs []error
	for i, doc := range docs {
		data, err := encode(doc, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode document %d: %w", i, err))
			continue
		}

		paths[i] = filepath.Join(cfg.Dir, names[i])
		if err := os.WriteFile(paths[i], data, 0o600); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", paths[i], err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return paths, nil
}
