package cfgm

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const exampleHeader = "# 配置示例文件, 复制此文件为 config.yaml 并根据需要修改\n"

// ExampleYAML 根据配置结构体生成带注释的 YAML 示例。
//
// 注释取自字段的 desc tag，嵌套结构体输出为独立的段落。
func ExampleYAML[T any](cfg T) []byte {
	var sb strings.Builder
	sb.WriteString(exampleHeader)
	writeYAMLStruct(&sb, reflect.ValueOf(cfg), 0)

	return []byte(sb.String())
}

func writeYAMLStruct(sb *strings.Builder, val reflect.Value, depth int) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	indent := strings.Repeat("  ", depth)
	typ := val.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := configTagName(field)
		if key == "" || field.PkgPath != "" {
			continue
		}
		desc := field.Tag.Get("desc")

		if isStructType(field.Type) {
			sb.WriteString("\n")
			if desc != "" {
				fmt.Fprintf(sb, "%s# %s\n", indent, desc)
			}
			fmt.Fprintf(sb, "%s%s:\n", indent, key)
			writeYAMLStruct(sb, val.Field(i), depth+1)

			continue
		}

		line := fmt.Sprintf("%s%s: %s", indent, key, yamlScalar(val.Field(i)))
		if desc != "" {
			line += " # " + desc
		}
		sb.WriteString(line + "\n")
	}
}

func yamlScalar(val reflect.Value) string {
	if val.Type() == durationType {
		return time.Duration(val.Int()).String()
	}

	switch val.Kind() {
	case reflect.String:
		return "'" + strings.ReplaceAll(val.String(), "'", "''") + "'"
	case reflect.Bool:
		return strconv.FormatBool(val.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(val.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(val.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(val.Float(), 'g', -1, 64)
	case reflect.Slice:
		items := make([]string, val.Len())
		for i := range val.Len() {
			items[i] = yamlScalar(val.Index(i))
		}

		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val.Interface())
	}
}

// MarshalJSON 将配置结构体输出为缩进 JSON，key 与配置文件一致。
//
// time.Duration 输出为字符串形式（如 "30s"），便于直接作为配置文件使用。
func MarshalJSON[T any](cfg T) []byte {
	data, err := json.MarshalIndent(durationsToStrings(structToMap(cfg)), "", "  ")
	if err != nil {
		return nil
	}

	return data
}

func durationsToStrings(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		for key, value := range typed {
			typed[key] = durationsToStrings(value)
		}

		return typed
	case time.Duration:
		return typed.String()
	default:
		return val
	}
}

// UnknownKeys 返回配置文件中存在、但配置结构体未定义的 key（已排序）。
//
// 文件不经过模板展开，便于在未设置环境变量时校验。
func UnknownKeys[T any](defaultConfig T, path string) ([]string, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	fileMap, err := parseConfigBytes(path, content)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	known := make(map[string]struct{})
	for _, key := range collectConfigKeys(defaultConfig) {
		known[key] = struct{}{}
	}

	var unknown []string
	for _, key := range flattenMapKeys(fileMap) {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	return unknown, nil
}
