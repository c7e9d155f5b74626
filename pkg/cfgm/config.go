package cfgm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/templexp"
)

// DefaultPaths 返回默认配置文件的搜索顺序。
//
// appName 可选，提供后会追加应用专属路径。
// 返回顺序即查找顺序，先命中的文件生效。
//
// 优先级 (从高到低)：
//  1. ./.appname.yaml - 当前目录应用配置
//  2. ~/.appname.yaml - 用户主目录配置
//  3. /etc/appname/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths(appName ...string) []string {
	var paths []string

	if len(appName) > 0 && appName[0] != "" {
		name := appName[0]
		paths = append(paths, "."+name+".yaml")
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "."+name+".yaml"))
		}
		paths = append(paths, "/etc/"+name+"/config.yaml")
	}

	return append(paths, "config.yaml", "config/config.yaml")
}

// Load 读取配置并按优先级合并。
//
// 优先级 (从低到高)：
//  1. 默认值 - defaultConfig
//  2. 配置文件 - [WithConfigPaths] / [WithAppName]
//  3. 环境变量(前缀) - [WithEnvPrefix]
//  4. CLI flags - [WithCommand]
//
// 配置 key 由 json tag 定义，YAML 与 JSON 共享同一套 key。
// 配置文件按顺序查找，命中首个文件即停止。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	configMap := structToMap(defaultConfig)

	fileMap, err := o.readFirstConfigFile()
	if err != nil {
		return nil, err
	}
	mergeMaps(configMap, fileMap)

	if o.envPrefix != "" {
		applyEnv(configMap, o.envPrefix, collectConfigKeys(defaultConfig))
	}

	if o.cmd != nil {
		applyCLIFlags(o.cmd, configMap, reflect.TypeOf(defaultConfig), "")
	}

	var cfg T
	if err := decodeConfigMap(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadCmd 是 [Load] 的便捷版本，适用于 CLI 场景。
//
// 它会注入 [WithCommand]，appName 非空时额外注入 [WithAppName]。
//
// 示例：
//
//	cfg, err := cfgm.LoadCmd(cmd, config.DefaultConfig(), "jsongen",
//	    cfgm.WithEnvPrefix("JSONGEN_"),
//	)
func LoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) (*T, error) {
	base := []Option{WithCommand(cmd)}
	if appName != "" {
		base = append(base, WithAppName(appName))
	}

	return Load(defaultConfig, append(base, opts...)...)
}

// MustLoadCmd 调用 [LoadCmd] 并在失败时 panic，适合启动阶段。
func MustLoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) *T {
	cfg, err := LoadCmd(cmd, defaultConfig, appName, opts...)
	if err != nil {
		panic(fmt.Sprintf("cfgm: failed to load config: %v", err))
	}

	return cfg
}

// readFirstConfigFile 按搜索路径读取第一个存在的配置文件，未找到时返回 nil。
func (o *options) readFirstConfigFile() (map[string]any, error) {
	paths := o.configPaths
	if len(paths) == 0 {
		paths = DefaultPaths(o.appName)
	}

	for _, path := range paths {
		if o.baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(o.baseDir, path)
		}

		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue // 文件不存在或无法读取，尝试下一个路径
		}

		if !o.noTemplateExpansion {
			expanded, expandErr := templexp.ExpandTemplate(string(content))
			if expandErr != nil {
				return nil, fmt.Errorf("expand template in %s: %w", path, expandErr)
			}
			content = []byte(expanded)
		}

		fileMap, err := parseConfigBytes(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}

		slog.Debug("Loaded config from file", "path", path, "templateExpansion", !o.noTemplateExpansion)

		return fileMap, nil
	}

	slog.Debug("No config file found, using defaults")

	return nil, nil
}

// collectConfigKeys 返回配置结构体全部叶子 key（如 output.format）。
func collectConfigKeys[T any](defaultConfig T) []string {
	var keys []string
	walkFields(reflect.TypeOf(defaultConfig), "", func(key string, _ reflect.Type) {
		keys = append(keys, key)
	})

	return keys
}

// walkFields 深度优先遍历结构体叶子字段，key 由 json tag 以 "." 拼接。
func walkFields(typ reflect.Type, prefix string, visit func(key string, typ reflect.Type)) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := configTagName(field)
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if isStructType(field.Type) {
			walkFields(field.Type, key, visit)
			continue
		}
		visit(key, field.Type)
	}
}

// envName 把配置 key 转为环境变量名。
//
// 示例 (前缀 "JSONGEN_")：
//   - output.format → JSONGEN_OUTPUT_FORMAT
//   - server.max-body → JSONGEN_SERVER_MAX_BODY
func envName(prefix, key string) string {
	return prefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func applyEnv(config map[string]any, prefix string, keys []string) {
	for _, key := range keys {
		name := envName(prefix, key)
		if val := os.Getenv(name); val != "" {
			setByPath(config, key, val)
			slog.Debug("Loaded env binding", "env", name, "path", key)
		}
	}
}

// flagName 把配置 key 转为 CLI flag 名称，仅替换 "." 为 "-"。
//
// 示例：output.format → --output-format
func flagName(key string) string {
	return strings.ReplaceAll(key, ".", "-")
}

// applyCLIFlags 将用户显式设置的 CLI flags 写入配置 map。
//
// 未显式设置的 flag 不覆盖配置文件与环境变量。
func applyCLIFlags(cmd *cli.Command, config map[string]any, typ reflect.Type, prefix string) {
	walkFields(typ, prefix, func(key string, fieldType reflect.Type) {
		name := flagName(key)
		if !cmd.IsSet(name) {
			return
		}
		if val, ok := flagValue(cmd, name, fieldType); ok {
			setByPath(config, key, val)
		}
	})
}

// flagValue 按字段类型读取 flag 值。
//
// 支持 string、bool、int 系列、uint 系列、float64、time.Duration 与 []string。
func flagValue(cmd *cli.Command, name string, fieldType reflect.Type) (any, bool) {
	if fieldType == reflect.TypeFor[time.Duration]() {
		return cmd.Duration(name), true
	}

	switch fieldType.Kind() {
	case reflect.String:
		return cmd.String(name), true
	case reflect.Bool:
		return cmd.Bool(name), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return cmd.Int(name), true
	case reflect.Int64:
		return cmd.Int64(name), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmd.Uint64(name), true
	case reflect.Float32, reflect.Float64:
		return cmd.Float64(name), true
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			return cmd.StringSlice(name), true
		}
	default:
	}

	return nil, false
}
