// Package templexp 提供模板字符串的 Shell 参数展开。
//
// 该包仅处理 ${...} 语法，用于配置文件，以及 jsongen 模板在变量展开前的预处理。
// 不执行命令、不引入模板引擎，强调可读性与可预测性。
//
// # 设计参考
//
//   - Bash 参数展开: https://www.gnu.org/software/bash/manual/bash.html#Shell-Parameter-Expansion
//
// # 语义说明
//
//  1. 仅做字符串层面的替换（不解析 $VAR，因此 jsongen 的 $name 占位符原样保留）
//  2. 支持嵌套展开与 "$$" 字面量
//  3. ":=" 赋值仅作用于当前展开过程
//  4. 无法识别的表达式保持原样
//
// # 快速开始
//
// 使用进程环境变量：
//
//	content := `{"pool": "${RENDER_POOL:-cpu}", "frame": $f(<1-10>)}`
//	expanded, err := templexp.ExpandTemplate(content)
//
// 使用自定义变量来源：
//
//	expanded, err := templexp.Expand(content, templexp.MapLookup(vars))
//
// 详见 [Expand] 与 [ExpandTemplate] 文档。
package templexp
