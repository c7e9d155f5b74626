// Package jsongen 把带 $ 变量的 JSON 模板展开为多个 JSON 文档。
//
// 变量在第一次出现时声明取值序列，之后可任意次引用；
// 第 i 次生成时，所有引用都替换为各自变量的第 i 个取值。
// 所有变量的取值个数必须相同，该个数 N 即输出文档数。
//
// # 语法
//
//	reference   := "$" identifier [ "(" enumeration ")" ] *modifier
//	enumeration := "[" int *( "," int ) "]"
//	             / "<" int [ "-" int ] ">" [ "{" step "}" ]
//	modifier    := "." ( "zfill(" width ")" / "to_string()" / "to_int()" )
//
// 区间两端均包含，<a> 等价于 <0-a>；步长也可写在尖括号内，如 <2-6{2}>。
//
// # 语义说明
//
//  1. 模板从左到右扫描，裸引用必须出现在声明之后
//  2. 第一个非空枚举确定 N，之后的声明长度必须等于 N
//  3. 没有任何声明时 N 为 1，输出即模板本身
//  4. 修饰符按书写顺序依次作用于取值
//  5. '$' 后没有标识符字符时原样保留；不支持转义
//
// # 快速开始
//
//	docs, err := jsongen.Expand(`{"frame": $f(<1-3>), "name": "shot_$f.zfill(4)"}`)
//	// docs: {"frame":1,"name":"shot_0001"} ... {"frame":3,"name":"shot_0003"}
//
// 需要检查变量表或仅获取文本时，先 [Parse] 再调用 [Template.Render]。
// 错误类别见 [Kind]，可用 errors.Is 与 ErrXxx 哨兵比较。
package jsongen
