package templexp_test

import (
	"fmt"
	"os"

	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/templexp"
)

// Example_shellExpansion 演示 Shell 参数展开。
func Example_shellExpansion() {
	_ = os.Setenv("RENDER_POOL", "gpu")
	defer func() { _ = os.Unsetenv("RENDER_POOL") }()

	result, _ := templexp.ExpandTemplate(`pool=${RENDER_POOL}`)
	fmt.Println(result)

	// Output:
	// pool=gpu
}

// Example_shellFallback 演示默认值回退语义。
func Example_shellFallback() {
	result, _ := templexp.Expand(`host=${HOST:-localhost}`, nil)
	fmt.Println(result)

	// Output:
	// host=localhost
}

// Example_mapLookup 演示使用自定义变量来源，jsongen 占位符保持不变。
func Example_mapLookup() {
	vars := templexp.MapLookup(map[string]string{"JOB": "lighting"})

	result, _ := templexp.Expand(`{"job": "${JOB}", "frame": $f(<1-2>)}`, vars)
	fmt.Println(result)

	// Output:
	// {"job": "lighting", "frame": $f(<1-2>)}
}
