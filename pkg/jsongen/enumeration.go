package jsongen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxEnumeration 限制单个变量的取值个数，避免 <0-9999999999> 这类声明耗尽内存。
const maxEnumeration = 1 << 20

// parseEnumeration 把声明括号内的表达式解析为有序取值序列。
//
// 支持两种形式：
//   - 列表 [v0,v1,...]：按给定顺序取值
//   - 区间 <a-b>、<a>（即 <0-a>），可带步长 {s}，写在 '>' 之后或之内均可
//
// a > b 时返回空序列，由基数校验报告。
func parseEnumeration(expr string) ([]int64, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]"):
		return parseList(expr[1 : len(expr)-1])
	case strings.HasPrefix(expr, "<"):
		return parseRange(expr)
	}

	return nil, fmt.Errorf("expected [list] or <range>, got %q", expr)
}

func parseList(body string) ([]int64, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("empty list")
	}

	parts := strings.Split(body, ",")
	values := make([]int64, 0, len(parts))
	for _, part := range parts {
		n, err := parseInt(part)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		values = append(values, n)
	}

	return values, nil
}

func parseRange(expr string) ([]int64, error) {
	closeAt := strings.LastIndexByte(expr, '>')
	if closeAt < 0 {
		return nil, fmt.Errorf("unterminated range %q", expr)
	}

	body := expr[1:closeAt]
	var stepText string
	hasStep := false

	// <a-b>{s}
	if suffix := strings.TrimSpace(expr[closeAt+1:]); suffix != "" {
		if !strings.HasPrefix(suffix, "{") || !strings.HasSuffix(suffix, "}") {
			return nil, fmt.Errorf("unexpected %q after range", suffix)
		}
		stepText, hasStep = suffix[1:len(suffix)-1], true
	}

	// <a-b{s}>
	if k := strings.IndexByte(body, '{'); k >= 0 {
		if hasStep {
			return nil, errors.New("step given twice")
		}
		inner := strings.TrimSpace(body[k:])
		if !strings.HasSuffix(inner, "}") {
			return nil, fmt.Errorf("unterminated step in %q", body)
		}
		stepText, hasStep = inner[1:len(inner)-1], true
		body = body[:k]
	}

	step := int64(1)
	if hasStep {
		n, err := parseInt(stepText)
		if err != nil {
			return nil, fmt.Errorf("step: %w", err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("step must be positive, got %d", n)
		}
		step = n
	}

	lo, hi, err := parseBounds(body)
	if err != nil {
		return nil, err
	}

	return progression(lo, hi, step)
}

// parseBounds 解析 "a-b" 或 "a"。首字符的符号不视为分隔符，因此 "-3-2" 为 [-3, 2]。
func parseBounds(body string) (int64, int64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, 0, errors.New("empty range")
	}

	skip := 0
	if body[0] == '-' || body[0] == '+' {
		skip = 1
	}

	sep := strings.IndexByte(body[skip:], '-')
	if sep < 0 {
		hi, err := parseInt(body)
		if err != nil {
			return 0, 0, fmt.Errorf("range bound: %w", err)
		}

		return 0, hi, nil
	}

	sep += skip
	lo, err := parseInt(body[:sep])
	if err != nil {
		return 0, 0, fmt.Errorf("range start: %w", err)
	}
	hi, err := parseInt(body[sep+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("range end: %w", err)
	}

	return lo, hi, nil
}

// progression 生成 lo, lo+step, ... 中不超过 hi 的全部值。
func progression(lo, hi, step int64) ([]int64, error) {
	if lo > hi {
		return nil, nil
	}

	span := uint64(hi) - uint64(lo)
	count := span/uint64(step) + 1
	if count > maxEnumeration {
		return nil, fmt.Errorf("range yields %d values, limit is %d", count, maxEnumeration)
	}

	values := make([]int64, 0, count)
	for i := range count {
		values = append(values, lo+int64(i)*step) //nolint:gosec // bounded by count
	}

	return values, nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
