package jsongen

// options 生成选项。
type options struct {
	workers   int  // 并发渲染的 goroutine 数，<= 1 表示顺序执行
	useNumber bool // 数字解码为 json.Number 而非 float64
}

// Option 生成选项函数。
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithWorkers 设置并发渲染的 goroutine 数。
//
// 各次生成互不依赖，并发不改变输出顺序。
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithUseNumber 让数字解码为 json.Number，保留整数精度。
func WithUseNumber() Option {
	return func(o *options) {
		o.useNumber = true
	}
}
