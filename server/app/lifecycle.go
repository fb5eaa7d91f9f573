package app

import "context"

// Component 可啟動、可關閉的長生命週期元件。
// Run 阻塞直到元件停止；Shutdown 應尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Closer 把只需要在結束時釋放資源的物件（session runtime、redis client）包成 Component。
// Run 阻塞到 Shutdown 被呼叫為止。
type Closer struct {
	fn   func(ctx context.Context) error
	done chan struct{}
}

func NewCloser(fn func(ctx context.Context) error) *Closer {
	return &Closer{fn: fn, done: make(chan struct{})}
}

func (c *Closer) Run() error {
	<-c.done
	return nil
}

func (c *Closer) Shutdown(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx)
}
