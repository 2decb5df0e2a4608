package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Dispatcher раздаёт события воркерам по chat ID: события одного чата
// обрабатываются по порядку, разные чаты: параллельно
type Dispatcher struct {
	queues []chan Incoming
	handle func(context.Context, Incoming)
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewDispatcher создаёт пул из workers воркеров с очередью queueSize на каждого
func NewDispatcher(workers, queueSize int, handle func(context.Context, Incoming), logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{
		queues: make([]chan Incoming, workers),
		handle: handle,
		logger: logger,
	}
	for i := range d.queues {
		d.queues[i] = make(chan Incoming, queueSize)
	}
	return d
}

// Start запускает воркеры; они работают до отмены ctx
func (d *Dispatcher) Start(ctx context.Context) {
	for i, q := range d.queues {
		i, q := i, q
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case in := <-q:
					d.safeHandle(ctx, i, in)
				}
			}
		}()
	}
}

// Submit ставит событие в очередь его чата; блокируется, если очередь полна
func (d *Dispatcher) Submit(ctx context.Context, in Incoming) bool {
	q := d.queues[shard(in.ChatID, len(d.queues))]
	select {
	case q <- in:
		return true
	case <-ctx.Done():
		return false
	}
}

// Wait ждёт завершения воркеров после отмены контекста
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) safeHandle(ctx context.Context, worker int, in Incoming) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("паника при обработке события",
				"worker", worker,
				"chat_id", in.ChatID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	d.handle(ctx, in)
}

func shard(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}
