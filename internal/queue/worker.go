package queue

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	"github.com/go-redis/redis/v8"
)

// Worker снимает задачи с очереди и выполняет их по одной до конца,
// без параллелизма внутри задачи. Ошибка или паника одной задачи
// не останавливает обработку следующих.
type Worker struct {
	queue *Queue
	reg   *Registry
}

func NewWorker(q *Queue, reg *Registry) *Worker {
	return &Worker{queue: q, reg: reg}
}

func (w *Worker) Run(ctx context.Context) error {
	log.Printf("worker: listening on queue %q", w.queue.name)
	for {
		res, err := w.queue.rdb.BRPop(ctx, 5*time.Second, w.queue.listKey()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		w.execute(ctx, res[1])
	}
}

// RunOnce снимает и выполняет одну задачу, если она есть в очереди
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	id, err := w.queue.rdb.RPop(ctx, w.queue.listKey()).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, err
	}
	w.execute(ctx, id)
	return true, nil
}

func (w *Worker) execute(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: job %s panic: %v\n%s", id, r, debug.Stack())
		}
	}()

	job, err := w.queue.Fetch(ctx, id)
	if err != nil {
		log.Printf("worker: fetch job %s: %v", id, err)
		return
	}

	h, ok := w.reg.handler(job.Name)
	if !ok {
		log.Printf("worker: no handler for job %s (%s)", job.ID, job.Name)
		return
	}

	log.Printf("worker: job %s (%s) started", job.ID, job.Name)
	if err := h(ctx, job); err != nil {
		log.Printf("worker: job %s (%s) failed: %v", job.ID, job.Name, err)
		return
	}
	log.Printf("worker: job %s (%s) finished", job.ID, job.Name)
}
