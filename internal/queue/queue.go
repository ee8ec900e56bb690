package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("queue: job not found")

// Job — единица работы: имя обработчика и позиционные аргументы
type Job struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// Queue — очередь задач поверх redis: список id на выполнение
// плюс hash на задачу с телом и метаданными прогресса
type Queue struct {
	rdb  *redis.Client
	name string
	reg  *Registry
}

func New(rdb *redis.Client, name string, reg *Registry) *Queue {
	return &Queue{rdb: rdb, name: name, reg: reg}
}

func (q *Queue) jobKey(id string) string { return q.name + ":job:" + id }
func (q *Queue) listKey() string         { return q.name + ":jobs" }

// Enqueue ставит задачу в очередь и возвращает выданный ей id.
// Неизвестные имена отклоняются здесь, а не при выполнении в воркере.
func (q *Queue) Enqueue(ctx context.Context, jobName string, args ...string) (string, error) {
	if q.reg != nil && !q.reg.Has(jobName) {
		return "", fmt.Errorf("queue: unknown job %q", jobName)
	}

	id := uuid.NewString()
	payload, err := json.Marshal(Job{ID: id, Name: jobName, Args: args})
	if err != nil {
		return "", err
	}

	pipe := q.rdb.TxPipeline()
	pipe.HSet(ctx, q.jobKey(id), "payload", payload)
	pipe.LPush(ctx, q.listKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}

	return id, nil
}

// Fetch возвращает задачу по id, ErrJobNotFound если она вытеснена
func (q *Queue) Fetch(ctx context.Context, id string) (*Job, error) {
	raw, err := q.rdb.HGet(ctx, q.jobKey(id), "payload").Result()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Progress возвращает последний опубликованный прогресс задачи,
// 0 если прогресс ещё не публиковался
func (q *Queue) Progress(ctx context.Context, id string) (int, error) {
	raw, err := q.rdb.HGet(ctx, q.jobKey(id), "meta:progress").Result()
	if err == redis.Nil {
		exists, err := q.rdb.Exists(ctx, q.jobKey(id)).Result()
		if err != nil {
			return 0, err
		}
		if exists == 0 {
			return 0, ErrJobNotFound
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// SetProgress публикует прогресс в метаданные задачи
func (q *Queue) SetProgress(ctx context.Context, id string, progress int) error {
	return q.rdb.HSet(ctx, q.jobKey(id), "meta:progress", progress).Err()
}
