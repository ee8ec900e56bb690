package queue

import "context"

// Handler — тело задачи, выполняемое воркером
type Handler func(ctx context.Context, job *Job) error

// Registry — явное соответствие имени задачи обработчику.
// Сторона постановки заполняет только имена, воркер — обработчики.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// KnownJobs создаёт реестр из одних имён — для валидации Enqueue
// в процессе, которому обработчики не нужны
func KnownJobs(names ...string) *Registry {
	r := NewRegistry()
	for _, name := range names {
		r.handlers[name] = nil
	}
	return r
}

func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

func (r *Registry) handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}
