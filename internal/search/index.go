package search

// Searchable — сущность, зеркалируемая в поисковый индекс
type Searchable interface {
	IndexName() string
	IndexID() string
	IndexFields() map[string]interface{}
}

// Index — контракт поискового движка: upsert/delete документа
// и запрос, возвращающий ранжированные id и общее число совпадений
type Index interface {
	Upsert(namespace, id string, fields map[string]interface{}) error
	Delete(namespace, id string) error
	Query(namespace, expression string, page, perPage int) ([]string, int64, error)
}
