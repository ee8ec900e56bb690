package search

import (
	"errors"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// BleveIndex — встроенный поисковый индекс на bleve.
// Пространства имён эмулируются служебным полем _ns с keyword-анализатором,
// документы хранятся под ключом "<namespace>:<id>".
type BleveIndex struct {
	idx bleve.Index
}

func newMapping() mapping.IndexMapping {
	ns := bleve.NewKeywordFieldMapping()
	ns.IncludeInAll = false
	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("_ns", ns)
	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// OpenBleve открывает индекс по пути, создавая его при первом запуске
func OpenBleve(path string) (*BleveIndex, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, newMapping())
	}
	if err != nil {
		return nil, err
	}
	return &BleveIndex{idx: idx}, nil
}

// NewMemBleve создаёт индекс в памяти
func NewMemBleve() (*BleveIndex, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, err
	}
	return &BleveIndex{idx: idx}, nil
}

func (b *BleveIndex) Close() error { return b.idx.Close() }

func (b *BleveIndex) Upsert(namespace, id string, fields map[string]interface{}) error {
	doc := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_ns"] = namespace
	return b.idx.Index(namespace+":"+id, doc)
}

func (b *BleveIndex) Delete(namespace, id string) error {
	return b.idx.Delete(namespace + ":" + id)
}

func (b *BleveIndex) Query(namespace, expression string, page, perPage int) ([]string, int64, error) {
	if page < 1 {
		page = 1
	}
	match := bleve.NewMatchQuery(expression)
	ns := bleve.NewTermQuery(namespace)
	ns.SetField("_ns")
	req := bleve.NewSearchRequestOptions(
		bleve.NewConjunctionQuery(match, ns), perPage, (page-1)*perPage, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, strings.TrimPrefix(hit.ID, namespace+":"))
	}
	return ids, int64(res.Total), nil
}
