package search

// ChangeSet — изменения searchable-сущностей, накопленные внутри
// транзакции. Набор попадает к вызывающему только после успешного
// коммита, при откате он отбрасывается вместе с транзакцией.
type ChangeSet struct {
	Inserted []Searchable
	Updated  []Searchable
	Deleted  []Searchable
}

func (cs *ChangeSet) StageInsert(obj Searchable) {
	cs.Inserted = append(cs.Inserted, obj)
}

func (cs *ChangeSet) StageUpdate(obj Searchable) {
	cs.Updated = append(cs.Updated, obj)
}

func (cs *ChangeSet) StageDelete(obj Searchable) {
	cs.Deleted = append(cs.Deleted, obj)
}

func (cs *ChangeSet) Empty() bool {
	return len(cs.Inserted) == 0 && len(cs.Updated) == 0 && len(cs.Deleted) == 0
}

// Sync воспроизводит зафиксированные изменения в индексе.
// Ошибки индекса не маскируются — решение принимает вызывающий.
func Sync(idx Index, cs *ChangeSet) error {
	if cs == nil || cs.Empty() {
		return nil
	}
	for _, obj := range cs.Inserted {
		if err := idx.Upsert(obj.IndexName(), obj.IndexID(), obj.IndexFields()); err != nil {
			return err
		}
	}
	for _, obj := range cs.Updated {
		if err := idx.Upsert(obj.IndexName(), obj.IndexID(), obj.IndexFields()); err != nil {
			return err
		}
	}
	for _, obj := range cs.Deleted {
		if err := idx.Delete(obj.IndexName(), obj.IndexID()); err != nil {
			return err
		}
	}
	return nil
}
