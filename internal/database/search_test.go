package database_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/internal/search"
)

// stubIndex отдаёт заранее заданное ранжирование
type stubIndex struct {
	ids   []string
	total int64
}

func (s *stubIndex) Upsert(string, string, map[string]interface{}) error { return nil }
func (s *stubIndex) Delete(string, string) error                         { return nil }
func (s *stubIndex) Query(string, string, int, int) ([]string, int64, error) {
	return s.ids, s.total, nil
}

func TestSearchPostsFollowsIndexRanking(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")

	now := time.Now()
	first := createPost(t, d, john, "a", now.Add(-3*time.Hour))
	second := createPost(t, d, john, "b", now.Add(-2*time.Hour))
	third := createPost(t, d, john, "c", now.Add(-1*time.Hour))

	// порядок индекса противоречит порядку хранения — авторитетен индекс
	idx := &stubIndex{
		ids:   []string{second.ID.String(), third.ID.String(), first.ID.String()},
		total: 3,
	}

	posts, total, err := d.SearchPosts(idx, "whatever", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, posts, 3)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, third.ID, posts[1].ID)
	assert.Equal(t, first.ID, posts[2].ID)
}

func TestSearchPostsZeroMatches(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")
	createPost(t, d, john, "hello world", time.Now())

	posts, total, err := d.SearchPosts(&stubIndex{}, "nothing", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, posts)
}

func TestWriteCommitSyncsToIndex(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	defer idx.Close()

	post := &models.Post{Body: "the quick brown fox", UserID: john.ID, CreatedAt: time.Now()}
	cs, err := d.Write(func(tx *gorm.DB, cs *search.ChangeSet) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		cs.StageInsert(post)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, search.Sync(idx, cs))

	posts, total, err := d.SearchPosts(idx, "fox", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestWriteUpdateReplacesIndexDocument(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	defer idx.Close()

	post := createPost(t, d, john, "original wording", time.Now())
	require.NoError(t, idx.Upsert(post.IndexName(), post.IndexID(), post.IndexFields()))

	cs, err := d.Write(func(tx *gorm.DB, cs *search.ChangeSet) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("body", "revised wording").Error; err != nil {
			return err
		}
		post.Body = "revised wording"
		cs.StageUpdate(post)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, search.Sync(idx, cs))

	// сразу после коммита индекс отдаёт новый текст и не отдаёт старый
	_, total, err := d.SearchPosts(idx, "original", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	posts, total, err := d.SearchPosts(idx, "revised", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestWriteRollbackLeavesIndexUntouched(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	defer idx.Close()

	post := &models.Post{Body: "doomed post", UserID: john.ID, CreatedAt: time.Now()}
	cs, err := d.Write(func(tx *gorm.DB, cs *search.ChangeSet) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		cs.StageInsert(post)
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Nil(t, cs)

	// откат: ни строки в базе, ни документа в индексе
	_, gerr := d.GetPost(post.ID.String())
	assert.ErrorIs(t, gerr, gorm.ErrRecordNotFound)

	posts, total, err := d.SearchPosts(idx, "doomed", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, posts)
}

func TestWriteDeleteRemovesFromIndex(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	defer idx.Close()

	post := createPost(t, d, john, "ephemeral", time.Now())
	require.NoError(t, idx.Upsert(post.IndexName(), post.IndexID(), post.IndexFields()))

	cs, err := d.Write(func(tx *gorm.DB, cs *search.ChangeSet) error {
		if err := tx.Delete(&models.Post{}, "id = ?", post.ID).Error; err != nil {
			return err
		}
		cs.StageDelete(post)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, search.Sync(idx, cs))

	_, total, err := d.SearchPosts(idx, "ephemeral", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestReindexPosts(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")
	createPost(t, d, john, "indexable content", time.Now())

	idx, err := search.NewMemBleve()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, d.ReindexPosts(idx))

	_, total, err := d.SearchPosts(idx, "indexable", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
