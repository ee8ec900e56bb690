package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
)

func sendMessage(t *testing.T, d *database.Database, from, to *models.User, body string, at time.Time) {
	t.Helper()

	require.NoError(t, d.SaveMessage(&models.Message{
		SenderID:    from.ID,
		RecipientID: to.ID,
		Body:        body,
		CreatedAt:   at,
	}))
}

func TestMessagesReceivedAndSent(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")
	susan := createUser(t, d, "susan")

	now := time.Now()
	sendMessage(t, d, john, susan, "hi susan", now.Add(-2*time.Hour))
	sendMessage(t, d, susan, john, "hi john", now.Add(-1*time.Hour))
	sendMessage(t, d, john, susan, "how are you", now)

	inbox, total, err := d.MessagesReceived(susan.ID.String(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, inbox, 2)

	// новые первыми, отправитель подгружен
	assert.Equal(t, "how are you", inbox[0].Body)
	assert.Equal(t, "john", inbox[0].Sender.Username)

	sent, total, err := d.MessagesSent(john.ID.String(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "susan", sent[0].Recipient.Username)
}

func TestCountUnreadMessages(t *testing.T) {
	d := setupTestDB(t)
	john := createUser(t, d, "john")
	susan := createUser(t, d, "susan")

	now := time.Now()
	sendMessage(t, d, john, susan, "old", now.Add(-2*time.Hour))
	sendMessage(t, d, john, susan, "new", now)

	// прочитано всё до часа назад — непрочитанным остаётся одно
	unread, err := d.CountUnreadMessages(susan.ID.String(), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, d.UpdateLastMessageRead(susan.ID.String(), now.Add(time.Second)))

	fresh, err := d.GetUser(susan.ID.String())
	require.NoError(t, err)

	unread, err = d.CountUnreadMessages(susan.ID.String(), fresh.LastMessageRead)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}
