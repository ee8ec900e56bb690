package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMsgWithAttachment(t *testing.T) {
	mm, err := buildMsg(Message{
		From:    "admin@example.com",
		To:      "john@example.com",
		Subject: "[Microblog] Your posts",
		Body:    "archive attached",
		Attachments: []Attachment{{
			Name:        "posts.json",
			ContentType: "application/json",
			Data:        []byte(`{"posts":[]}`),
		}},
	})
	require.NoError(t, err)

	attachments := mm.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "posts.json", attachments[0].Name)
}

func TestBuildMsgRejectsBadAddress(t *testing.T) {
	_, err := buildMsg(Message{
		From: "not-an-address",
		To:   "john@example.com",
	})
	assert.Error(t, err)
}
