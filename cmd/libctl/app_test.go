package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library-api/internal/domain/book"
)

func TestApp_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"libctl", "--help"}))

	for _, cmd := range []string{"migrate", "create-user", "tail-events"} {
		assert.Contains(t, out.String(), cmd)
	}
}

func TestCreateUser_Flags(t *testing.T) {
	t.Run("缺少必填参数", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"libctl", "create-user", "--username", "alice"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("角色无效时不连接数据库", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"libctl", "create-user", "-u", "alice", "-p", "long-enough", "--role", "root"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root")
	})
}

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	p := printEvent(&out)

	evt := book.Event{
		Type:       book.EventArchived,
		BookID:     7,
		ISBN:       "0441013597",
		ActorID:    1,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p(context.Background(), evt))

	var got book.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, evt, got)
	assert.Equal(t, byte('\n'), out.Bytes()[out.Len()-1])
}
