package database

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependAudit_NewLog(t *testing.T) {
	evt := AuditEvent{
		Ts:         time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		EntityType: "post",
		EntityID:   "abc",
		Action:     "created",
	}

	out, err := prependAudit("", evt, 1000)
	require.NoError(t, err)

	var entries []AuditEvent
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "post", entries[0].EntityType)
	assert.Equal(t, "created", entries[0].Action)
}

func TestPrependAudit_PrependsNewestFirst(t *testing.T) {
	first, err := prependAudit("", AuditEvent{EntityType: "post", EntityID: "1", Action: "created", Ts: time.Now()}, 1000)
	require.NoError(t, err)
	second, err := prependAudit(first, AuditEvent{EntityType: "post", EntityID: "2", Action: "deleted", Ts: time.Now()}, 1000)
	require.NoError(t, err)

	var entries []AuditEvent
	require.NoError(t, json.Unmarshal([]byte(second), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].EntityID)
	assert.Equal(t, "1", entries[1].EntityID)
}

func TestPrependAudit_CapsEntries(t *testing.T) {
	log := ""
	var err error
	for i := 0; i < 7; i++ {
		log, err = prependAudit(log, AuditEvent{EntityType: "post", EntityID: fmt.Sprint(i), Action: "updated", Ts: time.Now()}, 5)
		require.NoError(t, err)
	}

	var entries []AuditEvent
	require.NoError(t, json.Unmarshal([]byte(log), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "6", entries[0].EntityID, "newest entry stays at the head")
	assert.Equal(t, "2", entries[4].EntityID, "oldest entries are dropped")
}

func TestPrependAudit_DiscardsCorruptLog(t *testing.T) {
	out, err := prependAudit("{not json", AuditEvent{EntityType: "setting", EntityID: "k", Action: "updated", Ts: time.Now()}, 1000)
	require.NoError(t, err)

	var entries []AuditEvent
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 1)
}
