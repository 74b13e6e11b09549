package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_ActiveHonoursTTL(t *testing.T) {
	c := NewCenter(time.Second)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Add(Notification{Level: LevelError, Message: "old", At: base})
	c.Add(Notification{Level: LevelSuccess, Message: "new", At: base.Add(900 * time.Millisecond)})

	active := c.Active(base.Add(1500 * time.Millisecond))
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].Message)
	assert.Len(t, c.All(), 2)

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, LevelSuccess, latest.Level)
}

func TestCenter_SubscribePings(t *testing.T) {
	c := NewCenter(0)
	ch := c.Subscribe()

	c.Warning("audit failed")
	c.Error("move failed")

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending ping")
	}
	select {
	case <-ch:
		t.Fatal("pings must coalesce into one pending signal")
	default:
	}

	c.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
	c.Unsubscribe(ch) // second call is a no-op
}

func TestCenter_BoundedHistory(t *testing.T) {
	c := NewCenter(0)
	for i := 0; i < maxKept+10; i++ {
		c.Info("tick")
	}
	assert.Len(t, c.All(), maxKept)

	c.Clear()
	assert.Empty(t, c.All())
	_, ok := c.Latest()
	assert.False(t, ok)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}
