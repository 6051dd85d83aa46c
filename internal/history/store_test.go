package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmpty_AlwaysAnswersEmpty(t *testing.T) {
	req := require.New(t)
	store := Empty{}
	ctx := context.Background()

	req.NoError(store.Append(ctx, "1-2", json.RawMessage(`{"text":"hi"}`)))

	msgs, err := store.Recent(ctx, "1-2")
	req.NoError(err)
	req.Empty(msgs)
}

func TestRedisKey_ScopedPerRoom(t *testing.T) {
	req := require.New(t)

	req.Equal("chat:history:1-2", redisKey("1-2"))
	req.NotEqual(redisKey("1-2"), redisKey("1-3"))
}
