package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tributarygo/streaming"
)

func TestListPipeline(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := NewClient(RedisOptions{Addr: mr.Addr()})
	defer client.Close()

	for _, v := range []string{"1", "2", "3", "4"} {
		_, err := mr.RPush("tributary:in", v)
		require.NoError(t, err)
	}

	in := streaming.Input("in", NewListSource(client, "in", ListSourceOptions{StopWhenEmpty: true}))
	sink := NewListSink(client, "out", ListSinkOptions{MaxLen: 2, TTL: time.Minute})
	out := in.RollingSum(2).Output(sink)

	res, err := streaming.NewEngine(streaming.DefaultRunConfig()).Run(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Steps)

	list, err := mr.List("tributary:out")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "7"}, list)
	assert.True(t, mr.TTL("tributary:out") > 0)
	assert.False(t, mr.Exists("tributary:in"))
}

func TestListSourceBlocksUntilPushed(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := NewClient(RedisOptions{Addr: mr.Addr(), Prefix: "x:"})
	defer client.Close()

	src := NewListSource(client, "events", ListSourceOptions{Prefix: "x:", PopTimeout: 50 * time.Millisecond})
	assert.Equal(t, "x:events", src.Key())

	go func() {
		time.Sleep(20 * time.Millisecond)
		client.RPush(context.Background(), "x:events", `{"id":7,"tags":["a"],"score":0.5}`)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 7, "tags": []any{"a"}, "score": 0.5}, v)
	assert.True(t, src.HasNext())

	short, cancelShort := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelShort()
	_, err = src.Next(short)
	assert.Error(t, err)
}
