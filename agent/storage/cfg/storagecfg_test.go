package cfg

import (
	"testing"

	"github.com/findy-network/findy-a2a/agent/storage/wrapper"
	"github.com/stretchr/testify/require"
)

func TestAgentStorage_OpenClose(t *testing.T) {
	c := &AgentStorage{
		AgentKey: wrapper.GenerateKey(),
		AgentID:  "agent",
		FilePath: t.TempDir(),
	}

	s1, err := c.Open()
	require.NoError(t, err)
	s2, err := c.Open()
	require.NoError(t, err)
	require.Same(t, s1, s2)

	store, err := s1.OpenStore(ConnectionStore)
	require.NoError(t, err)
	require.NoError(t, store.Put("k", []byte("v")))

	require.NoError(t, c.Close())
	value, err := store.Get("k")
	require.NoError(t, err, "still open by the second user")
	require.Equal(t, []byte("v"), value)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "extra close is only logged")

	s3, err := c.Open()
	require.NoError(t, err)
	defer c.Close()
	require.NotSame(t, s1, s3)

	store, err = s3.OpenStore(ConnectionStore)
	require.NoError(t, err)
	value, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)
}
