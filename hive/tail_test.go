package hive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTail(t *testing.T) {
	tail := NewTail(3)
	for i := 1; i <= 5; i++ {
		_, err := fmt.Fprintf(tail, "line %d\n", i)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"line 3", "line 4", "line 5"}, tail.Lines())
	require.Equal(t, "line 3\nline 4\nline 5\n", tail.String())
}

func TestTailSplitWrites(t *testing.T) {
	tail := NewTail(2)
	_, _ = tail.Write([]byte("fir"))
	_, _ = tail.Write([]byte("st\r\nsec"))
	require.Equal(t, []string{"first", "sec"}, tail.Lines())

	_, _ = tail.Write([]byte("ond\nthird"))
	require.Equal(t, []string{"second", "third"}, tail.Lines())
}

func TestTailEmpty(t *testing.T) {
	tail := NewTail(0)
	require.Empty(t, tail.Lines())
	require.Empty(t, tail.String())

	_, _ = tail.Write([]byte("a\nb\n"))
	require.Equal(t, []string{"b"}, tail.Lines())
}
