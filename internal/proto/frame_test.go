package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	cases := []Frame{
		{Pid: 1, Request: Run, TimeMs: 5000},
		{Pid: 2, Request: Block, TimeMs: 1500},
		{Pid: 3, Request: Ack, TimeMs: 0},
		{Pid: -1, Request: Done, TimeMs: 42},
	}

	for _, f := range cases {
		buf := Marshal(f)
		require.Len(t, buf, Size)
		require.Equal(t, f, Unmarshal(buf))
	}
}

func TestMarshalIsLittleEndian(t *testing.T) {
	buf := Marshal(Frame{Pid: 1, Request: Run, TimeMs: 0})
	require.Equal(t, byte(1), buf[0], "little-endian pid must put the low byte first")
	require.Equal(t, byte(0), buf[1])
}

func TestRequestTypeString(t *testing.T) {
	require.Equal(t, "RUN", Run.String())
	require.Equal(t, "BLOCK", Block.String())
	require.Equal(t, "ACK", Ack.String())
	require.Equal(t, "DONE", Done.String())
	require.Equal(t, "UNKNOWN", RequestType(99).String())
}
