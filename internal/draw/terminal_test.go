package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriterWriteAtAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)

	cw.WriteAt(1, 1, "hi")
	assert.Empty(t, out.String(), "nothing is written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[4;3Hhi\033[K", out.String())
}

func TestChunkWriterSetOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.SetOffset(10, 0)

	cw.MoveCursor(1, 1)
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[1;11H", out.String())
}

func TestChunkWriterWriteCentered(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	cw.WriteCentered(2, 10, "abcd")
	cw.WriteCentered(3, 2, "too long")
	require.NoError(t, cw.Flush())

	assert.Equal(t, "\033[2;4Habcd\033[K\033[3;1Htoo long\033[K", out.String())
}

func TestChunkWriterFlushLargeFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	big := strings.Repeat("x", 3*maxChunkSize+7)
	_, err := cw.Write([]byte(big))
	require.NoError(t, err)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String())

	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String(), "buffer is reset after Flush")
}

func TestCursorHelpers(t *testing.T) {
	var out bytes.Buffer
	HideCursor(&out)
	ShowCursor(&out)
	ClearScreen(&out)
	assert.Equal(t, "\033[?25l\033[?25h\033[H\033[2J", out.String())
}
