package procout

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageAppendAndRead(t *testing.T) {
	s := NewStorage()
	s.Append([]byte("hello "))
	s.Append([]byte("world\n"))

	assert.Equal(t, "hello world\n", s.String())
	assert.Equal(t, []byte("hello world\n"), s.Bytes())
}

func TestStorageWriteCopies(t *testing.T) {
	s := NewStorage()
	buf := []byte("original")
	n, err := s.Write(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)

	copy(buf, "mutated!")
	assert.Equal(t, "original", s.String())
}

func TestStorageConcurrentAppend(t *testing.T) {
	s := NewStorage()
	const writers, perWriter = 8, 100

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				s.Append([]byte(fmt.Sprintf("w%d-%d\n", id, j)))
			}
		}(i)
	}
	wg.Wait()

	lines := bytes.Count(s.Bytes(), []byte{'\n'})
	assert.Equal(t, writers*perWriter, lines)
}

func TestStorageTail(t *testing.T) {
	s := NewStorage()
	for i := 1; i <= 5; i++ {
		s.Append([]byte(fmt.Sprintf("line %d\n", i)))
	}

	assert.Equal(t, []string{"line 4", "line 5"}, s.Tail(2))
	assert.Len(t, s.Tail(100), 5)
	assert.Nil(t, s.Tail(0))
}

func TestStorageTailEmpty(t *testing.T) {
	assert.Nil(t, NewStorage().Tail(10))
}

func TestNilStorageIsSafe(t *testing.T) {
	var s *Storage
	s.Append([]byte("x"))
	n, err := s.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLineWriterPrefixesLines(t *testing.T) {
	var out bytes.Buffer
	w := NewLineWriter("backend", &out, nil)

	_, err := w.Write([]byte("first\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, "[backend] first\n[backend] second\n", out.String())
}

func TestLineWriterBuffersPartialLines(t *testing.T) {
	var out bytes.Buffer
	w := NewLineWriter("fe", &out, nil)

	_, err := w.Write([]byte("hel"))
	require.NoError(t, err)
	assert.Empty(t, out.String(), "no newline yet, nothing should be emitted")

	_, err = w.Write([]byte("lo\nwor"))
	require.NoError(t, err)
	assert.Equal(t, "[fe] hello\n", out.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "[fe] hello\n[fe] wor\n", out.String())
}

func TestLineWriterFlushWithoutPartial(t *testing.T) {
	var out bytes.Buffer
	w := NewLineWriter("fe", &out, nil)
	require.NoError(t, w.Flush())
	assert.Empty(t, out.String())
}

func TestLineWriterCapturesWithoutPrefix(t *testing.T) {
	var out bytes.Buffer
	store := NewStorage()
	w := NewLineWriter("backend", &out, store)

	_, err := w.Write([]byte("Started Application in 2.1 seconds\n"))
	require.NoError(t, err)

	assert.Equal(t, "Started Application in 2.1 seconds\n", store.String(),
		"capture keeps the raw line, prefix is console-only")
	assert.Equal(t, "[backend] Started Application in 2.1 seconds\n", out.String())
}
