package counter

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileCounter(t *testing.T, content string, opts ...FileOption) (*FileCounter, string) {
	path := filepath.Join(t.TempDir(), "bolts.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return NewFileCounter("clicks", path, opts...), path
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFileCounterFirstIncr(t *testing.T) {
	counter, path := newTestFileCounter(t, "")
	require.NoError(t, counter.Init())

	n, err := counter.Incr(context.Background(), "post1", "clicks")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, `{"post1":1}`, readFile(t, path))
}

func TestFileCounterGetOrInitPersists(t *testing.T) {
	counter, path := newTestFileCounter(t, "")

	n, err := counter.GetOrInit(context.Background(), "post9", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Equal(t, `{"post9":0}`, readFile(t, path))
}

func TestFileCounterExistingFile(t *testing.T) {
	counter, path := newTestFileCounter(t, `{"a":3,"b":10}`)
	ctx := context.Background()

	n, err := counter.Incr(ctx, "b", "clicks")
	require.NoError(t, err)
	assert.EqualValues(t, 11, n)
	assert.Equal(t, `{"a":3,"b":11}`, readFile(t, path))

	n, err = counter.GetOrInit(ctx, "a", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestFileCounterRestart(t *testing.T) {
	counter, path := newTestFileCounter(t, "")
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := counter.Incr(ctx, "post1", "clicks")
		require.NoError(t, err)
	}

	restarted := NewFileCounter("clicks", path)
	require.NoError(t, restarted.Init())
	n, err := restarted.GetOrInit(ctx, "post1", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestFileCounterIgnoresField(t *testing.T) {
	counter, _ := newTestFileCounter(t, "")
	ctx := context.Background()

	_, err := counter.Incr(ctx, "post1", "clicks")
	require.NoError(t, err)
	n, err := counter.Incr(ctx, "post1", "other")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestFileCounterCorrupt(t *testing.T) {
	for name, content := range map[string]string{
		"truncated":   `{"a":1`,
		"array":       `[1,2]`,
		"null":        `null`,
		"null value":  `{"a":null}`,
		"string":      `{"a":"one"}`,
		"float":       `{"a":1.5}`,
		"negative":    `{"a":-1}`,
		"whitespaces": "  \n",
	} {
		content := content
		t.Run(name, func(t *testing.T) {
			counter, path := newTestFileCounter(t, content)
			assert.ErrorIs(t, counter.Init(), ErrCorrupt)
			assert.ErrorIs(t, counter.LoadErr(), ErrCorrupt)

			_, err := counter.Incr(context.Background(), "a", "clicks")
			assert.ErrorIs(t, err, ErrCorrupt)
			_, err = counter.GetOrInit(context.Background(), "a", "clicks", 0)
			assert.ErrorIs(t, err, ErrCorrupt)

			_, err = counter.Snapshot()
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.Equal(t, content, readFile(t, path))
		})
	}
}

func TestFileCounterRepairedFile(t *testing.T) {
	counter, path := newTestFileCounter(t, `{"a":`)
	_, err := counter.Incr(context.Background(), "a", "clicks")
	require.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, os.WriteFile(path, []byte(`{"a":5}`), 0644))
	n, err := counter.Incr(context.Background(), "a", "clicks")
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.NoError(t, counter.LoadErr())
}

func TestFileCounterOverflow(t *testing.T) {
	const content = `{"a":9223372036854775807,"b":1}`
	counter, path := newTestFileCounter(t, content)
	ctx := context.Background()

	_, err := counter.Incr(ctx, "a", "clicks")
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, content, readFile(t, path))

	n, err := counter.GetOrInit(ctx, "a", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, math.MaxInt64, n)
	n, err = counter.Incr(ctx, "b", "clicks")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	reloaded := NewFileCounter("clicks", path)
	require.NoError(t, reloaded.Init())
}

func TestFileCounterWriteFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	counter, path := newTestFileCounter(t, `{"a":1}`)
	ctx := context.Background()
	require.NoError(t, counter.Init())

	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0555))
	defer os.Chmod(dir, 0755)

	_, err := counter.Incr(ctx, "a", "clicks")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = counter.GetOrInit(ctx, "b", "clicks", 0)
	assert.ErrorIs(t, err, ErrUnavailable)

	snapshot, err := counter.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 1}, snapshot)
	assert.Equal(t, `{"a":1}`, readFile(t, path))

	require.NoError(t, os.Chmod(dir, 0755))
	n, err := counter.Incr(ctx, "a", "clicks")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestFileCounterCancelled(t *testing.T) {
	counter, path := newTestFileCounter(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := counter.Incr(ctx, "a", "clicks")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoFileExists(t, path)
}

func TestFileCounterNoTempLeft(t *testing.T) {
	counter, path := newTestFileCounter(t, "")
	for i := 0; i < 3; i++ {
		_, err := counter.Incr(context.Background(), "a", "clicks")
		require.NoError(t, err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bolts.json", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestFileCounterMsgpack(t *testing.T) {
	counter, path := newTestFileCounter(t, "", WithCodec(MsgpackCodec), WithFileMode(0600))
	ctx := context.Background()
	_, err := counter.Incr(ctx, "a", "clicks")
	require.NoError(t, err)
	_, err = counter.Incr(ctx, "a", "clicks")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	counts, err := MsgpackCodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 2}, counts)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	restarted := NewFileCounter("clicks", path, WithCodec(MsgpackCodec))
	n, err := restarted.GetOrInit(ctx, "a", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestFileCounterSnapshotIsCopy(t *testing.T) {
	counter, _ := newTestFileCounter(t, `{"a":1}`)
	snapshot, err := counter.Snapshot()
	require.NoError(t, err)
	snapshot["a"] = 100

	n, err := counter.GetOrInit(context.Background(), "a", "clicks", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCodecByName(t *testing.T) {
	codec, err := CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, JSONCodec, codec)

	codec, err = CodecByName("msgpack")
	require.NoError(t, err)
	assert.Equal(t, MsgpackCodec, codec)

	_, err = CodecByName("xml")
	assert.Error(t, err)
}
