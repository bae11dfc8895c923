package counter

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	c "github.com/d0ngw/statcounter/common"
)

// FileCounter keeps all counts in memory and mirrors them to a single file.
//
// Every mutation rewrites the whole file, so it only suits small data sets.
// The field argument is ignored, every key holds one implicit count.
// Only one process may write the file.
type FileCounter struct {
	Name  string
	path  string
	codec Codec
	perm  fs.FileMode

	mu      sync.Mutex
	counts  map[string]int64
	loaded  bool
	loadErr error
}

// FileOption configure FileCounter
type FileOption func(*FileCounter)

// WithCodec set the file format,default is JSONCodec
func WithCodec(codec Codec) FileOption {
	return func(p *FileCounter) {
		if codec != nil {
			p.codec = codec
		}
	}
}

// WithFileMode set the permission of the file,default is 0644
func WithFileMode(perm fs.FileMode) FileOption {
	return func(p *FileCounter) { p.perm = perm }
}

// NewFileCounter create FileCounter persisted to path,the file is loaded by Init
// or lazily by the first operation
func NewFileCounter(name, path string, opts ...FileOption) *FileCounter {
	p := &FileCounter{
		Name:  name,
		path:  path,
		codec: JSONCodec,
		perm:  0644,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path return the file path
func (p *FileCounter) Path() string {
	return p.path
}

// Init load the file.
// A missing file is an empty store, ErrCorrupt is returned if the file can't be parsed.
func (p *FileCounter) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked()
}

// LoadErr return the error of the last failed load,nil after a successful load
func (p *FileCounter) LoadErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// loadLocked load the file once,failed loads are retried by the next call
func (p *FileCounter) loadLocked() error {
	if p.loaded {
		return nil
	}
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.counts = map[string]int64{}
		p.loaded, p.loadErr = true, nil
		return nil
	}
	if err != nil {
		p.loadErr = newError(ErrUnavailable, opLoad, "", err)
		return p.loadErr
	}
	counts, err := p.codec.Decode(data)
	if err != nil {
		p.loadErr = newError(ErrCorrupt, opLoad, "", err)
		c.Errorf("load counter file %s fail,err:%s", p.path, err)
		return p.loadErr
	}
	p.counts = counts
	p.loaded, p.loadErr = true, nil
	c.Infof("load %d counters from %s", len(counts), p.path)
	return nil
}

// Incr implements Store.Incr
func (p *FileCounter) Incr(ctx context.Context, key, field string) (int64, error) {
	if err := validate(opIncr, key, field); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.begin(ctx, opIncr, key); err != nil {
		return 0, err
	}
	old, exist := p.counts[key]
	if old == math.MaxInt64 {
		return 0, overflowError(opIncr, key, old)
	}
	n := old + 1
	if err := p.storeLocked(ctx, opIncr, key, n, old, exist); err != nil {
		return 0, err
	}
	return n, nil
}

// GetOrInit implements Store.GetOrInit
func (p *FileCounter) GetOrInit(ctx context.Context, key, field string, def int64) (int64, error) {
	if err := validateDefault(opGetOrInit, key, field, def); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.begin(ctx, opGetOrInit, key); err != nil {
		return 0, err
	}
	if n, ok := p.counts[key]; ok {
		return n, nil
	}
	if err := p.storeLocked(ctx, opGetOrInit, key, def, 0, false); err != nil {
		return 0, err
	}
	return def, nil
}

// Snapshot return a copy of all counts
func (p *FileCounter) Snapshot() (map[string]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.loadLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(p.counts))
	for k, v := range p.counts {
		out[k] = v
	}
	return out, nil
}

func (p *FileCounter) begin(ctx context.Context, op, key string) error {
	if err := ctx.Err(); err != nil {
		return newError(ErrUnavailable, op, key, err)
	}
	return p.loadLocked()
}

// storeLocked set key to n and rewrite the file,the memory is restored if the write fails
func (p *FileCounter) storeLocked(ctx context.Context, op, key string, n, old int64, exist bool) error {
	p.counts[key] = n
	err := ctx.Err()
	if err == nil {
		err = p.writeLocked()
	}
	if err != nil {
		if exist {
			p.counts[key] = old
		} else {
			delete(p.counts, key)
		}
		return newError(ErrUnavailable, op, key, err)
	}
	return nil
}

// writeLocked write all counts to a temp file in the same directory and rename it to path
func (p *FileCounter) writeLocked() (err error) {
	data, err := p.codec.Encode(p.counts)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(p.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, p.perm); err != nil {
		return err
	}
	return os.Rename(tmpName, p.path)
}
