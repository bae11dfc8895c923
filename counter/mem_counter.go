package counter

import (
	"context"
	"math"
	"sync"
)

// MemCounter keeps counters in memory,nothing survives a restart
type MemCounter struct {
	mu       sync.Mutex
	counters map[string]Fields
}

// NewMemCounter create MemCounter
func NewMemCounter() *MemCounter {
	return &MemCounter{counters: map[string]Fields{}}
}

// Incr implements Store.Incr
func (p *MemCounter) Incr(ctx context.Context, key, field string) (int64, error) {
	if err := validate(opIncr, key, field); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, newError(ErrUnavailable, opIncr, key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fields := p.fields(key)
	if fields[field] == math.MaxInt64 {
		return 0, overflowError(opIncr, key, fields[field])
	}
	fields[field]++
	return fields[field], nil
}

// GetOrInit implements Store.GetOrInit
func (p *MemCounter) GetOrInit(ctx context.Context, key, field string, def int64) (int64, error) {
	if err := validateDefault(opGetOrInit, key, field, def); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, newError(ErrUnavailable, opGetOrInit, key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fields := p.fields(key)
	if n, ok := fields[field]; ok {
		return n, nil
	}
	fields[field] = def
	return def, nil
}

// Get return a copy of the fields of key,nil if key is unknown
func (p *MemCounter) Get(key string) Fields {
	p.mu.Lock()
	defer p.mu.Unlock()

	fields, ok := p.counters[key]
	if !ok {
		return nil
	}
	out := make(Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (p *MemCounter) fields(key string) Fields {
	fields, ok := p.counters[key]
	if !ok {
		fields = Fields{}
		p.counters[key] = fields
	}
	return fields
}
