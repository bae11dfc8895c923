// Package counter supply the counter store and its backends
package counter

import (
	"context"
)

// Fields define the counter's field and value
type Fields map[string]int64

// Store is the counter store every backend implements.
//
// Incr and GetOrInit create the counter record of key on first use, there is
// no explicit create or delete.
type Store interface {
	// Incr increase the field of key by 1 and return the new value,
	// a field which does not exist starts from 0
	Incr(ctx context.Context, key, field string) (int64, error)

	// GetOrInit return the value of the field of key,
	// if the field does not exist, def is stored and returned
	GetOrInit(ctx context.Context, key, field string, def int64) (int64, error)
}

// StoreMiddleware is a chainable behavior modifier for Store.
type StoreMiddleware func(Store) Store

// Chain wraps store with middlewares, the first middleware is the outermost
func Chain(store Store, middlewares ...StoreMiddleware) Store {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}

func validate(op, key, field string) error {
	if key == "" {
		return newError(ErrInvalidKey, op, key, errEmptyKey)
	}
	if field == "" {
		return newError(ErrInvalidKey, op, key, errEmptyField)
	}
	return nil
}

func validateDefault(op, key, field string, def int64) error {
	if err := validate(op, key, field); err != nil {
		return err
	}
	if def < 0 {
		return newError(ErrInvalidKey, op, key, errNegativeDefault)
	}
	return nil
}

// 操作名称,用于错误和日志
const (
	opIncr      = "incr"
	opGetOrInit = "get_or_init"
	opLoad      = "load"
	opPing      = "ping"
	opInit      = "init"
)
