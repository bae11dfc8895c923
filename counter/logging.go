package counter

import (
	"context"
	"time"

	c "github.com/d0ngw/statcounter/common"
)

type logStore struct {
	store string
	next  Store
}

// LogStoreMiddleware logs failed operations at error level and the others at debug level
func LogStoreMiddleware(store string) StoreMiddleware {
	return func(next Store) Store {
		return &logStore{store: store, next: next}
	}
}

func (s *logStore) Incr(ctx context.Context, key, field string) (n int64, err error) {
	defer func(begin time.Time) {
		s.log("Incr", key, field, n, begin, err)
	}(time.Now())

	return s.next.Incr(ctx, key, field)
}

func (s *logStore) GetOrInit(ctx context.Context, key, field string, def int64) (n int64, err error) {
	defer func(begin time.Time) {
		s.log("GetOrInit", key, field, n, begin, err)
	}(time.Now())

	return s.next.GetOrInit(ctx, key, field, def)
}

func (s *logStore) log(method, key, field string, n int64, begin time.Time, err error) {
	if err != nil {
		c.Errorf("store:%s method:%s key:%q field:%s kind:%s duration:%s err:%s",
			s.store, method, key, field, ErrorKind(err), time.Since(begin), err)
		return
	}
	if c.DebugEnabled() {
		c.Debugf("store:%s method:%s key:%q field:%s value:%d duration:%s",
			s.store, method, key, field, n, time.Since(begin))
	}
}
