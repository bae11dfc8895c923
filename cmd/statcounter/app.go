package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	c "github.com/d0ngw/statcounter/common"
	"github.com/d0ngw/statcounter/counter"
	"github.com/d0ngw/statcounter/http"
	"github.com/d0ngw/statcounter/orm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "statcounter"

// app 组装存储和http服务
type app struct {
	conf     *AppConfig
	registry *prometheus.Registry
	posts    counter.Store
	clicks   *counter.FileCounter
	pingers  []http.Pinger
	closers  []func() error
	handler  nethttp.Handler
	httpSvc  *http.Service
	services *c.Services
}

func newApp(ctx context.Context, conf *AppConfig) (*app, error) {
	if conf == nil || c.HasNil(conf.HTTP, conf.Posts, conf.Clicks) {
		return nil, errors.New("app config not parsed")
	}
	a := &app{
		conf:     conf,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := counter.NewStoreMetrics(metricsNamespace, a.registry)

	posts, err := a.newPostsStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.posts = counter.Chain(posts,
		counter.LogStoreMiddleware("posts"),
		counter.InstrumentStoreMiddleware("posts", metrics),
	)

	if a.clicks, err = newClicksCounter(conf.Clicks); err != nil {
		a.close()
		return nil, err
	}
	// 文件损坏时服务照常启动,点击接口返回500直到文件被修复
	if err := a.clicks.Init(); err != nil {
		c.Warnf("init clicks counter %s fail,err:%s", a.clicks.Path(), err)
	}
	clicks := counter.Chain(a.clicks,
		counter.LogStoreMiddleware("clicks"),
		counter.InstrumentStoreMiddleware("clicks", metrics),
	)

	routes := &http.CounterHandler{Posts: a.posts, Clicks: clicks}
	a.handler = http.NewRouter(routes, conf.HTTP.StaticDir,
		promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}), a.pingers...)
	a.httpSvc = http.NewService(conf.HTTP, a.handler, http.Recovery, http.AccessLog)
	a.services = c.NewServices(a.httpSvc)
	return a, nil
}

func (a *app) newPostsStore(ctx context.Context) (counter.Store, error) {
	switch a.conf.Posts.Backend {
	case BackendRedis:
		pool := a.conf.Redis.RedisPool()
		if pool == nil {
			return nil, errors.New("redis pool not inited")
		}
		a.closers = append(a.closers, a.conf.Redis.Close)
		store := counter.NewRedisCounter("posts", pool, a.conf.Posts.KeyPrefix)
		if err := store.Init(); err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			c.Warnf("ping redis %s fail,err:%s", a.conf.Redis.Addr(), err)
		}
		a.pingers = append(a.pingers, store)
		c.Infof("posts counters in redis %s", a.conf.Redis.Addr())
		return store, nil
	case BackendMySQL:
		db, err := orm.NewDB(a.conf.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		store := counter.NewDBCounter("posts", db, a.conf.DB.Table, a.conf.DB.AutoCreate)
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		a.pingers = append(a.pingers, store)
		c.Infof("posts counters in mysql %s/%s table %s", a.conf.DB.URL, a.conf.DB.Schema, a.conf.DB.Table)
		return store, nil
	case BackendMemory, "":
		c.Warnf("posts counters in memory,they are lost on restart")
		return counter.NewMemCounter(), nil
	}
	return nil, fmt.Errorf("unknown posts backend %q", a.conf.Posts.Backend)
}

func newClicksCounter(conf *ClicksConfig) (*counter.FileCounter, error) {
	codec, err := counter.CodecByName(conf.Codec)
	if err != nil {
		return nil, err
	}
	return counter.NewFileCounter("clicks", conf.File, counter.WithCodec(codec)), nil
}

func (a *app) start() error {
	if err := a.services.Init(); err != nil {
		return err
	}
	return a.services.Start()
}

func (a *app) stop() error {
	err := a.services.Stop()
	a.close()
	return err
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			c.Warnf("close fail,err:%s", err)
		}
	}
	a.closers = nil
}
