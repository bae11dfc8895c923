package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	c "github.com/d0ngw/statcounter/common"
	"golang.org/x/net/netutil"
)

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept接受连接
func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		tc.Close()
		return
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		tc.Close()
		return
	}
	return tc, nil
}

// Service Http服务
type Service struct {
	c.BaseService
	Conf        *Config
	Handler     http.Handler
	Middlewares []Middleware

	listener net.Listener
	server   *http.Server
	served   chan struct{}
	lock     sync.Mutex
}

// NewService 创建Http服务,middlewares依次包装handler,第一个在最外层
func NewService(conf *Config, handler http.Handler, middlewares ...Middleware) *Service {
	return &Service{
		BaseService: c.BaseService{SName: "http"},
		Conf:        conf,
		Handler:     handler,
		Middlewares: middlewares,
	}
}

// Init 初始化Http服务
func (p *Service) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if c.HasNil(p.Conf) {
		return errors.New("http: no config")
	}
	if c.HasNil(p.Handler) {
		return errors.New("http: no handler")
	}
	for i, m := range p.Middlewares {
		if c.HasNil(m) {
			return fmt.Errorf("http: middleware %d is nil", i)
		}
	}
	if p.Conf.Addr == "" {
		p.Conf.Addr = DefaultAddr
	}
	if p.Conf.ShutdownTimeout <= 0 {
		p.Conf.ShutdownTimeout = DefaultShutdownTimeout
	}

	p.server = &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  seconds(p.Conf.ReadTimeout),
		WriteTimeout: seconds(p.Conf.WriteTimeout),
		Handler:      Wrap(p.Handler, p.Middlewares...),
	}
	return nil
}

// Start 启动Http服务,开始端口监听和服务处理
func (p *Service) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		return errors.New("http: service not inited")
	}

	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		return fmt.Errorf("listen at %s fail,err:%w", p.Conf.Addr, err)
	}
	c.Infof("Listen at %s", ln.Addr())

	var listener net.Listener = tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		listener = netutil.LimitListener(listener, p.Conf.MaxConns)
	}
	p.listener = listener
	p.served = make(chan struct{})

	go func(server *http.Server, served chan struct{}) {
		defer close(served)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Errorf("server.Serve return with %v", err)
		}
	}(p.server, p.served)
	return nil
}

// Addr 监听的地址,未启动时返回配置的地址
func (p *Service) Addr() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listener != nil {
		return p.listener.Addr().String()
	}
	if p.Conf != nil {
		return p.Conf.Addr
	}
	return ""
}

// Stop 停止Http服务,关闭端口监听,等待处理中的请求结束
func (p *Service) Stop() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil || p.served == nil {
		return nil
	}

	c.Infof("Waiting shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), seconds(p.Conf.ShutdownTimeout))
	defer cancel()
	err := p.server.Shutdown(ctx)
	if err != nil {
		p.server.Close()
	}
	<-p.served
	c.Infof("Finish shutdown")

	p.listener = nil
	p.served = nil
	return err
}
