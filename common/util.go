package common

import (
	"os"
	"os/signal"
	"reflect"
	"strings"
	"sync"
	"syscall"
)

// HasNil 检查args中是否有nil值,包括值为nil的指针、接口、函数、map和slice
func HasNil(args ...interface{}) bool {
	for _, arg := range args {
		if arg == nil {
			return true
		}
		v := reflect.ValueOf(arg)
		switch v.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
			if v.IsNil() {
				return true
			}
		}
	}
	return false
}

// IsEmpty 检查args中是否有空字符串(去掉首尾空白后)
func IsEmpty(args ...string) bool {
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return true
		}
	}
	return false
}

// Shutdownhook 等待停机信号,并依次执行注册的hook
type Shutdownhook struct {
	ch         chan os.Signal //接收信号的channel
	hooks      []func()       //停机时需要调用的方法列表
	sync.Mutex                //同步锁
}

// NewShutdownhook 创建一个Shutdownhook,sig是要监听的信号,默认会监听syscall.SIGINT,syscall.SIGTERM
func NewShutdownhook(sig ...os.Signal) *Shutdownhook {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, len(sig))
	signal.Notify(ch, sig...)
	return &Shutdownhook{ch: ch}
}

// AddHook 增加一个Hook函数
func (p *Shutdownhook) AddHook(hookFunc func()) {
	p.Lock()
	defer p.Unlock()
	p.hooks = append(p.hooks, hookFunc)
}

// WaitShutdown 等待进程退出的信号,当收到进程退出的信号后,依次执行注册的hook函数
func (p *Shutdownhook) WaitShutdown() {
	p.Lock()
	ch := p.ch
	p.ch = nil
	p.Unlock()

	if ch == nil {
		Warnf("shutdown hook already waited")
		return
	}

	s := <-ch
	signal.Stop(ch)
	Infof("Receive signal:%v,Run hooks", s)

	p.Lock()
	hooks := p.hooks
	p.Unlock()
	for _, f := range hooks {
		f()
	}
	Infof("Finished run hooks")
}
