package http

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// NoDirFS 不输出目录列表的FS
type NoDirFS struct {
	Fs http.FileSystem
}

// Open 取得指定的文件,如果name指向的是个目录,且目录下没有index.html,返回os.ErrPermission
func (fs NoDirFS) Open(name string) (http.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		index, err := fs.Fs.Open(strings.TrimSuffix(name, "/") + "/index.html")
		if err == nil {
			index.Close()
			return f, nil
		}
		f.Close()
		return nil, os.ErrPermission
	}
	return f, nil
}

// exists 判断name是否可以由NoDirFS输出
func (fs NoDirFS) exists(name string) bool {
	f, err := fs.Open(name)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// isStaticRequest 判断r是否可能是静态文件请求,路径中含有转义的'/'时是计数key
func isStaticRequest(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return !strings.Contains(strings.ToLower(r.URL.EscapedPath()), "%2f")
}

// Static 先尝试从dir输出GET和HEAD请求的静态文件,文件不存在时交给next处理
func Static(dir string, next http.Handler) http.Handler {
	if dir == "" {
		return next
	}
	fs := NoDirFS{Fs: http.Dir(dir)}
	fileServer := http.FileServer(fs)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStaticRequest(r) {
			name := path.Clean("/" + r.URL.Path)
			if fs.exists(name) {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
