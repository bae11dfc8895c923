package http

import (
	"net/http"

	c "github.com/d0ngw/statcounter/common"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RenderJSON 渲染JSON
func RenderJSON(w http.ResponseWriter, jsonData interface{}) {
	data, err := json.Marshal(jsonData)
	if err != nil {
		c.Errorf("marshal json fail,err:%s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(data)
}

// RenderText 渲染Text
func RenderText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// RenderError 以status输出msg,错误的细节只写入日志
func RenderError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil {
		c.Errorf("%s %s fail,err:%s", r.Method, r.URL.Path, err)
	}
	http.Error(w, msg, status)
}

func methodNotAllowed(w http.ResponseWriter, allow ...string) {
	for _, method := range allow {
		w.Header().Add("Allow", method)
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
