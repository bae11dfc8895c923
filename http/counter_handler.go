package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/d0ngw/statcounter/counter"
)

// 计数的字段
const (
	FieldViews  = "views"
	FieldLikes  = "likes"
	FieldClicks = "clicks"
)

// Banner 根路径返回的文本
const Banner = "statcounter is running"

// 失败时返回给客户端的信息
const (
	msgUpdateLikes  = "Error updating likes count!"
	msgPostStats    = "Error getting post stats!"
	msgUpdateClicks = "Error updating click count"
	msgGetClicks    = "Error getting click count"
)

// LikesResp GET /{key}/likes 的响应
type LikesResp struct {
	Likes int64 `json:"likes"`
}

// StatsResp GET /{key} 的响应
type StatsResp struct {
	Likes int64 `json:"likes"`
	Views int64 `json:"views"`
}

// ClicksResp /click/{key} 的响应
type ClicksResp struct {
	TotalClicks int64 `json:"totalClicks"`
}

// CounterHandler 计数接口.
//
//	GET  /{key}/likes   likes加1
//	GET  /{key}         views加1,返回likes和views
//	POST /click/{key}   clicks加1
//	GET  /click/{key}   读取clicks
type CounterHandler struct {
	Posts  counter.Store
	Clicks counter.Store
}

func (p *CounterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments, ok := splitPath(r.URL.EscapedPath())
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 0:
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		RenderText(w, Banner)
	case len(segments) == 2 && segments[0] == "click":
		switch r.Method {
		case http.MethodPost:
			p.incrClicks(w, r, segments[1])
		case http.MethodGet:
			p.getClicks(w, r, segments[1])
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case len(segments) == 2 && segments[1] == FieldLikes:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		p.incrLikes(w, r, segments[0])
	case len(segments) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		p.postStats(w, r, segments[0])
	default:
		http.NotFound(w, r)
	}
}

func (p *CounterHandler) incrLikes(w http.ResponseWriter, r *http.Request, key string) {
	likes, err := p.Posts.Incr(r.Context(), key, FieldLikes)
	if err != nil {
		RenderError(w, r, http.StatusInternalServerError, msgUpdateLikes, err)
		return
	}
	RenderJSON(w, &LikesResp{Likes: likes})
}

func (p *CounterHandler) postStats(w http.ResponseWriter, r *http.Request, key string) {
	ctx := r.Context()
	views, err := p.Posts.Incr(ctx, key, FieldViews)
	if err != nil {
		RenderError(w, r, http.StatusInternalServerError, msgPostStats, err)
		return
	}
	likes, err := p.Posts.GetOrInit(ctx, key, FieldLikes, 0)
	if err != nil {
		RenderError(w, r, http.StatusInternalServerError, msgPostStats, err)
		return
	}
	RenderJSON(w, &StatsResp{Likes: likes, Views: views})
}

func (p *CounterHandler) incrClicks(w http.ResponseWriter, r *http.Request, key string) {
	clicks, err := p.Clicks.Incr(r.Context(), key, FieldClicks)
	if err != nil {
		RenderError(w, r, http.StatusInternalServerError, msgUpdateClicks, err)
		return
	}
	RenderJSON(w, &ClicksResp{TotalClicks: clicks})
}

func (p *CounterHandler) getClicks(w http.ResponseWriter, r *http.Request, key string) {
	clicks, err := p.Clicks.GetOrInit(r.Context(), key, FieldClicks, 0)
	if err != nil {
		RenderError(w, r, http.StatusInternalServerError, msgGetClicks, err)
		return
	}
	RenderJSON(w, &ClicksResp{TotalClicks: clicks})
}

// splitPath 按'/'切分转义过的路径,每段单独反转义,空段视为无效路径
func splitPath(escaped string) ([]string, bool) {
	escaped = strings.TrimPrefix(escaped, "/")
	if escaped == "" {
		return nil, true
	}
	parts := strings.Split(escaped, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segment, err := url.PathUnescape(part)
		if err != nil || segment == "" {
			return nil, false
		}
		segments = append(segments, segment)
	}
	return segments, true
}

// Pinger 可以检查连通性的存储
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 所有的pingers都成功时返回ok,否则返回503
func HealthHandler(pingers ...Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, pinger := range pingers {
			if err := pinger.Ping(r.Context()); err != nil {
				RenderError(w, r, http.StatusServiceUnavailable, "unavailable", err)
				return
			}
		}
		RenderText(w, "ok")
	})
}

// NewRouter 组装所有的路由,metrics为nil时不输出/metrics
func NewRouter(counters *CounterHandler, staticDir string, metrics http.Handler, pingers ...Pinger) http.Handler {
	mux := http.NewServeMux()
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.Handle("/healthz", HealthHandler(pingers...))
	mux.Handle("/", Static(staticDir, counters))
	return mux
}
