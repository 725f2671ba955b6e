// Package ratelimit 提供进程内的按客户端滑动窗口限流。
//
// 状态只存在于当前进程：重启即清空，多副本部署时各副本独立计数。
// 它是防刷的软限制，不是安全边界。
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// UnknownClient 请求缺少转发地址头时使用的共享标识
const UnknownClient = "unknown"

// Limiter 判断某个客户端当前是否允许请求
type Limiter interface {
	Allow(identifier string) bool
}

// Options 滑动窗口参数
type Options struct {
	Window      time.Duration
	MaxRequests int
	// MaxClients 同时跟踪的客户端数量上限，超出后淘汰最久未访问的客户端
	MaxClients int
	// IdleTTL 客户端最后一次访问距今超过该时长即可被 Sweep 清理；不足一个窗口时按窗口计算
	IdleTTL time.Duration
	// Now 时钟，测试时注入
	Now func() time.Time
}

type clientWindow struct {
	hits     []time.Time
	lastSeen time.Time
}

// prune 丢弃窗口外的时间戳，复用底层数组
func (w *clientWindow) prune(now time.Time, window time.Duration) {
	kept := w.hits[:0]
	for _, ts := range w.hits {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	w.hits = kept
}

// SlidingWindow 按客户端标识记录近期请求时间戳的限流器，可并发使用
type SlidingWindow struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	idleTTL time.Duration
	clients *lru.Cache // identifier -> *clientWindow
	now     func() time.Time
}

// New 创建滑动窗口限流器
func New(opts Options) (*SlidingWindow, error) {
	if opts.Window <= 0 || opts.MaxRequests <= 0 || opts.MaxClients <= 0 {
		return nil, errors.New("ratelimit: window/max_requests/max_clients 必须大于 0")
	}
	clients, err := lru.New(opts.MaxClients)
	if err != nil {
		return nil, err
	}
	idle := opts.IdleTTL
	if idle < opts.Window {
		idle = opts.Window
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SlidingWindow{
		window:  opts.Window,
		max:     opts.MaxRequests,
		idleTTL: idle,
		clients: clients,
		now:     now,
	}, nil
}

// Allow 清理窗口外的记录后，若窗口内请求数已达上限则拒绝（不记录本次）；否则记录并放行
func (l *SlidingWindow) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var w *clientWindow
	if v, ok := l.clients.Get(identifier); ok {
		w = v.(*clientWindow)
	} else {
		w = &clientWindow{}
		l.clients.Add(identifier, w)
	}
	w.lastSeen = now
	w.prune(now, l.window)

	if len(w.hits) >= l.max {
		return false
	}
	w.hits = append(w.hits, now)
	return true
}

// Sweep 清理空闲客户端，返回清理数量
func (l *SlidingWindow) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	// Keys 按最近访问从旧到新排列，遇到第一个活跃客户端即可停止
	for _, key := range l.clients.Keys() {
		v, ok := l.clients.Peek(key)
		if !ok {
			continue
		}
		if now.Sub(v.(*clientWindow).lastSeen) < l.idleTTL {
			break
		}
		l.clients.Remove(key)
		removed++
	}
	return removed
}

// Len 当前跟踪的客户端数量
func (l *SlidingWindow) Len() int {
	return l.clients.Len()
}

// Run 周期性执行 Sweep，直到 ctx 结束
func (l *SlidingWindow) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		interval = l.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// ClientIdentifier 从 X-Forwarded-For 取第一个地址作为客户端标识。
// 头缺失或首段为空时返回 UnknownClient，所有此类请求共享同一个桶。
func ClientIdentifier(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownClient
	}
	return first
}
