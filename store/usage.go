package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrQuotaExceeded 表示客户端当日的 AI 调用次数已用完。
var ErrQuotaExceeded = errors.New("store: 本日の利用上限に達しました")

// DefaultDailyLimit 是每个客户端每日可调用校对的次数。
const DefaultDailyLimit = 5

const usagePrefix = "usage:"

// Usage 是客户端当日的使用情况。
type Usage struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

type usageRecord struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Quota 按 UTC 日期统计每个客户端的调用次数，日期变化即清零。
type Quota struct {
	store *FileStore
	limit int
	now   func() time.Time
}

func NewQuota(s *FileStore, limit int) *Quota {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Quota{store: s, limit: limit, now: time.Now}
}

func (q *Quota) today() string {
	return q.now().UTC().Format(time.DateOnly)
}

// Usage 返回客户端当日的使用情况。
func (q *Quota) Usage(clientID string) (Usage, error) {
	var rec usageRecord
	if err := q.store.Get(usagePrefix+clientID, &rec); err != nil && !errors.Is(err, ErrNotFound) {
		return Usage{}, err
	}
	return q.usage(rec), nil
}

// Check 在剩余次数为 0 时返回 ErrQuotaExceeded，不计数。
func (q *Quota) Check(clientID string) (Usage, error) {
	u, err := q.Usage(clientID)
	if err != nil {
		return u, err
	}
	if u.Remaining <= 0 {
		return u, ErrQuotaExceeded
	}
	return u, nil
}

// Record 记一次成功调用。只在调用成功后执行，失败的调用不消耗次数。
func (q *Quota) Record(clientID string) (Usage, error) {
	var out Usage
	err := q.store.Update(usagePrefix+clientID, func(raw json.RawMessage) (any, error) {
		var rec usageRecord
		if raw != nil {
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("解码使用次数失败: %w", err)
			}
		}
		rec = q.rollover(rec)
		rec.Count++
		out = q.usage(rec)
		return rec, nil
	})
	if err != nil {
		return Usage{}, err
	}
	return out, nil
}

func (q *Quota) rollover(rec usageRecord) usageRecord {
	if today := q.today(); rec.Date != today {
		return usageRecord{Date: today}
	}
	return rec
}

func (q *Quota) usage(rec usageRecord) Usage {
	rec = q.rollover(rec)
	remaining := q.limit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Usage{Date: rec.Date, Count: rec.Count, Limit: q.limit, Remaining: remaining}
}
