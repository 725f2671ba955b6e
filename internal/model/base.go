package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 字符串列表自定义类型 ──

// StringList 以 JSON 文本存储的字符串数组，实现 GORM Scanner/Valuer 接口。
// 使用 JSON 而不是 PostgreSQL TEXT[]，保证 SQLite 与 PostgreSQL 行为一致。
type StringList []string

// Scan 将数据库返回的 JSON 文本解析为 []string。
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList.Scan: invalid json %q: %w", raw, err)
	}
	*l = out
	return nil
}

// Value 将 []string 序列化为 JSON 文本，nil 存为 "[]"。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用时间戳字段，由 gorm 按 NowFunc 写入（保留亚秒精度）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
