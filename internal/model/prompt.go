package model

// 提示词难度
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidDifficulty 判断难度取值是否合法
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// PromptCategory 提示词分类表 — 对应 prompt_categories
type PromptCategory struct {
	ID           uint   `gorm:"column:category_id;primaryKey;autoIncrement" json:"-"`
	Slug         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Title        string `gorm:"type:varchar(200);not null"        json:"title"`
	Description  string `gorm:"type:text;not null;default:''"     json:"description"`
	Icon         string `gorm:"type:varchar(16);not null;default:'✨'" json:"icon"`
	Color        string `gorm:"type:varchar(16);not null;default:'blue'" json:"color"`
	DisplayOrder int    `gorm:"not null;default:0"                json:"display_order"`
	BaseModel
}

// TableName 指定表名
func (PromptCategory) TableName() string { return "prompt_categories" }

// Prompt 提示词表 — 对应 prompts
type Prompt struct {
	PromptID    uint            `gorm:"primaryKey;autoIncrement"               json:"-"`
	Slug        string          `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Title       string          `gorm:"type:varchar(300);not null"             json:"title"`
	Description string          `gorm:"type:text;not null;default:''"          json:"description"`
	Template    string          `gorm:"type:text;not null"                     json:"template"`
	CoverImage  *string         `gorm:"type:text"                              json:"coverImage,omitempty"`
	CategoryID  uint            `gorm:"not null;index"                         json:"-"`
	Category    *PromptCategory `gorm:"foreignKey:CategoryID;references:ID"    json:"-"`
	UseCase     string          `gorm:"type:text;not null;default:''"          json:"useCase"`
	Difficulty  string          `gorm:"type:varchar(16);not null"              json:"difficulty"`
	Tags        StringList      `gorm:"type:text;not null;default:'[]'"        json:"tags"`
	Featured    bool            `gorm:"not null;default:false"                 json:"featured"`
	CopyCount   int64           `gorm:"not null;default:0"                     json:"copyCount"`
	BaseModel
}

// TableName 指定表名
func (Prompt) TableName() string { return "prompts" }

// CategorySlug 返回所属分类 slug（未预加载时为空）
func (p *Prompt) CategorySlug() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}
