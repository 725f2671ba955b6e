package model

// BlogPost 博客文章元数据，来自 content/blog/config/posts-meta.json。
// 正文为原始 Markdown，不做 HTML 转换。
type BlogPost struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Author       string   `json:"author"`
	ReadTime     string   `json:"readTime"`
	Category     string   `json:"category"`
	PublishDate  string   `json:"publishDate,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
	Featured     bool     `json:"featured,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CoverImage   string   `json:"coverImage,omitempty"`
	Content      string   `json:"content,omitempty"`
}
