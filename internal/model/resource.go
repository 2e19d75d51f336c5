package model

import "gorm.io/datatypes"

type ResourceType string

const (
	Section ResourceType = "section"
	Lesson  ResourceType = "resource"
	Quiz    ResourceType = "quiz"
	Survey  ResourceType = "survey"
)

// ProgressEligible 判断该类型是否计入学习进度（章节仅做组织用途）
func (t ResourceType) ProgressEligible() bool {
	return t == Lesson || t == Quiz || t == Survey
}

// Resource 产品内容树中的一个节点，父子关系通过 ParentID 反向引用建立
// swagger:model Resource
type Resource struct {
	UUIDBase
	ProductID       string       `gorm:"size:36;index;not null" json:"productId"`
	HostID          string       `gorm:"size:36;index;not null" json:"hostId"`
	Type            ResourceType `gorm:"size:20;not null" json:"type"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description,omitempty"`
	LongDescription string       `gorm:"type:text" json:"longDescription,omitempty"`
	FileType        string       `gorm:"size:50" json:"fileType,omitempty"`
	Source          string       `gorm:"size:30" json:"source,omitempty"`
	Filename        string       `gorm:"size:255" json:"filename,omitempty"`
	URL             string       `gorm:"size:512" json:"url,omitempty"`
	FileID          string       `gorm:"size:128" json:"fileId,omitempty"`
	EncodeProgress  int          `gorm:"default:0" json:"encodeProgress,omitempty"`
	Size            float64      `gorm:"default:0" json:"size,omitempty"`     // 文件大小（字节）
	Duration        float64      `gorm:"default:0" json:"duration,omitempty"` // 时长（秒）
	Order           int          `gorm:"column:order_index;not null" json:"order"`
	ParentID        *string      `gorm:"size:36;index" json:"parentId,omitempty"`
	IsPreview       bool         `gorm:"default:false" json:"isPreview"`
	Downloadable    bool         `gorm:"default:false" json:"downloadable"`
	// 测验/问卷的题目内容，仅对 quiz/survey 类型有意义
	Payload datatypes.JSON `json:"payload,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}
