package model

// MultimediaSource 标识多媒体资产托管在哪个供应商
type MultimediaSource string

const (
	// SourceStorage 平台自有对象存储，经CDN分发
	SourceStorage MultimediaSource = "storage"
	// SourceVod 视频供应商的普通存储
	SourceVod MultimediaSource = "vod"
	// SourceVodStream 视频供应商的流媒体通道
	SourceVodStream MultimediaSource = "vod_stream"
)

type MultimediaKind string

const (
	KindMain      MultimediaKind = "main"
	KindThumbnail MultimediaKind = "thumbnail"
)

// Multimedia 资源关联的多媒体记录，主资产和缩略图各占一行
// swagger:model Multimedia
type Multimedia struct {
	UUIDBase
	ResourceID string           `gorm:"size:36;index;not null" json:"resourceId"`
	Kind       MultimediaKind   `gorm:"size:20;not null" json:"kind"`
	Type       string           `gorm:"size:50" json:"type"`
	Source     MultimediaSource `gorm:"size:30;not null" json:"source"`
	Path       string           `gorm:"size:512;not null" json:"path"`
}

func (Multimedia) TableName() string {
	return "multimedia"
}

// Thumbnail 响应中内嵌的缩略图描述
type Thumbnail struct {
	Type   string           `json:"type,omitempty"`
	Source MultimediaSource `json:"source"`
	Path   string           `json:"path"`
}
