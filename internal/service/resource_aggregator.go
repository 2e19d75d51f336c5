package service

import (
	"bookhive_backend/internal/model"
	"math"
	"sort"

	"gorm.io/datatypes"
)

// AggregateOptions 控制聚合输出的可见性
type AggregateOptions struct {
	// IsPublic 为 true 时隐藏内部字段（url/longDescription/fileId/encodeProgress）
	IsPublic bool
	// Completed 私有模式下按资源ID附加的完成标记
	Completed map[string]bool
}

// ResourceNode 聚合后的响应节点，子节点按同样规则递归构建
type ResourceNode struct {
	ID              string             `json:"id"`
	Type            model.ResourceType `json:"type"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	LongDescription string             `json:"longDescription,omitempty"`
	FileType        string             `json:"fileType,omitempty"`
	Source          string             `json:"source,omitempty"`
	Filename        string             `json:"filename,omitempty"`
	URL             string             `json:"url,omitempty"`
	FileID          string             `json:"fileId,omitempty"`
	EncodeProgress  int                `json:"encodeProgress,omitempty"`
	Size            float64            `json:"size,omitempty"`
	Duration        float64            `json:"duration,omitempty"`
	Order           int                `json:"order"`
	ParentID        *string            `json:"parentId,omitempty"`
	IsPreview       bool               `json:"isPreview"`
	Downloadable    bool               `json:"downloadable"`
	Payload         datatypes.JSON     `json:"payload,omitempty"`
	Thumbnail       *model.Thumbnail   `json:"thumbnail,omitempty"`
	Completed       *bool              `json:"completed,omitempty"`
	Children        []ResourceNode     `json:"children,omitempty"`
}

// AggregateResult 一次聚合的产物：有序的顶层节点和汇总指标
type AggregateResult struct {
	Resources []ResourceNode        `json:"resources"`
	Metrics   model.ResourceMetrics `json:"metrics"`
}

// AggregateResources 将产品下的平铺资源行构建成嵌套树并计算汇总指标。
// 父子关系通过 ParentID 反向引用推导，先建一次邻接索引，递归深度由数据本身的
// 父链深度决定（假定无环，环的写入在重排序校验时被拒绝）。
func AggregateResources(all []model.Resource, thumbnails map[string]model.Multimedia, cfDomain string, opts AggregateOptions) AggregateResult {
	children := make(map[string][]*model.Resource)
	const rootKey = ""
	for i := range all {
		key := rootKey
		if all[i].ParentID != nil {
			key = *all[i].ParentID
		}
		children[key] = append(children[key], &all[i])
	}

	// 每层按 order 升序，稳定排序保持并列时的输入顺序
	for _, siblings := range children {
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Order < siblings[j].Order
		})
	}

	var build func(parentKey string) []ResourceNode
	build = func(parentKey string) []ResourceNode {
		rows := children[parentKey]
		if len(rows) == 0 {
			return nil
		}
		nodes := make([]ResourceNode, 0, len(rows))
		for _, row := range rows {
			node := buildNode(row, thumbnails, cfDomain, opts)
			node.Children = build(row.ID)
			nodes = append(nodes, node)
		}
		return nodes
	}

	resources := build(rootKey)
	if resources == nil {
		resources = []ResourceNode{}
	}

	return AggregateResult{
		Resources: resources,
		Metrics:   ComputeMetrics(all),
	}
}

func buildNode(r *model.Resource, thumbnails map[string]model.Multimedia, cfDomain string, opts AggregateOptions) ResourceNode {
	node := ResourceNode{
		ID:           r.ID,
		Type:         r.Type,
		Title:        r.Title,
		Description:  r.Description,
		FileType:     r.FileType,
		Source:       r.Source,
		Filename:     r.Filename,
		Size:         r.Size,
		Duration:     r.Duration,
		Order:        r.Order,
		ParentID:     r.ParentID,
		IsPreview:    r.IsPreview,
		Downloadable: r.Downloadable,
		Payload:      r.Payload,
	}

	if !opts.IsPublic {
		node.URL = r.URL
		node.LongDescription = r.LongDescription
		node.FileID = r.FileID
		node.EncodeProgress = r.EncodeProgress
		if opts.Completed != nil {
			completed := opts.Completed[r.ID]
			node.Completed = &completed
		}
	}

	if thumb, ok := thumbnails[r.ID]; ok {
		node.Thumbnail = &model.Thumbnail{
			Type:   thumb.Type,
			Source: thumb.Source,
			Path:   thumb.Path,
		}
		// 平台自有存储的缩略图改写为CDN完整地址，其余来源原样透传
		if thumb.Source == model.SourceStorage && cfDomain != "" {
			node.Thumbnail.Path = "https://" + cfDomain + "/" + trimLeadingSlash(thumb.Path)
		}
	}

	return node
}

// ComputeMetrics 对平铺资源集求汇总指标，与树形结构无关
func ComputeMetrics(all []model.Resource) model.ResourceMetrics {
	var m model.ResourceMetrics
	var duration, size float64
	for i := range all {
		duration += all[i].Duration
		size += all[i].Size
		switch all[i].Type {
		case model.Section:
			m.TotalSections++
		case model.Lesson:
			m.TotalResources++
		}
	}
	m.TotalDuration = int(math.Round(duration))
	m.TotalSize = int(math.Round(size))
	return m
}

func trimLeadingSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
