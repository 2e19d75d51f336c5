package service

import (
	"bookhive_backend/internal/model"
	"testing"
)

func strPtr(s string) *string { return &s }

func makeResource(id string, typ model.ResourceType, parentID *string, order int) model.Resource {
	r := model.Resource{
		Type:     typ,
		Title:    "t-" + id,
		Order:    order,
		ParentID: parentID,
	}
	r.ID = id
	return r
}

// 场景：章节A下挂资源B和测验C，外加顶层资源D
func sampleTree() []model.Resource {
	return []model.Resource{
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Lesson, strPtr("a"), 1),
		makeResource("c", model.Quiz, strPtr("a"), 2),
		makeResource("d", model.Lesson, nil, 2),
	}
}

func TestAggregateResourcesBuildsNestedTree(t *testing.T) {
	result := AggregateResources(sampleTree(), nil, "", AggregateOptions{})

	if len(result.Resources) != 2 {
		t.Fatalf("top-level count = %d, want 2", len(result.Resources))
	}
	root := result.Resources[0]
	if root.ID != "a" {
		t.Fatalf("first top-level = %s, want a", root.ID)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children of a = %d, want 2", len(root.Children))
	}
	if root.Children[0].ID != "b" || root.Children[1].ID != "c" {
		t.Errorf("children order = %s,%s, want b,c", root.Children[0].ID, root.Children[1].ID)
	}
	if len(root.Children[0].Children) != 0 {
		t.Errorf("leaf b should have no children")
	}
}

func TestAggregateResourcesSiblingOrdering(t *testing.T) {
	all := []model.Resource{
		makeResource("x", model.Lesson, nil, 3),
		makeResource("y", model.Lesson, nil, 1),
		makeResource("z", model.Lesson, nil, 2),
	}

	result := AggregateResources(all, nil, "", AggregateOptions{})

	got := []string{result.Resources[0].ID, result.Resources[1].ID, result.Resources[2].ID}
	want := []string{"y", "z", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sibling order = %v, want %v", got, want)
		}
	}
}

func TestAggregateResourcesPublicModeHidesInternalFields(t *testing.T) {
	r := makeResource("a", model.Lesson, nil, 1)
	r.URL = "https://internal/video.mp4"
	r.LongDescription = "full text"
	r.FileID = "file-123"
	r.EncodeProgress = 80

	result := AggregateResources([]model.Resource{r}, nil, "", AggregateOptions{IsPublic: true})

	node := result.Resources[0]
	if node.URL != "" || node.LongDescription != "" || node.FileID != "" || node.EncodeProgress != 0 {
		t.Errorf("public node leaks internal fields: %+v", node)
	}
	if node.Completed != nil {
		t.Errorf("public node must not carry completion marker")
	}
}

func TestAggregateResourcesPrivateModeCompletionMarkers(t *testing.T) {
	all := sampleTree()
	completed := map[string]bool{"b": true}

	result := AggregateResources(all, nil, "", AggregateOptions{Completed: completed})

	root := result.Resources[0]
	if root.Children[0].Completed == nil || !*root.Children[0].Completed {
		t.Errorf("resource b should be marked completed")
	}
	if root.Children[1].Completed == nil || *root.Children[1].Completed {
		t.Errorf("quiz c should be marked not completed")
	}
}

func TestAggregateResourcesThumbnailCDNRewrite(t *testing.T) {
	all := []model.Resource{makeResource("a", model.Lesson, nil, 1)}
	thumbnails := map[string]model.Multimedia{
		"a": {ResourceID: "a", Kind: model.KindThumbnail, Type: "image", Source: model.SourceStorage, Path: "/thumbs/a.jpg"},
	}

	result := AggregateResources(all, thumbnails, "cdn.example.com", AggregateOptions{})

	thumb := result.Resources[0].Thumbnail
	if thumb == nil {
		t.Fatal("thumbnail missing")
	}
	if thumb.Path != "https://cdn.example.com/thumbs/a.jpg" {
		t.Errorf("thumbnail path = %s", thumb.Path)
	}
}

func TestAggregateResourcesThumbnailVodPassthrough(t *testing.T) {
	all := []model.Resource{makeResource("a", model.Lesson, nil, 1)}
	thumbnails := map[string]model.Multimedia{
		"a": {ResourceID: "a", Kind: model.KindThumbnail, Type: "image", Source: model.SourceVod, Path: "vod/thumb.jpg"},
	}

	result := AggregateResources(all, thumbnails, "cdn.example.com", AggregateOptions{})

	if got := result.Resources[0].Thumbnail.Path; got != "vod/thumb.jpg" {
		t.Errorf("vod thumbnail should pass through unchanged, got %s", got)
	}
}

func TestComputeMetrics(t *testing.T) {
	all := sampleTree()
	all[1].Duration = 120.4
	all[1].Size = 1000.6
	all[3].Duration = 60.4
	all[3].Size = 500.1

	m := ComputeMetrics(all)

	if m.TotalSections != 1 {
		t.Errorf("TotalSections = %d, want 1", m.TotalSections)
	}
	if m.TotalResources != 2 {
		t.Errorf("TotalResources = %d, want 2", m.TotalResources)
	}
	if m.TotalDuration != 181 {
		t.Errorf("TotalDuration = %d, want 181", m.TotalDuration)
	}
	if m.TotalSize != 1501 {
		t.Errorf("TotalSize = %d, want 1501", m.TotalSize)
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.TotalDuration != 0 || m.TotalSections != 0 || m.TotalResources != 0 || m.TotalSize != 0 {
		t.Errorf("empty metrics not zero: %+v", m)
	}
}
