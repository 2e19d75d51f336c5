package service

import (
	"bookhive_backend/internal/model"
	"fmt"
	"testing"
)

func TestComputeProgressPercentAndStatus(t *testing.T) {
	eligible := map[string]bool{"r1": true, "r2": true, "r3": true}

	tests := []struct {
		name       string
		records    []model.CompletedResource
		wantPct    int
		wantStatus model.ProgressStatus
	}{
		{"none completed", nil, 0, model.NotStarted},
		{"one of three", []model.CompletedResource{{ResourceID: "r1", Completed: true}}, 33, model.InProgress},
		{"two of three", []model.CompletedResource{
			{ResourceID: "r1", Completed: true},
			{ResourceID: "r2", Completed: true},
		}, 67, model.InProgress},
		{"all completed", []model.CompletedResource{
			{ResourceID: "r1", Completed: true},
			{ResourceID: "r2", Completed: true},
			{ResourceID: "r3", Completed: true},
		}, 100, model.Completed},
		{"unchecked entries ignored", []model.CompletedResource{
			{ResourceID: "r1", Completed: false},
		}, 0, model.NotStarted},
	}

	for _, tt := range tests {
		pct, status := computeProgress(tt.records, eligible)
		if pct != tt.wantPct || status != tt.wantStatus {
			t.Errorf("%s: got (%d, %s), want (%d, %s)", tt.name, pct, status, tt.wantPct, tt.wantStatus)
		}
	}
}

// 完成记录里可能残留已删除资源的ID，分子只数仍计入进度的资源
func TestComputeProgressIgnoresStaleRecords(t *testing.T) {
	eligible := map[string]bool{"r1": true}
	records := []model.CompletedResource{
		{ResourceID: "r1", Completed: true},
		{ResourceID: "deleted", Completed: true},
		{ResourceID: "also-deleted", Completed: true},
	}

	pct, status := computeProgress(records, eligible)
	if pct != 100 || status != model.Completed {
		t.Errorf("got (%d, %s), want (100, completed)", pct, status)
	}
}

func TestComputeProgressNoEligibleResources(t *testing.T) {
	pct, status := computeProgress([]model.CompletedResource{{ResourceID: "x", Completed: true}}, nil)
	if pct != 0 || status != model.NotStarted {
		t.Errorf("got (%d, %s), want (0, not_started)", pct, status)
	}
}

// 状态必须与取整后的百分比一致：0只能是未开始，100只能是已完成，
// 不允许出现 (0, in_progress) 或 (100, in_progress) 的组合
func TestComputeProgressStatusFollowsRoundedPercent(t *testing.T) {
	eligible := make(map[string]bool, 1001)
	for i := 0; i < 1001; i++ {
		eligible[fmt.Sprintf("r%d", i)] = true
	}

	one := []model.CompletedResource{{ResourceID: "r0", Completed: true}}
	pct, status := computeProgress(one, eligible)
	if pct != 0 || status != model.NotStarted {
		t.Errorf("1/1001: got (%d, %s), want (0, not_started)", pct, status)
	}

	almost := make([]model.CompletedResource, 0, 1000)
	for i := 0; i < 1000; i++ {
		almost = append(almost, model.CompletedResource{ResourceID: fmt.Sprintf("r%d", i), Completed: true})
	}
	pct, status = computeProgress(almost, eligible)
	if pct != 100 || status != model.Completed {
		t.Errorf("1000/1001: got (%d, %s), want (100, completed)", pct, status)
	}
}

func TestReconcileCompletionUpsert(t *testing.T) {
	eligible := map[string]bool{"r1": true}

	records := reconcileCompletion(nil, eligible, "r1", true)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if !records[0].Completed || records[0].CompletedAt == nil {
		t.Errorf("completed entry = %+v", records[0])
	}

	// 重复标记不产生第二条记录
	records = reconcileCompletion(records, eligible, "r1", true)
	if len(records) != 1 {
		t.Fatalf("duplicate mark created extra record: %d", len(records))
	}

	// 取消完成清空时间戳
	records = reconcileCompletion(records, eligible, "r1", false)
	if records[0].Completed || records[0].CompletedAt != nil {
		t.Errorf("uncompleted entry = %+v", records[0])
	}
}

// 引用已删除或改型资源的存量记录在写入前清除，不随标记操作无限累积
func TestReconcileCompletionPrunesStaleRecords(t *testing.T) {
	eligible := map[string]bool{"r1": true, "r2": true}
	records := []model.CompletedResource{
		{ResourceID: "deleted-resource", Completed: true},
		{ResourceID: "r1", Completed: true},
	}

	records = reconcileCompletion(records, eligible, "r2", true)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.ResourceID == "deleted-resource" {
			t.Errorf("stale record retained: %+v", r)
		}
	}
}
