package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/util"
	"errors"
	"testing"
)

func existingSet(resources ...model.Resource) map[string]*model.Resource {
	m := make(map[string]*model.Resource, len(resources))
	for i := range resources {
		m[resources[i].ID] = &resources[i]
	}
	return m
}

func TestComputeReorderBatchSkipsUnchangedRows(t *testing.T) {
	existing := existingSet(
		makeResource("a", model.Lesson, nil, 1),
		makeResource("b", model.Lesson, nil, 2),
	)

	batch, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "a", Order: 1, ParentID: nil},
		{ResourceID: "b", Order: 5, ParentID: nil},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1 (unchanged row must be skipped)", len(batch))
	}
	if batch[0].ResourceID != "b" || batch[0].Order != 5 {
		t.Errorf("batch[0] = %+v", batch[0])
	}
}

func TestComputeReorderBatchCollectsAllReferenceFailures(t *testing.T) {
	existing := existingSet(makeResource("a", model.Lesson, nil, 1))

	_, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "missing1", Order: 1},
		{ResourceID: "missing2", Order: 2},
		{ResourceID: "a", Order: 3, ParentID: strPtr("ghost")},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ReorderValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T", err)
	}
	if len(verr.MissingResources) != 2 {
		t.Errorf("MissingResources = %v, want both ids collected", verr.MissingResources)
	}
	if len(verr.MissingParents) != 1 || verr.MissingParents[0] != "ghost" {
		t.Errorf("MissingParents = %v", verr.MissingParents)
	}
	if !errors.Is(err, util.ErrResourceNotFound) || !errors.Is(err, util.ErrParentResourceNotFound) {
		t.Error("validation error should match both sentinel errors")
	}
}

func TestComputeReorderBatchRejectsDuplicateOrdersEntirely(t *testing.T) {
	existing := existingSet(
		makeResource("a", model.Lesson, nil, 1),
		makeResource("b", model.Lesson, nil, 2),
	)

	batch, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "a", Order: 7},
		{ResourceID: "b", Order: 7},
	})
	if batch != nil {
		t.Error("no partial batch on duplicate orders")
	}
	if !errors.Is(err, util.ErrDuplicateResourceOrder) {
		t.Fatalf("err = %v, want DuplicateResourceOrder", err)
	}

	var verr *ReorderValidationError
	errors.As(err, &verr)
	if len(verr.DuplicateOrders) != 2 {
		t.Errorf("DuplicateOrders = %v, want both conflicting ids", verr.DuplicateOrders)
	}
}

// 唯一性只在提交的批内检查：与未触碰的兄弟行撞序号不报错
func TestComputeReorderBatchUniquenessIsBatchLocal(t *testing.T) {
	existing := existingSet(
		makeResource("a", model.Lesson, nil, 1),
		makeResource("b", model.Lesson, nil, 2),
	)

	batch, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "b", Order: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
}

func TestComputeReorderBatchRejectsParentCycle(t *testing.T) {
	existing := existingSet(
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Section, strPtr("a"), 1),
	)

	// 把 a 挂到自己的子节点 b 下，形成 a->b->a 环
	_, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "a", Order: 1, ParentID: strPtr("b")},
	})
	if !errors.Is(err, util.ErrResourceCycleDetected) {
		t.Fatalf("err = %v, want ResourceCycleDetected", err)
	}
}

func TestComputeReorderBatchSelfParentCycle(t *testing.T) {
	existing := existingSet(makeResource("a", model.Section, nil, 1))

	_, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "a", Order: 1, ParentID: strPtr("a")},
	})
	if !errors.Is(err, util.ErrResourceCycleDetected) {
		t.Fatalf("err = %v, want ResourceCycleDetected", err)
	}
}

func TestComputeReorderBatchMoveToTopLevel(t *testing.T) {
	existing := existingSet(
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Lesson, strPtr("a"), 1),
	)

	batch, err := computeReorderBatch(existing, []ReorderItem{
		{ResourceID: "b", Order: 2, ParentID: nil},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 || !batch[0].SetParent || batch[0].ParentID != nil {
		t.Errorf("batch = %+v, want parent cleared", batch)
	}
}

// 单独改父节点与整批重排序走同一套环校验：
// PATCH 把 a 挂到自己的后代 b 下必须被拒，否则整棵子树会从树响应中消失
func TestValidateParentChangeRejectsCycle(t *testing.T) {
	all := []model.Resource{
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Section, strPtr("a"), 1),
		makeResource("c", model.Lesson, strPtr("b"), 1),
	}

	if err := validateParentChange(all, "a", strPtr("b")); !errors.Is(err, util.ErrResourceCycleDetected) {
		t.Errorf("a under own child b: err = %v, want ResourceCycleDetected", err)
	}
	if err := validateParentChange(all, "a", strPtr("c")); !errors.Is(err, util.ErrResourceCycleDetected) {
		t.Errorf("a under grandchild c: err = %v, want ResourceCycleDetected", err)
	}
	if err := validateParentChange(all, "a", strPtr("a")); !errors.Is(err, util.ErrResourceCycleDetected) {
		t.Errorf("self parent: err = %v, want ResourceCycleDetected", err)
	}
}

func TestValidateParentChangeAcceptsValidMove(t *testing.T) {
	all := []model.Resource{
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Section, nil, 2),
		makeResource("c", model.Lesson, strPtr("a"), 1),
	}

	if err := validateParentChange(all, "c", strPtr("b")); err != nil {
		t.Errorf("move c under b: unexpected error %v", err)
	}
	if err := validateParentChange(all, "c", nil); err != nil {
		t.Errorf("move c to top level: unexpected error %v", err)
	}
	if err := validateParentChange(all, "c", strPtr("ghost")); !errors.Is(err, util.ErrParentResourceNotFound) {
		t.Errorf("unknown parent: err = %v, want ParentResourceNotFound", err)
	}
}

func TestHasParentCycle(t *testing.T) {
	parents := map[string]*string{
		"a": nil,
		"b": strPtr("a"),
		"c": strPtr("b"),
	}
	if hasParentCycle(parents, "c") {
		t.Error("acyclic chain reported as cycle")
	}

	parents["a"] = strPtr("c")
	if !hasParentCycle(parents, "a") {
		t.Error("a->c->b->a cycle not detected")
	}
}

func TestCollectSubtreePostOrder(t *testing.T) {
	all := []model.Resource{
		makeResource("a", model.Section, nil, 1),
		makeResource("b", model.Lesson, strPtr("a"), 1),
		makeResource("c", model.Section, strPtr("a"), 2),
		makeResource("d", model.Lesson, strPtr("c"), 1),
		makeResource("e", model.Lesson, nil, 2),
	}

	ids := collectSubtree(all, "a")
	if len(ids) != 4 {
		t.Fatalf("subtree size = %d, want 4", len(ids))
	}
	if ids[len(ids)-1] != "a" {
		t.Errorf("root must come last, got %v", ids)
	}

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	if pos["d"] > pos["c"] {
		t.Errorf("child d must be deleted before parent c: %v", ids)
	}
	if _, ok := pos["e"]; ok {
		t.Errorf("unrelated top-level e must not be collected: %v", ids)
	}
}
