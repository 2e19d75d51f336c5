package service

import (
	"bookhive_backend/internal/model"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/util"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ReorderItem 调用方提交的单条排序更新，parentId 为 null/缺省表示移到顶层。
// order 不挂 required：0 是合法的排序值，required 会把零值当缺省拒掉
type ReorderItem struct {
	ResourceID string  `json:"resourceId" binding:"required"`
	Order      int     `json:"order" binding:"min=0"`
	ParentID   *string `json:"parentId"`
}

// ReorderValidationError 汇集整批更新的全部校验失败，一次返回给调用方
type ReorderValidationError struct {
	MissingResources []string `json:"missingResources,omitempty"`
	MissingParents   []string `json:"missingParents,omitempty"`
	DuplicateOrders  []string `json:"duplicateOrders,omitempty"`
	CycleResources   []string `json:"cycleResources,omitempty"`
}

func (e *ReorderValidationError) Error() string {
	var parts []string
	if len(e.MissingResources) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", util.ErrResourceNotFound, strings.Join(e.MissingResources, ",")))
	}
	if len(e.MissingParents) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", util.ErrParentResourceNotFound, strings.Join(e.MissingParents, ",")))
	}
	if len(e.DuplicateOrders) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", util.ErrDuplicateResourceOrder, strings.Join(e.DuplicateOrders, ",")))
	}
	if len(e.CycleResources) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", util.ErrResourceCycleDetected, strings.Join(e.CycleResources, ",")))
	}
	return strings.Join(parts, "; ")
}

func (e *ReorderValidationError) Is(target error) bool {
	switch {
	case errors.Is(target, util.ErrResourceNotFound):
		return len(e.MissingResources) > 0
	case errors.Is(target, util.ErrParentResourceNotFound):
		return len(e.MissingParents) > 0
	case errors.Is(target, util.ErrDuplicateResourceOrder):
		return len(e.DuplicateOrders) > 0
	case errors.Is(target, util.ErrResourceCycleDetected):
		return len(e.CycleResources) > 0
	}
	return false
}

func (e *ReorderValidationError) empty() bool {
	return len(e.MissingResources) == 0 && len(e.MissingParents) == 0 &&
		len(e.DuplicateOrders) == 0 && len(e.CycleResources) == 0
}

// computeReorderBatch 校验整批排序更新并产出差异集。
// 先收集所有引用性失败（资源/父节点不存在）再拒绝，不在首错即停；
// 差异集中只包含顺序或父节点实际变化的行；批内 order 值必须互不相同
// （唯一性只在提交的批次内检查，不与未触碰的兄弟行合并比较）；
// 会形成父链环路的更新整体拒绝。
func computeReorderBatch(existing map[string]*model.Resource, items []ReorderItem) ([]repository.OrderUpdate, error) {
	verr := &ReorderValidationError{}

	for _, item := range items {
		if _, ok := existing[item.ResourceID]; !ok {
			verr.MissingResources = append(verr.MissingResources, item.ResourceID)
		}
		if item.ParentID != nil {
			if _, ok := existing[*item.ParentID]; !ok {
				verr.MissingParents = append(verr.MissingParents, *item.ParentID)
			}
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	var batch []repository.OrderUpdate
	newParents := make(map[string]*string, len(existing))
	for id, r := range existing {
		newParents[id] = r.ParentID
	}

	for _, item := range items {
		cur := existing[item.ResourceID]
		if cur.Order == item.Order && ptrEqual(cur.ParentID, item.ParentID) {
			continue
		}
		batch = append(batch, repository.OrderUpdate{
			ResourceID: item.ResourceID,
			Order:      item.Order,
			ParentID:   item.ParentID,
			SetParent:  true,
		})
		newParents[item.ResourceID] = item.ParentID
	}

	ordersSeen := make(map[int][]string)
	for _, u := range batch {
		ordersSeen[u.Order] = append(ordersSeen[u.Order], u.ResourceID)
	}
	for _, ids := range ordersSeen {
		if len(ids) > 1 {
			verr.DuplicateOrders = append(verr.DuplicateOrders, ids...)
		}
	}

	for _, u := range batch {
		if hasParentCycle(newParents, u.ResourceID) {
			verr.CycleResources = append(verr.CycleResources, u.ResourceID)
		}
	}

	if !verr.empty() {
		sort.Strings(verr.DuplicateOrders)
		sort.Strings(verr.CycleResources)
		return nil, verr
	}

	return batch, nil
}

// validateParentChange 校验单个资源换父：父节点必须存在于同一产品内，
// 且换父后不得在父链上形成环
func validateParentChange(all []model.Resource, resourceID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if findResource(all, *parentID) == nil {
		return util.ErrParentResourceNotFound
	}

	parents := make(map[string]*string, len(all))
	for i := range all {
		parents[all[i].ID] = all[i].ParentID
	}
	parents[resourceID] = parentID

	if hasParentCycle(parents, resourceID) {
		return util.ErrResourceCycleDetected
	}
	return nil
}

// hasParentCycle 沿父链向上走，重新遇到起点即为环
func hasParentCycle(parents map[string]*string, start string) bool {
	seen := map[string]bool{start: true}
	cur := parents[start]
	for cur != nil {
		if seen[*cur] {
			return true
		}
		seen[*cur] = true
		cur = parents[*cur]
	}
	return false
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// collectSubtree 后序收集整棵子树的资源ID（子节点在前，根在最后），
// 删除级联按这个顺序执行
func collectSubtree(all []model.Resource, rootID string) []string {
	children := make(map[string][]string)
	for i := range all {
		if all[i].ParentID != nil {
			children[*all[i].ParentID] = append(children[*all[i].ParentID], all[i].ID)
		}
	}

	var ids []string
	var walk func(id string)
	walk = func(id string) {
		for _, child := range children[id] {
			walk(child)
		}
		ids = append(ids, id)
	}
	walk(rootID)
	return ids
}
