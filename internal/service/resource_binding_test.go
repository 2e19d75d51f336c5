package service

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

// order 的合法取值包含 0，绑定校验不能把零值当缺省拒掉
func TestReorderItemBindingAllowsZeroOrder(t *testing.T) {
	var item ReorderItem
	if err := binding.JSON.BindBody([]byte(`{"resourceId":"a","order":0}`), &item); err != nil {
		t.Fatalf("order 0 rejected: %v", err)
	}
	if item.ResourceID != "a" || item.Order != 0 {
		t.Errorf("item = %+v", item)
	}

	var missing ReorderItem
	if err := binding.JSON.BindBody([]byte(`{"order":1}`), &missing); err == nil {
		t.Error("missing resourceId must be rejected")
	}
}

func TestCreateResourceInputBindingAllowsZeroOrder(t *testing.T) {
	var in CreateResourceInput
	body := []byte(`{"type":"resource","title":"欢迎","order":0}`)
	if err := binding.JSON.BindBody(body, &in); err != nil {
		t.Fatalf("order 0 rejected: %v", err)
	}
	if in.Order != 0 {
		t.Errorf("Order = %d, want 0", in.Order)
	}
}
