package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gatherhub/gatherhub/internal/app/system/paging"
)

func TestParse_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups", nil)

	p := paging.Parse(r)
	if p.Page != 1 || p.Limit != paging.DefaultLimit {
		t.Errorf("got page %d limit %d, want 1/%d", p.Page, p.Limit, paging.DefaultLimit)
	}
}

func TestParse_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups?page=3&limit=25", nil)

	p := paging.Parse(r)
	if p.Page != 3 || p.Limit != 25 {
		t.Errorf("got page %d limit %d, want 3/25", p.Page, p.Limit)
	}
	if p.Skip() != 50 {
		t.Errorf("skip: got %d, want 50", p.Skip())
	}
}

func TestParse_InvalidValuesFallBack(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups?page=zero&limit=-4", nil)

	p := paging.Parse(r)
	if p.Page != 1 || p.Limit != paging.DefaultLimit {
		t.Errorf("got page %d limit %d, want defaults", p.Page, p.Limit)
	}
}

func TestParse_CapsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups?limit=5000", nil)

	p := paging.Parse(r)
	if p.Limit != paging.MaxLimit {
		t.Errorf("limit: got %d, want %d", p.Limit, paging.MaxLimit)
	}
}

func TestMeta_PartialLastPage(t *testing.T) {
	p := paging.Page{Page: 1, Limit: 10}

	m := p.Meta(25)
	if m.Pages != 3 {
		t.Errorf("pages: got %d, want 3", m.Pages)
	}
	if m.Total != 25 {
		t.Errorf("total: got %d, want 25", m.Total)
	}
}

func TestMeta_ExactPages(t *testing.T) {
	p := paging.Page{Page: 2, Limit: 10}

	if m := p.Meta(30); m.Pages != 3 {
		t.Errorf("pages: got %d, want 3", m.Pages)
	}
}

func TestSlice_Window(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := paging.Slice(items, paging.Page{Page: 2, Limit: 2})
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("got %v, want [3 4]", got)
	}
}

func TestSlice_PastEnd(t *testing.T) {
	items := []int{1, 2, 3}

	got := paging.Slice(items, paging.Page{Page: 5, Limit: 10})
	if len(got) != 0 {
		t.Errorf("got %v, want empty window", got)
	}
}

func TestSlice_ShortLastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := paging.Slice(items, paging.Page{Page: 3, Limit: 2})
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("got %v, want [5]", got)
	}
}
