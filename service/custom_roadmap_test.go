package service

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type fakeCustomRoadmapRepo struct {
	roadmaps map[string]entity.CustomRoadmap
}

func newFakeCustomRoadmapRepo() *fakeCustomRoadmapRepo {
	return &fakeCustomRoadmapRepo{roadmaps: map[string]entity.CustomRoadmap{}}
}

func (f *fakeCustomRoadmapRepo) ListCustomRoadmaps(ctx context.Context, userId string) ([]entity.CustomRoadmap, error) {
	var res []entity.CustomRoadmap
	for _, r := range f.roadmaps {
		if r.UserId == userId {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UpdatedAt.After(res[j].UpdatedAt) })
	return res, nil
}

func (f *fakeCustomRoadmapRepo) GetCustomRoadmap(ctx context.Context, id string, userId string) (*entity.CustomRoadmap, error) {
	r, ok := f.roadmaps[id]
	if !ok || r.UserId != userId {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeCustomRoadmapRepo) CreateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error {
	f.roadmaps[ent.Id] = *ent
	return nil
}

func (f *fakeCustomRoadmapRepo) UpdateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error {
	f.roadmaps[ent.Id] = *ent
	return nil
}

func (f *fakeCustomRoadmapRepo) DeleteCustomRoadmap(ctx context.Context, id string, userId string) (bool, error) {
	r, ok := f.roadmaps[id]
	if !ok || r.UserId != userId {
		return false, nil
	}
	delete(f.roadmaps, id)
	return true, nil
}

func newTestCustomRoadmapService(repo *fakeCustomRoadmapRepo, now time.Time) (*customRoadmapServiceImpl, *time.Time) {
	clock := now
	svc := &customRoadmapServiceImpl{customRoadmapRepo: repo, now: func() time.Time { return clock }}
	return svc, &clock
}

func TestCustomRoadmapService_Create(t *testing.T) {
	svc, _ := newTestCustomRoadmapService(newFakeCustomRoadmapRepo(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := userContext("u1")

	_, err := svc.CreateCustomRoadmap(ctx, view.CustomRoadmapReq{Name: "My path"})
	if statusOf(err) != http.StatusBadRequest {
		t.Errorf("CreateCustomRoadmap() without clientId error = %v, want 400", err)
	}

	res, err := svc.CreateCustomRoadmap(ctx, view.CustomRoadmapReq{
		Name:     "  My path ",
		ClientId: "c-1",
		Topics:   []view.CustomTopic{{Title: "One"}, {Id: "keep", Title: "Two"}},
	})
	if err != nil {
		t.Fatalf("CreateCustomRoadmap() error = %v", err)
	}
	if res.Name != "My path" || !res.IsCustom || res.UserId != "u1" {
		t.Errorf("CreateCustomRoadmap() = %+v", res)
	}
	if res.Topics[0].Id == "" || res.Topics[1].Id != "keep" {
		t.Errorf("topic ids = %q, %q", res.Topics[0].Id, res.Topics[1].Id)
	}

	notCustom := false
	res, err = svc.CreateCustomRoadmap(ctx, view.CustomRoadmapReq{Name: "x", ClientId: "c-2", IsCustom: &notCustom})
	if err != nil || res.IsCustom {
		t.Errorf("CreateCustomRoadmap() with isCustom=false = %+v, %v", res, err)
	}
}

func TestCustomRoadmapService_UpdateAndOwnership(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, clock := newTestCustomRoadmapService(newFakeCustomRoadmapRepo(), start)
	ctx := userContext("u1")

	first, err := svc.CreateCustomRoadmap(ctx, view.CustomRoadmapReq{Name: "First", Description: "d", ClientId: "c-1"})
	if err != nil {
		t.Fatalf("CreateCustomRoadmap() error = %v", err)
	}
	*clock = start.Add(time.Hour)
	if _, err := svc.CreateCustomRoadmap(ctx, view.CustomRoadmapReq{Name: "Second", ClientId: "c-2"}); err != nil {
		t.Fatalf("CreateCustomRoadmap() error = %v", err)
	}

	*clock = start.Add(2 * time.Hour)
	name := "Renamed"
	updated, err := svc.UpdateCustomRoadmap(ctx, first.Id, view.CustomRoadmapUpdateReq{Name: &name})
	if err != nil {
		t.Fatalf("UpdateCustomRoadmap() error = %v", err)
	}
	if updated.Name != "Renamed" || updated.Description != "d" || !updated.UpdatedAt.Equal(*clock) {
		t.Errorf("UpdateCustomRoadmap() = %+v", updated)
	}

	empty := " "
	if _, err := svc.UpdateCustomRoadmap(ctx, first.Id, view.CustomRoadmapUpdateReq{Name: &empty}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("UpdateCustomRoadmap() with blank name error = %v, want 400", err)
	}

	list, err := svc.ListCustomRoadmaps(ctx)
	if err != nil || len(list) != 2 || list[0].Id != first.Id {
		t.Errorf("ListCustomRoadmaps() = %+v, %v", list, err)
	}

	other := userContext("u2")
	if _, err := svc.GetCustomRoadmap(other, first.Id); statusOf(err) != http.StatusNotFound {
		t.Errorf("GetCustomRoadmap() by another user error = %v, want 404", err)
	}
	if err := svc.DeleteCustomRoadmap(other, first.Id); statusOf(err) != http.StatusNotFound {
		t.Errorf("DeleteCustomRoadmap() by another user error = %v, want 404", err)
	}
	if err := svc.DeleteCustomRoadmap(ctx, first.Id); err != nil {
		t.Errorf("DeleteCustomRoadmap() error = %v", err)
	}
}
