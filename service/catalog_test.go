package service

import (
	"strings"
	"testing"

	"github.com/Netcracker/qubership-roadmap-service/resources"
)

const testCatalog = `
categories:
  - name: frontend
    roadmaps: [Frontend, React]
  - name: devops
    roadmaps: [DevOps, Docker]
role_based:
  - title: Frontend Beginner
    sections:
      - title: HTML
        items: [{title: Semantic HTML}]
  - title: Frontend
    sections:
      - title: Internet
      - title: CSS
        items: [{title: Flexbox}, {title: Grid}]
  - title: DevOps
    sections:
      - title: Linux
skill_based:
  - title: React
    sections:
      - title: Components
      - title: Hooks
      - title: State
  - title: Docker
    sections:
      - title: Images
`

func newTestCatalog(t *testing.T) CatalogService {
	t.Helper()
	c, err := NewCatalogService([]byte(testCatalog))
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}
	return c
}

func TestNewCatalogService_Embedded(t *testing.T) {
	c, err := NewCatalogService(resources.CatalogYaml)
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}
	titles := c.GetTitles()
	if len(titles.RoleBased) == 0 || len(titles.SkillBased) == 0 {
		t.Errorf("GetTitles() = %+v", titles)
	}
}

func TestNewCatalogService_Empty(t *testing.T) {
	if _, err := NewCatalogService([]byte("categories: []")); err == nil {
		t.Error("NewCatalogService(empty) error = nil")
	}
	if _, err := NewCatalogService([]byte("role_based: [")); err == nil {
		t.Error("NewCatalogService(broken yaml) error = nil")
	}
}

func TestFindMatchingRoadmaps(t *testing.T) {
	c := newTestCatalog(t)

	got := c.FindMatchingRoadmaps("react")
	want := []string{"Frontend", "React"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FindMatchingRoadmaps(react) = %v, want %v", got, want)
	}
	// second call is served from cache and must not share the slice
	got[0] = "changed"
	if again := c.FindMatchingRoadmaps("React"); again[0] != "Frontend" {
		t.Errorf("cached result was modified: %v", again)
	}
	if got := c.FindMatchingRoadmaps("cobol"); len(got) != 0 {
		t.Errorf("FindMatchingRoadmaps(cobol) = %v, want empty", got)
	}
}

func TestBuildContext(t *testing.T) {
	c := newTestCatalog(t)

	ctx := c.BuildContext("react", QuestionsContextHeader, 2, false)
	if !strings.HasPrefix(ctx, QuestionsContextHeader) {
		t.Errorf("context does not start with header: %s", ctx)
	}
	if !strings.Contains(ctx, "React Path:\n1. Components\n2. Hooks\n\n") || strings.Contains(ctx, "State") {
		t.Errorf("sections are not limited: %s", ctx)
	}
	if !strings.Contains(ctx, "2. CSS - Flexbox, Grid") {
		t.Errorf("items are not listed: %s", ctx)
	}

	fallback := c.BuildContext("cobol", RoadmapContextHeader, 0, true)
	if !strings.Contains(fallback, noMatchNote) || !strings.Contains(fallback, "Frontend Beginner Path:") {
		t.Errorf("fallback context = %s", fallback)
	}
	if strings.Contains(fallback, "DevOps Path:") {
		t.Errorf("fallback context contains non general roadmaps: %s", fallback)
	}
}
