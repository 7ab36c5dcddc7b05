package service

import (
	"fmt"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	QuestionsContextHeader = "RELEVANT LEARNING PATHS FROM ROADMAP.SH:"
	RoadmapContextHeader   = "VALIDATED LEARNING PATHS FROM ROADMAP.SH:"

	questionsContextSections = 5

	noMatchNote = "No exact roadmap found for this topic, but here are some general learning paths that might be relevant:"
)

var generalRoadmaps = []string{"Frontend Beginner", "Backend Beginner", "Full Stack"}

type CatalogService interface {
	GetTitles() view.CatalogTitles
	FindMatchingRoadmaps(topic string) []string
	// BuildContext renders the roadmaps matching topic for a prompt. maxSections <= 0 means all sections.
	BuildContext(topic string, header string, maxSections int, withNoMatchNote bool) string
}

func NewCatalogService(catalogYaml []byte) (CatalogService, error) {
	var catalog view.Catalog
	if err := yaml.Unmarshal(catalogYaml, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap catalog: %w", err)
	}
	if len(catalog.RoleBased) == 0 && len(catalog.SkillBased) == 0 {
		return nil, fmt.Errorf("roadmap catalog is empty")
	}
	log.Infof("Roadmap catalog loaded: %d categories, %d role based and %d skill based roadmaps",
		len(catalog.Categories), len(catalog.RoleBased), len(catalog.SkillBased))

	return &catalogServiceImpl{
		catalog:    catalog,
		matchCache: libcache.LRU.New(500),
	}, nil
}

type catalogServiceImpl struct {
	catalog    view.Catalog
	matchCache libcache.Cache
}

func (c catalogServiceImpl) GetTitles() view.CatalogTitles {
	res := view.CatalogTitles{
		RoleBased:  make([]string, 0, len(c.catalog.RoleBased)),
		SkillBased: make([]string, 0, len(c.catalog.SkillBased)),
	}
	for _, r := range c.catalog.RoleBased {
		res.RoleBased = append(res.RoleBased, r.Title)
	}
	for _, r := range c.catalog.SkillBased {
		res.SkillBased = append(res.SkillBased, r.Title)
	}
	return res
}

func (c catalogServiceImpl) FindMatchingRoadmaps(topic string) []string {
	topicLower := strings.ToLower(strings.TrimSpace(topic))
	if topicLower == "" {
		return []string{}
	}
	if cached, ok := c.matchCache.Load(topicLower); ok {
		return append([]string{}, cached.([]string)...)
	}

	matches := func(name string) bool {
		nameLower := strings.ToLower(name)
		return strings.Contains(nameLower, topicLower) || strings.Contains(topicLower, nameLower)
	}

	var result []string
	for _, category := range c.catalog.Categories {
		for _, name := range category.Roadmaps {
			if matches(name) {
				result = append(result, category.Roadmaps...)
				break
			}
		}
	}
	for _, list := range [][]view.CatalogRoadmap{c.catalog.RoleBased, c.catalog.SkillBased} {
		for _, r := range list {
			if matches(r.Title) {
				result = append(result, r.Title)
			}
		}
	}
	result = utils.UniqueStrings(result)

	c.matchCache.Store(topicLower, result)
	return append([]string{}, result...)
}

func (c catalogServiceImpl) BuildContext(topic string, header string, maxSections int, withNoMatchNote bool) string {
	matching := c.FindMatchingRoadmaps(topic)
	relevant := c.roadmapsByTitle(matching)

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	if len(relevant) == 0 {
		if withNoMatchNote {
			sb.WriteString(noMatchNote)
			sb.WriteString("\n\n")
		}
		for _, r := range c.catalog.RoleBased {
			if utils.SliceContains(generalRoadmaps, r.Title) {
				relevant = append(relevant, r)
			}
		}
	}

	for _, r := range relevant {
		sb.WriteString(r.Title)
		sb.WriteString(" Path:\n")
		sections := r.Sections
		if maxSections > 0 && len(sections) > maxSections {
			sections = sections[:maxSections]
		}
		for i, section := range sections {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, section.Title))
			if len(section.Items) > 0 {
				items := make([]string, 0, len(section.Items))
				for _, item := range section.Items {
					items = append(items, item.Title)
				}
				sb.WriteString(" - ")
				sb.WriteString(strings.Join(items, ", "))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// roadmapsByTitle keeps catalog order: role based roadmaps first, then skill based.
func (c catalogServiceImpl) roadmapsByTitle(titles []string) []view.CatalogRoadmap {
	var res []view.CatalogRoadmap
	for _, list := range [][]view.CatalogRoadmap{c.catalog.RoleBased, c.catalog.SkillBased} {
		for _, r := range list {
			if utils.SliceContains(titles, r.Title) {
				res = append(res, r)
			}
		}
	}
	return res
}
