package view

type CatalogItem struct {
	Title string `json:"title" yaml:"title"`
}

type CatalogSection struct {
	Title string        `json:"title" yaml:"title"`
	Items []CatalogItem `json:"items" yaml:"items"`
}

type CatalogRoadmap struct {
	Title    string           `json:"title" yaml:"title"`
	Sections []CatalogSection `json:"sections" yaml:"sections"`
}

type CatalogCategory struct {
	Name     string   `json:"name" yaml:"name"`
	Roadmaps []string `json:"roadmaps" yaml:"roadmaps"`
}

type Catalog struct {
	Categories []CatalogCategory `json:"categories" yaml:"categories"`
	RoleBased  []CatalogRoadmap  `json:"roleBased" yaml:"role_based"`
	SkillBased []CatalogRoadmap  `json:"skillBased" yaml:"skill_based"`
}

type CatalogTitles struct {
	RoleBased  []string `json:"roleBased"`
	SkillBased []string `json:"skillBased"`
}

type CatalogMatch struct {
	Topic    string   `json:"topic"`
	Roadmaps []string `json:"roadmaps"`
}
