package prompt

import (
	"fmt"
	"strings"
)

type Style string

const (
	// StyleRich asks for the four common sections plus category extras.
	StyleRich Style = "rich"
	// StyleBasic is the single HR consultant prompt.
	StyleBasic Style = "basic"
)

const (
	CareerPlanning = "career planning"
	MarketingPlan  = "marketing plan"
	DataAnalyst    = "data analyst"
)

const closingInstruction = "The score and suggestions must be based entirely on the submitted content. " +
	"Give a personalized, specific and actionable analysis and avoid templated replies."

// Category is a selectable analysis target.
type Category struct {
	Name   string   `yaml:"name"`
	System string   `yaml:"system"`
	Extras []string `yaml:"extras"`
}

// Catalog holds the categories offered to users and how prompts are built for them.
type Catalog struct {
	Style         Style      `yaml:"-"`
	DefaultSystem string     `yaml:"default_system"`
	Categories    []Category `yaml:"categories"`
}

// Rich returns the built-in catalog for the rich profile.
func Rich() *Catalog {
	return &Catalog{
		Style:         StyleRich,
		DefaultSystem: "You are a consultant with 10 years of experience in career planning, data analysis and marketing strategy.",
		Categories: []Category{
			{
				Name:   CareerPlanning,
				System: "You are a senior career planning consultant with 10 years of experience. You analyse resumes and career paths and give professional, concrete and actionable advice.",
				Extras: []string{"Career development path planning", "Suggestions for improving competitiveness"},
			},
			{
				Name:   MarketingPlan,
				System: "You are a top marketing strategist with deep industry experience. You analyse the feasibility, originality and market value of marketing plans in depth.",
				Extras: []string{"Feasible revisions for the problems found in the plan", "Market value positioning analysis"},
			},
			{
				Name:   DataAnalyst,
				System: "You are a senior data analyst fluent in data-driven decision making. You assess data analysis skills and project quality.",
				Extras: []string{"Technical competency assessment", "Project quality analysis"},
			},
		},
	}
}

// Basic returns the built-in catalog for the basic profile.
func Basic() *Catalog {
	const system = "You are a professional resume analysis consultant. Give objective, personalized analysis and advice based on the resume content."
	names := []string{"python developer", "product manager", DataAnalyst, "UI/UX designer"}
	cats := make([]Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, Category{Name: n, System: system})
	}
	return &Catalog{Style: StyleBasic, DefaultSystem: system, Categories: cats}
}

// Names lists category names in display order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		out = append(out, cat.Name)
	}
	return out
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// Canonical returns the catalog spelling of a case-insensitively matched name.
func (c *Catalog) Canonical(name string) (string, bool) {
	cat, ok := c.lookup(strings.TrimSpace(name))
	if !ok {
		return "", false
	}
	return cat.Name, true
}

// Default is the first category, preselected by front-ends.
func (c *Catalog) Default() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0].Name
}

func (c *Catalog) lookup(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// SystemMessage picks the category's system message, or the generic one
// for unknown categories.
func (c *Catalog) SystemMessage(category string) string {
	if cat, ok := c.lookup(category); ok && cat.System != "" {
		return cat.System
	}
	return c.DefaultSystem
}

// Build returns the system and user messages for content analysed under category.
func (c *Catalog) Build(category, content string) (system, user string) {
	system = c.SystemMessage(category)
	if c.Style == StyleBasic {
		return system, buildBasic(category, content)
	}
	cat, _ := c.lookup(category)
	return system, buildRich(category, content, cat.Extras)
}

func buildRich(category, content string, extras []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please give a professional assessment of the following content for %s:\n\n", category)
	b.WriteString(content)
	b.WriteString("\n\nPlease provide:\n")
	asks := []string{
		"Overall score (0-100)",
		"Detailed analysis and improvement suggestions",
		"Core strengths and development advice",
		"Differentiation analysis",
	}
	asks = append(asks, extras...)
	for i, a := range asks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\n")
	b.WriteString(closingInstruction)
	return b.String()
}

func buildBasic(position, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a professional HR consultant, analyse the following resume for the %s position and judge whether it meets the position's requirements: %s\n", position, content)
	b.WriteString("Please provide 1. Overall score (0-100) 2. Detailed analysis and improvement suggestions 3. Core strengths and development advice. ")
	b.WriteString(closingInstruction)
	return b.String()
}
