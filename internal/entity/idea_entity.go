package entity

import (
	"strings"
)

type IdeaStatus string

const (
	StatusDraft    IdeaStatus = "draft"
	StatusAnalyzed IdeaStatus = "analyzed"
	StatusImproved IdeaStatus = "improved"
	StatusSrsReady IdeaStatus = "srs_ready"
)

var statusRank = map[IdeaStatus]int{
	StatusDraft:    0,
	StatusAnalyzed: 1,
	StatusImproved: 2,
	StatusSrsReady: 3,
}

func (s IdeaStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

func (s IdeaStatus) AtLeast(other IdeaStatus) bool {
	return statusRank[s] >= statusRank[other]
}

// Advance returns the later of s and next. Status never moves backwards.
func (s IdeaStatus) Advance(next IdeaStatus) IdeaStatus {
	if !next.Valid() || s.AtLeast(next) {
		return s
	}
	return next
}

type ImprovementType string

const (
	ImprovementFeature   ImprovementType = "feature"
	ImprovementStrategic ImprovementType = "strategic"
	ImprovementTechnical ImprovementType = "technical"
)

type Competitor struct {
	Name            string   `json:"name"`
	Url             string   `json:"url"`
	SimilarityScore float64  `json:"similarityScore"`
	Problem         string   `json:"problem"`
	Solution        string   `json:"solution"`
	MainFeatures    []string `json:"mainFeatures"`
	RelationToIdea  string   `json:"relationToIdea"`
}

type SimilarityAnalysis struct {
	Competitors           []Competitor `json:"competitors"`
	Summary               string       `json:"summary"`
	DifferentiationFactor string       `json:"differentiationFactor"`
}

type ImprovementSuggestion struct {
	Id                string          `json:"id"`
	Type              ImprovementType `json:"type"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	SourceInspiration string          `json:"sourceInspiration,omitempty"`
}

// ProductIdea is serialized as-is into the local store, so the json tags
// are part of the on-disk format.
type ProductIdea struct {
	Id                   string                  `json:"id"`
	OwnerId              string                  `json:"user_id,omitempty"`
	RawIdea              string                  `json:"rawIdea"`
	Title                string                  `json:"title"`
	Problem              string                  `json:"problem"`
	Solution             string                  `json:"solution"`
	Features             []string                `json:"features"`
	CreatedAt            int64                   `json:"createdAt"`
	Status               IdeaStatus              `json:"status"`
	Analysis             *SimilarityAnalysis     `json:"analysis,omitempty"`
	Improvements         []ImprovementSuggestion `json:"improvements"`
	AcceptedImprovements []string                `json:"acceptedImprovements"`
	Srs                  *string                 `json:"srs,omitempty"`
}

func (p *ProductIdea) Clone() *ProductIdea {
	if p == nil {
		return nil
	}
	c := *p
	c.Features = cloneStrings(p.Features)
	c.AcceptedImprovements = cloneStrings(p.AcceptedImprovements)
	if p.Improvements != nil {
		c.Improvements = append([]ImprovementSuggestion{}, p.Improvements...)
	}
	if p.Analysis != nil {
		a := *p.Analysis
		a.Competitors = make([]Competitor, len(p.Analysis.Competitors))
		for i, comp := range p.Analysis.Competitors {
			comp.MainFeatures = append([]string(nil), comp.MainFeatures...)
			a.Competitors[i] = comp
		}
		c.Analysis = &a
	}
	if p.Srs != nil {
		s := *p.Srs
		c.Srs = &s
	}
	return &c
}

// cloneStrings keeps nil and empty apart, both survive a store round trip.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func (p *ProductIdea) IsAccepted(title string) bool {
	for _, t := range p.AcceptedImprovements {
		if t == title {
			return true
		}
	}
	return false
}

// ToggleImprovement flips title in the accepted set.
func (p *ProductIdea) ToggleImprovement(title string) {
	if p.IsAccepted(title) {
		kept := make([]string, 0, len(p.AcceptedImprovements))
		for _, t := range p.AcceptedImprovements {
			if t != title {
				kept = append(kept, t)
			}
		}
		p.AcceptedImprovements = kept
		return
	}
	p.AcceptedImprovements = append(p.AcceptedImprovements, title)
}

// HasImprovementTitle reports whether title belongs to the current suggestion list.
func (p *ProductIdea) HasImprovementTitle(title string) bool {
	for _, imp := range p.Improvements {
		if imp.Title == title {
			return true
		}
	}
	return false
}

// FinalFeatures is the original feature list followed by the accepted
// improvements, deduplicated case-insensitively while keeping first order.
func (p *ProductIdea) FinalFeatures() []string {
	seen := make(map[string]struct{}, len(p.Features)+len(p.AcceptedImprovements))
	out := make([]string, 0, len(p.Features)+len(p.AcceptedImprovements))
	for _, f := range append(append([]string{}, p.Features...), p.AcceptedImprovements...) {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(f))
	}
	return out
}

// DisplayTitle falls back to the first line of the raw idea while the
// idea has not been analyzed yet.
func (p *ProductIdea) DisplayTitle() string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	firstLine := strings.TrimSpace(strings.SplitN(p.RawIdea, "\n", 2)[0])
	if firstLine == "" {
		return "New Product Idea"
	}
	runes := []rune(firstLine)
	if len(runes) > 50 {
		return string(runes[:47]) + "..."
	}
	return firstLine
}

// ParseFeatureLines splits newline separated feature text, dropping blank
// lines and leading bullet markers.
func ParseFeatureLines(text string) []string {
	features := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(line[1:])
		}
		if line != "" {
			features = append(features, line)
		}
	}
	return features
}
