package wiki

import "strings"

// Candidate is an unresolved knowledge-graph result supplied by the caller.
type Candidate struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	DetailedDescription string   `json:"detailedDescription,omitempty"`
	Types               []string `json:"types,omitempty"`
	ImageURL            string   `json:"imageUrl,omitempty"`
}

// PrimaryType is the first declared type, or "Thing".
func (c Candidate) PrimaryType() string {
	for _, t := range c.Types {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return "Thing"
}

// SearchText is the free text used for hint extraction.
func (c Candidate) SearchText() string {
	return strings.TrimSpace(c.Description + " " + c.DetailedDescription)
}

var suitableTypes = []string{"Movie", "Book", "TVSeries", "VideoGame", "Person", "Place", "Event", "Thing"}

var scaryKeywords = []string{
	"horror", "scary", "frightening", "terrifying", "creepy", "spooky", "haunted",
	"ghost", "monster", "demon", "vampire", "zombie", "thriller", "supernatural", "paranormal",
}

// IsSuitable is the heuristic gate applied before spending an analysis on a candidate.
func (c Candidate) IsSuitable() bool {
	for _, t := range c.Types {
		for _, st := range suitableTypes {
			if strings.Contains(t, st) {
				return true
			}
		}
	}
	text := strings.ToLower(c.Name + " " + c.Description + " " + c.DetailedDescription)
	for _, kw := range scaryKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// CandidateFromEntity rebuilds a candidate from a stored record for re-enrichment.
func CandidateFromEntity(e *ScaryEntity) Candidate {
	c := Candidate{
		ID:    e.GoogleKGID,
		Name:  e.Name,
		Types: []string{e.EntityType},
	}
	if len(e.EntityTypes) > 0 {
		c.Types = append([]string(nil), e.EntityTypes...)
	}
	if e.Description != nil {
		c.Description = *e.Description
	}
	if e.ImageURL != nil {
		c.ImageURL = *e.ImageURL
	}
	if e.Wikipedia.Extract != nil {
		c.DetailedDescription = *e.Wikipedia.Extract
	}
	return c
}
