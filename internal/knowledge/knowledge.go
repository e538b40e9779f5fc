// Package knowledge holds the static reference data the recommendation
// strategies score against: genre and organization membership, known
// collaborations, and trending entities per purchase category.
//
// A KnowledgeBase is immutable once built and safe for concurrent use.
package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/model"
)

// Attributes are the similarity attributes of a single entity.
type Attributes struct {
	Organization  string
	Genres        []string
	Collaborators []string
}

// Document is the serialized form of a knowledge base.
type Document struct {
	Genres        map[string][]string `yaml:"genres"`
	Organizations map[string][]string `yaml:"organizations"`
	Trending      map[string][]string `yaml:"trending"`
	Entities      []EntityDocument    `yaml:"entities"`
}

// EntityDocument describes one entity in a Document.
type EntityDocument struct {
	Name          string   `yaml:"name"`
	Organization  string   `yaml:"organization,omitempty"`
	Genres        []string `yaml:"genres,omitempty"`
	Collaborators []string `yaml:"collaborators,omitempty"`
}

// KnowledgeBase is the validated, indexed form of a Document.
type KnowledgeBase struct {
	entities     map[model.EntityID]Attributes
	names        map[model.EntityID]string
	genreMembers map[string][]string
	orgMembers   map[string][]string
	trending     map[model.PurchaseCategory][]string
	order        []model.EntityID
}

// Build validates doc and indexes it. All validation problems are reported
// together, each wrapped in common.ErrInvalidKnowledge.
func Build(doc Document) (*KnowledgeBase, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	kb := &KnowledgeBase{
		entities:     make(map[model.EntityID]Attributes, len(doc.Entities)),
		names:        make(map[model.EntityID]string, len(doc.Entities)),
		genreMembers: make(map[string][]string, len(doc.Genres)),
		orgMembers:   make(map[string][]string, len(doc.Organizations)),
		trending:     make(map[model.PurchaseCategory][]string, len(doc.Trending)),
	}

	for genre, members := range doc.Genres {
		kb.genreMembers[strings.TrimSpace(genre)] = cleanList(members)
	}
	for org, members := range doc.Organizations {
		kb.orgMembers[strings.TrimSpace(org)] = cleanList(members)
	}
	for raw, members := range doc.Trending {
		category, _ := model.ParsePurchaseCategory(raw) // checked by Validate
		kb.trending[category] = cleanList(members)
	}

	for _, e := range doc.Entities {
		name := strings.TrimSpace(e.Name)
		id := model.IDFromName(name)
		attrs := Attributes{
			Organization:  strings.TrimSpace(e.Organization),
			Genres:        cleanList(e.Genres),
			Collaborators: cleanList(e.Collaborators),
		}
		kb.entities[id] = attrs
		kb.names[id] = name
		kb.order = append(kb.order, id)

		// Entities declaring a genre or organization are members of it too,
		// after the explicitly listed members.
		for _, g := range attrs.Genres {
			kb.genreMembers[g] = appendUnique(kb.genreMembers[g], name)
		}
		if attrs.Organization != "" {
			kb.orgMembers[attrs.Organization] = appendUnique(kb.orgMembers[attrs.Organization], name)
		}
	}

	return kb, nil
}

// Validate reports every structural problem in doc.
func Validate(doc Document) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", common.ErrInvalidKnowledge, fmt.Sprintf(format, args...)))
	}

	seen := make(map[model.EntityID]string, len(doc.Entities))
	for i, e := range doc.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			invalid("entity at index %d has no name", i)
			continue
		}
		id := model.IDFromName(name)
		if prev, ok := seen[id]; ok {
			invalid("entity %q duplicates %q", name, prev)
		}
		seen[id] = name

		for _, g := range e.Genres {
			if strings.TrimSpace(g) == "" {
				invalid("entity %q has an empty genre", name)
			}
		}
		for _, c := range e.Collaborators {
			if model.IDFromName(c) == id {
				invalid("entity %q lists itself as a collaborator", name)
			}
			if strings.TrimSpace(c) == "" {
				invalid("entity %q has an empty collaborator", name)
			}
		}
	}

	checkGroups := func(kind string, groups map[string][]string) {
		for group, members := range groups {
			if strings.TrimSpace(group) == "" {
				invalid("%s with empty name", kind)
			}
			dup := make(map[model.EntityID]bool, len(members))
			for _, m := range members {
				if strings.TrimSpace(m) == "" {
					invalid("%s %q has an empty member", kind, group)
					continue
				}
				id := model.IDFromName(m)
				if dup[id] {
					invalid("%s %q lists %q twice", kind, group, m)
				}
				dup[id] = true
			}
		}
	}
	checkGroups("genre", doc.Genres)
	checkGroups("organization", doc.Organizations)
	checkGroups("trending category", doc.Trending)

	categories := make(map[model.PurchaseCategory]bool, len(doc.Trending))
	for raw := range doc.Trending {
		category, err := model.ParsePurchaseCategory(raw)
		if err != nil {
			invalid("trending: %v", err)
			continue
		}
		if categories[category] {
			invalid("trending category %q declared twice", category)
		}
		categories[category] = true
	}

	return errors.Join(errs...)
}

// Lookup returns the attributes of the named entity.
func (kb *KnowledgeBase) Lookup(name string) (Attributes, bool) {
	attrs, ok := kb.entities[model.IDFromName(name)]
	return attrs, ok
}

// Entity returns the canonical entity for name.
func (kb *KnowledgeBase) Entity(name string) (model.Entity, bool) {
	id := model.IDFromName(name)
	canonical, ok := kb.names[id]
	if !ok {
		return model.Entity{}, false
	}
	return model.Entity{ID: id, Name: canonical}, true
}

// Entities returns every described entity in declaration order.
func (kb *KnowledgeBase) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(kb.order))
	for _, id := range kb.order {
		out = append(out, model.Entity{ID: id, Name: kb.names[id]})
	}
	return out
}

// GenreMembers returns the entities tagged with genre.
func (kb *KnowledgeBase) GenreMembers(genre string) []string {
	return kb.genreMembers[genre]
}

// OrganizationMembers returns the entities under org.
func (kb *KnowledgeBase) OrganizationMembers(org string) []string {
	return kb.orgMembers[org]
}

// Trending returns the entities trending in category.
func (kb *KnowledgeBase) Trending(category model.PurchaseCategory) []string {
	return kb.trending[category]
}

// Genres returns the number of known genres.
func (kb *KnowledgeBase) Genres() int { return len(kb.genreMembers) }

// Organizations returns the number of known organizations.
func (kb *KnowledgeBase) Organizations() int { return len(kb.orgMembers) }

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(list []string, name string) []string {
	id := model.IDFromName(name)
	for _, existing := range list {
		if model.IDFromName(existing) == id {
			return list
		}
	}
	return append(list, name)
}
