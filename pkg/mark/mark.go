// Package mark assigns short aliases to resume entities and resolves the
// citation markers an assistant emits back to real entity ids.
//
// Aliases are grouped by kind: PG for pages, P for projects, B for bullet
// points, BR for branches. Markers look like [Project:"some text"]{P2};
// page markers may carry a line reference, [Page:"some text"]{PG1:14}.
package mark

import (
	"fmt"
	"regexp"
	"strconv"
)

type IdMap struct {
	Forward map[string]string `json:"forward"` // entity id -> alias
	Reverse map[string]string `json:"reverse"` // alias -> entity id
}

// Corpus lists entity ids in display order. Alias assignment walks pages
// first, then projects, then each project's bullets, then each bullet's
// branches, with one monotonically increasing counter per kind.
type Corpus struct {
	Pages    []string
	Projects []ProjectGroup
}

type ProjectGroup struct {
	ID      string
	Bullets []BulletGroup
}

type BulletGroup struct {
	ID       string
	Branches []string
}

// BuildAliases is deterministic: identical corpus ordering always yields
// identical aliases.
func BuildAliases(c Corpus) IdMap {
	m := IdMap{
		Forward: make(map[string]string),
		Reverse: make(map[string]string),
	}

	assign := func(prefix string, counter *int, id string) {
		if id == "" {
			return
		}
		*counter++
		alias := fmt.Sprintf("%s%d", prefix, *counter)
		m.Forward[id] = alias
		m.Reverse[alias] = id
	}

	var pages, projects, bullets, branches int
	for _, id := range c.Pages {
		assign("PG", &pages, id)
	}
	for _, p := range c.Projects {
		assign("P", &projects, p.ID)
	}
	for _, p := range c.Projects {
		for _, b := range p.Bullets {
			assign("B", &bullets, b.ID)
		}
	}
	for _, p := range c.Projects {
		for _, b := range p.Bullets {
			for _, br := range b.Branches {
				assign("BR", &branches, br)
			}
		}
	}
	return m
}

var citationRegexp = regexp.MustCompile(`\[(Project|Bullet|Branch|Page):"([^"]*)"\]\{(PG\d+|P\d+|B\d+|BR\d+)(?::(\d+))?\}`)

type Reference struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	SimpleID string `json:"simple_id"`
	EntityID string `json:"entity_id"`
	Line     int    `json:"line,omitempty"`
}

type ResolveResult struct {
	Text       string      `json:"text"`
	References []Reference `json:"references"`
	// Dropped counts markers whose alias had no reverse mapping.
	// DroppedTypes holds the marker type of each, in encounter order.
	Dropped      int      `json:"-"`
	DroppedTypes []string `json:"-"`
}

// ResolveCitations scans text for citation markers and resolves each alias
// through idMap.Reverse. Markers whose alias is unknown are dropped rather
// than guessed. References come back in marker order, left to right, and
// the text itself is returned untouched.
func ResolveCitations(text string, idMap IdMap) ResolveResult {
	result := ResolveResult{Text: text}

	matches := citationRegexp.FindAllStringSubmatch(text, -1)
	for _, match := range matches {
		alias := match[3]
		entityID, ok := idMap.Reverse[alias]
		if !ok {
			result.Dropped++
			result.DroppedTypes = append(result.DroppedTypes, match[1])
			continue
		}

		ref := Reference{
			Type:     match[1],
			Text:     match[2],
			SimpleID: alias,
			EntityID: entityID,
		}
		if match[4] != "" {
			line, err := strconv.Atoi(match[4])
			if err == nil {
				ref.Line = line
			}
		}
		result.References = append(result.References, ref)
	}
	return result
}
