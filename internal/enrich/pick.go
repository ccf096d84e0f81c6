package enrich

import "strings"

var creatorRoles = []string{"Original Creator", "Original Story", "Original Work", "Creator", "Story"}

// PickCreator chooses the original author from the staff list: the first
// edge whose role matches the highest-priority creator role, else the first
// named staff member with role "Staff" when none is given.
func PickCreator(edges []StaffEdge) map[string]any {
	for _, want := range creatorRoles {
		w := Norm(want)
		for _, e := range edges {
			role := ""
			if e.Role != nil {
				role = *e.Role
			}
			if !strings.Contains(Norm(role), w) || e.Node.Name.Full == "" {
				continue
			}
			return map[string]any{"name": e.Node.Name.Full, "role": optString(e.Role), "sourceUrl": nil}
		}
	}
	for _, e := range edges {
		if e.Node.Name.Full == "" {
			continue
		}
		role := any("Staff")
		if e.Role != nil {
			role = *e.Role
		}
		return map[string]any{"name": e.Node.Name.Full, "role": role, "sourceUrl": nil}
	}
	return map[string]any{"name": nil, "role": nil, "sourceUrl": nil}
}

// PickManga takes volume and chapter counts from the first MANGA relation
// that has either.
func PickManga(nodes []Relation) map[string]any {
	for _, n := range nodes {
		if n.Type != "MANGA" || (positive(n.Volumes) == nil && positive(n.Chapters) == nil) {
			continue
		}
		return map[string]any{"volumes": optInt(n.Volumes), "chapters": optInt(n.Chapters), "note": nil, "sourceUrl": nil}
	}
	return map[string]any{"volumes": nil, "chapters": nil, "note": nil, "sourceUrl": nil}
}

// WipeSourceURLs sets every "sourceUrl" key anywhere under v to null.
func WipeSourceURLs(v any) {
	switch x := v.(type) {
	case map[string]any:
		for k, child := range x {
			if k == "sourceUrl" {
				x[k] = nil
				continue
			}
			WipeSourceURLs(child)
		}
	case []any:
		for _, child := range x {
			WipeSourceURLs(child)
		}
	}
}

func positive(p *int) *int {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
