package models

// Character is a reusable persona that episodes reference by ID.
type Character struct {
	ID          string     `db:"id"          json:"id"`
	Name        string     `db:"name"        json:"name"`
	Description string     `db:"description" json:"description"`
	Traits      StringList `db:"traits"      json:"traits"`
	Role        string     `db:"role"        json:"role"`
	Avatar      string     `db:"avatar"      json:"avatar,omitempty"`
	// Version is the optimistic concurrency token. Updates must present the version they read.
	Version int64 `db:"version" json:"version"`
}

// NewCharacter returns an empty character with a fresh ID.
func NewCharacter() Character {
	return Character{
		ID:          NewID("character"),
		Name:        "",
		Description: "",
		Traits:      StringList{},
		Role:        "",
		Avatar:      "",
		Version:     0,
	}
}

// FilterReferenced returns the characters whose IDs appear in ids, in the order of characters.
//
// IDs that don't match any character are ignored.
func FilterReferenced(characters []Character, ids []string) []Character {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	selected := make([]Character, 0, len(ids))
	for _, c := range characters {
		if _, ok := wanted[c.ID]; ok {
			selected = append(selected, c)
		}
	}
	return selected
}

// MissingReferences returns the IDs in ids that don't match any character, in the order of ids.
func MissingReferences(characters []Character, ids []string) []string {
	known := make(map[string]struct{}, len(characters))
	for _, c := range characters {
		known[c.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
