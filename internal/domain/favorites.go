package domain

import "encoding/json"

// Favorites is an insertion-ordered set of product ids. It serializes as a
// plain JSON array of strings.
type Favorites struct {
	ids []string
}

// NewFavorites builds a set from ids, dropping empty and repeated entries.
func NewFavorites(ids ...string) Favorites {
	var f Favorites
	for _, id := range ids {
		f.Add(id)
	}
	return f
}

func (f *Favorites) index(id string) int {
	for i, v := range f.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is in the set.
func (f *Favorites) Contains(id string) bool {
	return f.index(id) >= 0
}

// Add appends id if absent. It reports whether the set changed.
func (f *Favorites) Add(id string) bool {
	if id == "" || f.Contains(id) {
		return false
	}
	f.ids = append(f.ids, id)
	return true
}

// Remove deletes id if present. It reports whether the set changed.
func (f *Favorites) Remove(id string) bool {
	i := f.index(id)
	if i < 0 {
		return false
	}
	f.ids = append(f.ids[:i], f.ids[i+1:]...)
	return true
}

// Toggle removes id when present and appends it otherwise. It returns the
// membership after the toggle.
func (f *Favorites) Toggle(id string) bool {
	if f.Remove(id) {
		return false
	}
	return f.Add(id)
}

// Clear empties the set.
func (f *Favorites) Clear() {
	f.ids = nil
}

// IDs returns a copy of the ids in insertion order.
func (f *Favorites) IDs() []string {
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	return len(f.ids)
}

// MarshalJSON encodes the set as a JSON array.
func (f Favorites) MarshalJSON() ([]byte, error) {
	if f.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.ids)
}

// UnmarshalJSON decodes a JSON array, restoring set semantics.
func (f *Favorites) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*f = NewFavorites(ids...)
	return nil
}
