package mojang

import "encoding/json"

// ProfileProperty is a signed property attached to a session profile.
type ProfileProperty struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// ProfileResponse represents a profile returned by the session server or
// one element of a bulk lookup response.
type ProfileResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties []ProfileProperty `json:"properties,omitempty"`
}

// Profile represents a resolved player profile.
type Profile struct {
	UUID     string
	Username string
	Textures string // base64 textures property, empty when unknown
	Degraded bool   // true when the lookup failed and Username is the raw id
}

// CacheEntry is the stored form of a resolved profile.
//
// Older cache files store a bare name string per id; both shapes decode into
// a CacheEntry and are always written back in the structured shape.
type CacheEntry struct {
	Name     string `json:"name"`
	Textures string `json:"textures,omitempty"`
}

// UnmarshalJSON accepts "name" and {"name": ..., "textures": ...}.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	switch {
	case len(data) > 0 && data[0] == '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = CacheEntry{Name: name}
		return nil
	case string(data) == "null":
		*e = CacheEntry{}
		return nil
	}

	type rawEntry CacheEntry
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = CacheEntry(raw)
	return nil
}

func texturesOf(props []ProfileProperty) string {
	for _, p := range props {
		if p.Name == "textures" {
			return p.Value
		}
	}
	return ""
}
