package theme

import (
	"bytes"
	"encoding/json"
)

// Recognized nested sections of a theme document, in canonical order.
const (
	SectionColors     = "colors"
	SectionFonts      = "fonts"
	SectionMedia      = "media"
	SectionCopy       = "copy"
	SectionAnimations = "animations"
	SectionMeta       = "meta"
	SectionHero       = "hero"
	SectionLayout     = "layout"
)

var SectionNames = []string{
	SectionColors,
	SectionFonts,
	SectionMedia,
	SectionCopy,
	SectionAnimations,
	SectionMeta,
	SectionHero,
	SectionLayout,
}

// Section is one nested object of the theme. Values are kept as raw JSON so
// arrays and nested objects survive a merge untouched.
type Section map[string]json.RawMessage

// Theme is the visual configuration document stored on templates and invitations.
// Top-level keys that are not recognized sections are carried in Extra.
type Theme struct {
	Colors     Section
	Fonts      Section
	Media      Section
	Copy       Section
	Animations Section
	Meta       Section
	Hero       Section
	Layout     Section
	Extra      map[string]json.RawMessage
}

func (t *Theme) section(name string) *Section {
	switch name {
	case SectionColors:
		return &t.Colors
	case SectionFonts:
		return &t.Fonts
	case SectionMedia:
		return &t.Media
	case SectionCopy:
		return &t.Copy
	case SectionAnimations:
		return &t.Animations
	case SectionMeta:
		return &t.Meta
	case SectionHero:
		return &t.Hero
	case SectionLayout:
		return &t.Layout
	}
	return nil
}

// Section returns the named recognized section, or nil for unknown names.
func (t Theme) Section(name string) Section {
	if s := t.section(name); s != nil {
		return *s
	}
	return nil
}

func (t Theme) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.Extra)+len(SectionNames))
	for k, v := range t.Extra {
		out[k] = v
	}
	for _, name := range SectionNames {
		s := *t.section(name)
		if s == nil {
			s = Section{}
		}
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return json.Marshal(out)
}

func (t *Theme) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	*t = Theme{}
	for k, v := range top {
		if s := t.section(k); s != nil {
			var sec Section
			if isObject(v) && json.Unmarshal(v, &sec) == nil {
				*s = sec
			}
			continue
		}
		if t.Extra == nil {
			t.Extra = map[string]json.RawMessage{}
		}
		t.Extra[k] = v
	}
	return nil
}

// JSON encodes the theme. The encoding is canonical: every recognized section
// is present and keys are sorted.
func (t Theme) JSON() []byte {
	b, err := json.Marshal(t)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func (t Theme) Clone() Theme {
	out := Theme{}
	for _, name := range SectionNames {
		*out.section(name) = t.Section(name).Clone()
	}
	if t.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(t.Extra))
		for k, v := range t.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func (s Section) Clone() Section {
	if s == nil {
		return nil
	}
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Set stores v under key, encoding it as JSON.
func (s Section) Set(key string, v any) {
	s[key] = encode(v)
}

// String returns the value under key when it is a JSON string.
func (s Section) String(key string) string {
	var out string
	if raw, ok := s[key]; ok {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// Strings returns the value under key when it is a JSON array of strings.
func (s Section) Strings(key string) ([]string, bool) {
	raw, ok := s[key]
	if !ok {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func encode(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
