package theme

import (
	"encoding/json"
	"strings"
)

// Default returns the built-in document used whenever no template theme exists.
func Default() Theme {
	t := Theme{
		Colors:     Section{},
		Fonts:      Section{},
		Media:      Section{},
		Copy:       Section{},
		Animations: Section{},
		Meta:       Section{},
		Hero:       Section{},
		Layout:     Section{},
	}
	t.Colors.Set("bg", "#0e0e1a")
	t.Colors.Set("text", "#f5f4f7")
	t.Colors.Set("accent", "#4c3b33")
	t.Colors.Set("muted", "#b5b1aa")
	t.Colors.Set("ring", "#cdcbc9")
	t.Media.Set("video", "/public/video/sample.mp4")
	t.Media.Set("poster", "/public/img/placeholder.jpg")
	t.Media.Set("gallery", []string{})
	t.Copy.Set("intro", "Reserva la fecha y acompáñanos.")
	t.Hero.Set("mode", "video")
	t.Hero.Set("overlay", "rgba(0,0,0,.45)")
	return t
}

// Merge applies override on top of base. Inside every recognized section the
// override replaces base key by key and keys it does not mention keep the base
// value. Arrays are values like any other, so they are replaced wholesale.
// Unrecognized top-level keys from the override replace the base ones.
func Merge(base, override Theme) Theme {
	out := base.Clone()
	for _, name := range SectionNames {
		over := override.Section(name)
		if len(over) == 0 {
			continue
		}
		dst := out.section(name)
		if *dst == nil {
			*dst = Section{}
		}
		for k, v := range over {
			(*dst)[k] = v
		}
	}
	for k, v := range override.Extra {
		if out.Extra == nil {
			out.Extra = map[string]json.RawMessage{}
		}
		out.Extra[k] = v
	}
	return out
}

// Compose merges the overrides, in order, onto base. A nil base is replaced by
// Default. Compose never fails and the result always has every recognized section.
func Compose(base *Theme, overrides ...Theme) Theme {
	var out Theme
	if base == nil {
		out = Default()
	} else {
		out = base.Clone()
	}
	for _, o := range overrides {
		out = Merge(out, o)
	}
	for _, name := range SectionNames {
		if s := out.section(name); *s == nil {
			*s = Section{}
		}
	}
	return out
}

// Parse decodes a theme document. Anything that is not a JSON object yields an
// empty theme.
func Parse(raw string) Theme {
	var t Theme
	if strings.TrimSpace(raw) == "" {
		return t
	}
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Theme{}
	}
	return t
}

// ParseBase decodes a stored template theme. It reports false when raw is not a
// usable document so the caller can fall back to Default.
func ParseBase(raw []byte) (*Theme, bool) {
	if len(raw) == 0 || !isObject(raw) {
		return nil, false
	}
	var t Theme
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false
	}
	return &t, true
}

// Palette turns a flat JSON object of colors into a colors override.
func Palette(raw string) Theme {
	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s == nil {
		return Theme{}
	}
	return Theme{Colors: s}
}

// Intro overrides copy.intro. An empty message leaves the base intro in place.
func Intro(message string) Theme {
	if strings.TrimSpace(message) == "" {
		return Theme{}
	}
	s := Section{}
	s.Set("intro", message)
	return Theme{Copy: s}
}
