package theme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_NilBaseUsesDefault(t *testing.T) {
	got := Compose(nil)

	assert.Equal(t, "#0e0e1a", got.Colors.String("bg"))
	assert.Equal(t, "video", got.Hero.String("mode"))
	gallery, ok := got.Media.Strings("gallery")
	require.True(t, ok)
	assert.Empty(t, gallery)
	for _, name := range SectionNames {
		assert.NotNil(t, got.Section(name), name)
	}
}

func TestCompose_PaletteOverridesPerField(t *testing.T) {
	base := Parse(`{"colors":{"bg":"#000","text":"#fff","accent":"#f00"},"copy":{"intro":"hola"}}`)

	got := Compose(&base, Palette(`{"accent":"#0f0","primary":"#00f"}`), Intro(""))

	assert.Equal(t, "#000", got.Colors.String("bg"))
	assert.Equal(t, "#fff", got.Colors.String("text"))
	assert.Equal(t, "#0f0", got.Colors.String("accent"))
	assert.Equal(t, "#00f", got.Colors.String("primary"))
	assert.Equal(t, "hola", got.Copy.String("intro"))
}

func TestCompose_IntroReplacesCopy(t *testing.T) {
	got := Compose(nil, Intro("Nos casamos"))
	assert.Equal(t, "Nos casamos", got.Copy.String("intro"))
}

func TestCompose_MalformedOverrideIsEmpty(t *testing.T) {
	base := Default()

	for _, raw := range []string{"", "not json", "[1,2]", "null", `{"colors":`} {
		got := Compose(&base, Palette(raw), Parse(raw))
		assert.JSONEq(t, string(base.JSON()), string(got.JSON()), raw)
	}
}

func TestMerge_ArraysReplacedWholesale(t *testing.T) {
	base := Parse(`{"media":{"video":"a.mp4","gallery":["1.jpg","2.jpg"]}}`)
	over := Parse(`{"media":{"gallery":["3.jpg"]}}`)

	got := Merge(base, over)

	gallery, ok := got.Media.Strings("gallery")
	require.True(t, ok)
	assert.Equal(t, []string{"3.jpg"}, gallery)
	assert.Equal(t, "a.mp4", got.Media.String("video"))
}

func TestMerge_UnknownTopLevelKeysReplace(t *testing.T) {
	base := Parse(`{"badge":{"a":1,"b":2},"colors":{"bg":"#000"}}`)
	over := Parse(`{"badge":{"c":3}}`)

	got := Merge(base, over)

	assert.JSONEq(t, `{"c":3}`, string(got.Extra["badge"]))
	assert.Equal(t, "#000", got.Colors.String("bg"))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Parse(`{"colors":{"bg":"#000"}}`)
	over := Parse(`{"colors":{"bg":"#fff"}}`)

	_ = Merge(base, over)

	assert.Equal(t, "#000", base.Colors.String("bg"))
}

func TestCompose_KeepsEverySectionOfBase(t *testing.T) {
	base := Parse(`{
		"colors":{"bg":"#111"},
		"fonts":{"heading":"Playfair"},
		"media":{"poster":"p.jpg"},
		"copy":{"intro":"x"},
		"animations":{"hero":"fade"},
		"meta":{"k":"v"},
		"hero":{"mode":"image"},
		"layout":{"section_order":["hero","rsvp"]}
	}`)
	over := Parse(`{"fonts":{"body":"Inter"},"hero":{"overlay":"none"}}`)

	got := Compose(&base, over)

	for _, name := range SectionNames {
		for k, v := range base.Section(name) {
			if o, ok := over.Section(name)[k]; ok {
				assert.JSONEq(t, string(o), string(got.Section(name)[k]))
				continue
			}
			assert.JSONEq(t, string(v), string(got.Section(name)[k]), "%s.%s", name, k)
		}
	}
	assert.Equal(t, "Inter", got.Fonts.String("body"))
	assert.Equal(t, "Playfair", got.Fonts.String("heading"))
}

func TestCompose_Deterministic(t *testing.T) {
	base := Parse(`{"colors":{"z":"1","a":"2"},"zeta":{"x":1},"alpha":[1,2]}`)
	first := Compose(&base, Palette(`{"m":"3"}`), Intro("hola")).JSON()

	for i := 0; i < 20; i++ {
		again := Compose(&base, Palette(`{"m":"3"}`), Intro("hola")).JSON()
		require.Equal(t, string(first), string(again))
	}
}

func TestJSON_AlwaysHasEverySection(t *testing.T) {
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(Theme{}.JSON(), &out))

	for _, name := range SectionNames {
		assert.JSONEq(t, `{}`, string(out[name]), name)
	}
}

func TestParse_NonObjectSectionIgnored(t *testing.T) {
	got := Parse(`{"colors":"red","meta":{"a":1}}`)

	assert.Nil(t, got.Colors)
	assert.JSONEq(t, `1`, string(got.Meta["a"]))
}

func TestParseBase(t *testing.T) {
	_, ok := ParseBase(nil)
	assert.False(t, ok)
	_, ok = ParseBase([]byte(`"x"`))
	assert.False(t, ok)

	got, ok := ParseBase([]byte(`{"colors":{"bg":"#222"}}`))
	require.True(t, ok)
	assert.Equal(t, "#222", got.Colors.String("bg"))
}
