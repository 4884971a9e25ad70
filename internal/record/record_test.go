package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"approved", StatusApproved, false},
		{" Rejected ", StatusRejected, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	rec := New("Hello", 1700000000000, map[string]string{"da": "Hej", "sv": "Hej"})

	assert.Equal(t, "Hello", rec.OriginalText)
	assert.Equal(t, "1700000000000", rec.ID())
	assert.Equal(t, []string{"da", "sv"}, rec.Languages())
	for _, entry := range rec.Translations {
		assert.Equal(t, StatusPending, entry.Status)
		assert.Nil(t, entry.Comment)
	}
}

func TestHasAnyLanguage(t *testing.T) {
	rec := New("x", 1, map[string]string{"sv": "a", "de": "b"})

	assert.True(t, rec.HasAnyLanguage([]string{"da", "de"}))
	assert.False(t, rec.HasAnyLanguage([]string{"da"}))
	assert.False(t, rec.HasAnyLanguage(nil))
}

func TestClone(t *testing.T) {
	rec := New("x", 1, map[string]string{"da": "a"})
	entry := rec.Translations["da"]
	entry.Comment = &Comment{Text: "first", Timestamp: 5}
	rec.Translations["da"] = entry

	cp := rec.Clone()
	cp.Translations["da"].Comment.Text = "changed"
	cpEntry := cp.Translations["da"]
	cpEntry.Text = "b"
	cp.Translations["da"] = cpEntry

	assert.Equal(t, "first", rec.Translations["da"].Comment.Text)
	assert.Equal(t, "a", rec.Translations["da"].Text)
}

func TestValidateCollection(t *testing.T) {
	a := New("a", 1, map[string]string{"da": "a"})
	b := New("b", 2, map[string]string{"da": "b"})
	dup := New("c", 1, map[string]string{"sv": "c"})

	assert.NoError(t, ValidateCollection([]*TranslationRecord{a, b}))
	assert.Error(t, ValidateCollection([]*TranslationRecord{a, dup}))
	assert.Error(t, ValidateCollection([]*TranslationRecord{{OriginalText: "", Timestamp: 3}}))
	assert.Error(t, ValidateCollection([]*TranslationRecord{{OriginalText: "x", Timestamp: 3}}))
}

func TestFind(t *testing.T) {
	records := []*TranslationRecord{New("a", 10, nil), New("b", 20, nil)}

	assert.Equal(t, 1, Find(records, 20))
	assert.Equal(t, -1, Find(records, 30))
}

func TestMarshal_Layout(t *testing.T) {
	rec := New("Hello", 1700000000000, map[string]string{"da": "Hej"})
	entry := rec.Translations["da"]
	entry.Status = StatusApproved
	entry.Comment = &Comment{Text: "good", Timestamp: 1700000000500}
	rec.Translations["da"] = entry

	data, err := Marshal([]*TranslationRecord{rec})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Hello", raw[0]["originalText"])
	assert.EqualValues(t, 1700000000000, raw[0]["timestamp"])

	da := raw[0]["translations"].(map[string]any)["da"].(map[string]any)
	assert.Equal(t, "Hej", da["text"])
	assert.Equal(t, "approved", da["status"])
	assert.EqualValues(t, 1700000000500, da["commentTimestamp"])
	assert.Equal(t, "good", da["comment"].(map[string]any)["text"])
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	rec := New("Hello", 1700000000000, map[string]string{"da": "Hej", "sv": "Hej"})
	entry := rec.Translations["sv"]
	entry.Status = StatusRejected
	entry.Comment = &Comment{Text: "wrong", Timestamp: 42}
	rec.Translations["sv"] = entry

	data, err := Marshal([]*TranslationRecord{rec})
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestUnmarshal_LegacyComment(t *testing.T) {
	data := []byte(`[{
		"originalText": "Hello",
		"timestamp": 1700000000000,
		"translations": {
			"da": {"text": "Hej", "comment": "too informal", "commentTimestamp": 1700000001000},
			"sv": {"text": "Hej", "status": "approved", "comment": {"text": "ok"}, "commentTimestamp": 7}
		}
	}]`)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 1)

	da := got[0].Translations["da"]
	assert.Equal(t, StatusPending, da.Status, "missing status defaults to pending")
	require.NotNil(t, da.Comment)
	assert.Equal(t, Comment{Text: "too informal", Timestamp: 1700000001000}, *da.Comment)

	sv := got[0].Translations["sv"]
	assert.Equal(t, StatusApproved, sv.Status)
	require.NotNil(t, sv.Comment)
	assert.Equal(t, Comment{Text: "ok", Timestamp: 7}, *sv.Comment)
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":        `{oops`,
		"bad status":      `[{"originalText":"a","timestamp":1,"translations":{"da":{"text":"x","status":"maybe"}}}]`,
		"numeric comment": `[{"originalText":"a","timestamp":1,"translations":{"da":{"text":"x","comment":5}}}]`,
		"null record":     `[null]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal([]byte(data))
			assert.Error(t, err)
		})
	}
}
