package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/processor"
	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/testutil"
	"codeberg.org/snonux/transcheck/internal/translation"
)

const seededID = "1700000000000"

type harness struct {
	dir  string
	mock *testutil.MockTranslator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		dir:  t.TempDir(),
		mock: &testutil.MockTranslator{Translations: map[string]string{"Danish": "Hej", "Swedish": "Hej"}},
	}
}

// run executes the root command against the harness store and returns
// everything written to stdout
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := CreateRootCommand(NewFlags(), func(*translation.Config) (translation.Translator, error) {
		return h.mock, nil
	})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--store", "file", "--store-path", filepath.Join(h.dir, "store"), "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) store(t *testing.T) *store.RecordStore {
	t.Helper()
	kv, err := store.NewFileKV(filepath.Join(h.dir, "store"), false)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return store.NewRecordStore(kv)
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	testutil.SeedStore(t, h.store(t),
		record.New("Hello", 1700000000000, map[string]string{"da": "Hej", "sv": "Hej"}),
		record.New("Bye", 1690000000000, map[string]string{"de": "Tschüss"}),
	)
}

func TestTranslateCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "translate", "--lang", "sv,da", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Translating: Hello")
	assert.Contains(t, out, "Saved record")
	assert.Equal(t, []string{"Danish", "Swedish"}, h.mock.Calls())

	records := testutil.LoadStore(t, h.store(t))
	require.Len(t, records, 1)
	assert.Equal(t, "Hello", records[0].OriginalText)
	assert.Equal(t, []string{"da", "sv"}, records[0].Languages())
	assert.Contains(t, out, "?id="+records[0].ID())
}

func TestTranslateCommand_Failure(t *testing.T) {
	h := newHarness(t)
	h.mock.Errors = map[string]error{"Swedish": &translation.NetworkError{Provider: "mock", Err: os.ErrDeadlineExceeded}}

	_, err := h.run(t, "translate", "-l", "da", "-l", "sv", "-l", "de", "Hello")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to translate: "))
	assert.Equal(t, []string{"Danish", "Swedish"}, h.mock.Calls(), "no call after the first failure")

	records := testutil.LoadStore(t, h.store(t))
	require.Len(t, records, 1)
	assert.Equal(t, "Hej", records[0].Translations["da"].Text)
	assert.Equal(t, processor.FailedText, records[0].Translations["sv"].Text)
	assert.False(t, records[0].HasLanguage("de"))
}

func TestTranslateCommand_InputErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "translate", "--lang=", "Hello")
	assert.ErrorIs(t, err, processor.ErrNoLanguages)

	_, err = h.run(t, "translate", "--lang", "da")
	assert.ErrorIs(t, err, processor.ErrEmptyText)

	_, err = h.run(t, "translate", "--lang", "pt", "Hello")
	assert.Error(t, err)

	assert.Empty(t, h.mock.Calls())
	assert.Empty(t, testutil.LoadStore(t, h.store(t)))
}

func TestTranslateCommand_DefaultsToAllLanguages(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "translate", "Hello")
	require.NoError(t, err)

	var names []string
	for _, l := range language.All() {
		names = append(names, l.Name)
	}
	assert.Equal(t, names, h.mock.Calls())

	records := testutil.LoadStore(t, h.store(t))
	require.Len(t, records, 1)
	assert.Len(t, records[0].Translations, len(language.All()))
}

func TestTranslateCommand_Batch(t *testing.T) {
	h := newHarness(t)
	batchFile := filepath.Join(h.dir, "texts.txt")
	testutil.CreateTestFile(t, batchFile, []byte("# greetings\nHello\nde = Good morning\n"))

	out, err := h.run(t, "translate", "--lang", "da", "--batch", batchFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Translation Summary")

	records := testutil.LoadStore(t, h.store(t))
	require.Len(t, records, 2)
	assert.Equal(t, "Good morning", records[0].OriginalText, "newest first")
	assert.Equal(t, []string{"de"}, records[0].Languages())
	assert.Equal(t, []string{"da"}, records[1].Languages())
}

func TestReviewCommands(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "status", seededID, "da", "approved")
	require.NoError(t, err)
	assert.Equal(t, "Updated status of Danish translation of record 1700000000000\n", out)

	_, err = h.run(t, "edit", seededID, "sv", "Hallå")
	require.NoError(t, err)
	_, err = h.run(t, "comment", seededID, "sv", "first")
	require.NoError(t, err)
	_, err = h.run(t, "comment", seededID, "sv", "second")
	require.NoError(t, err)

	records := testutil.LoadStore(t, h.store(t))
	require.Len(t, records, 2)
	assert.Equal(t, record.StatusApproved, records[0].Translations["da"].Status)
	sv := records[0].Translations["sv"]
	assert.Equal(t, "Hallå", sv.Text)
	assert.Equal(t, record.StatusPending, sv.Status)
	require.NotNil(t, sv.Comment)
	assert.Equal(t, "second", sv.Comment.Text)

	out, err = h.run(t, "delete", "1690000000000")
	require.NoError(t, err)
	assert.Equal(t, "Deleted record 1690000000000\n", out)
	assert.Len(t, testutil.LoadStore(t, h.store(t)), 1)
}

func TestReviewCommands_Errors(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad id", []string{"status", "abc", "da", "approved"}},
		{"bad status", []string{"status", seededID, "da", "maybe"}},
		{"unknown record", []string{"edit", "42", "da", "x"}},
		{"language not on record", []string{"comment", seededID, "de", "x"}},
		{"delete unknown", []string{"delete", "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(t, tt.args...)
			assert.Error(t, err)
		})
	}
	assert.Len(t, testutil.LoadStore(t, h.store(t)), 2)
}

func TestListCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "list", "--id", seededID)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 2 records\n")
	assert.Contains(t, out, "> [1700000000000]")
	assert.Contains(t, out, "  [1690000000000]")

	out, err = h.run(t, "list", "--lang", "de", "--id", seededID)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 of 2 records (1 filter active)")
	assert.NotContains(t, out, "1700000000000")

	out, err = h.run(t, "list", "--id", seededID, "--highlight-lang", "de")
	require.NoError(t, err)
	assert.NotContains(t, out, ">")

	_, err = h.run(t, "list", "--range", "year")
	assert.Error(t, err)
}

func TestListCommand_JSON(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "list", "--json", "--id", "1690000000000", "--highlight-lang", "de")
	require.NoError(t, err)

	var listed []struct {
		OriginalText string `json:"originalText"`
		Highlighted  bool   `json:"highlighted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 2)
	assert.False(t, listed[0].Highlighted)
	assert.True(t, listed[1].Highlighted)
	assert.Equal(t, "Bye", listed[1].OriginalText)
}

func TestLinkCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "--base-url", "http://localhost:9000/review", "link", seededID, "da")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/review?id=1700000000000&lang=da\n", out)

	_, err = h.run(t, "link", "42")
	assert.Error(t, err)
}

func TestArchiveCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	archiveDir := filepath.Join(h.dir, "archive")

	out, err := h.run(t, "archive", "--dir", archiveDir, "--compress")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived 2 records to: ")

	out, err = h.run(t, "archive", "--dir", archiveDir, "--list")
	require.NoError(t, err)
	snapshot := strings.TrimSpace(out)
	assert.True(t, strings.HasSuffix(snapshot, ".yaml.zst"), snapshot)

	_, err = h.run(t, "delete", seededID)
	require.NoError(t, err)

	out, err = h.run(t, "archive", "--dir", archiveDir, "--restore", snapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 2 records")
	assert.Len(t, testutil.LoadStore(t, h.store(t)), 2)
}

func TestLanguagesCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "languages")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "da     Danish", lines[0])
	assert.Equal(t, "fr-BE  Belgian French", lines[6])
}

func TestCorruptStore(t *testing.T) {
	h := newHarness(t)
	testutil.CreateTestFile(t, filepath.Join(h.dir, "store", "translations.json"), []byte("{broken"))

	_, err := h.run(t, "list")
	assert.ErrorIs(t, err, store.ErrCorrupt)

	out, err := h.run(t, "--on-corrupt", "reset", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No translations found")
}
