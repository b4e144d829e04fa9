package lemma

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/fts-lab/searchcore/pkg/errors"
)

func writeLemmas(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lemmas.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLowerCasesBothSides(t *testing.T) {
	dict, err := Load(writeLemmas(t, "Cats cat\nDOGS Dog\nКоты КОТ\n"))
	require.NoError(t, err)
	assert.Equal(t, Dict{
		"cats": "cat",
		"dogs": "dog",
		"коты": "кот",
	}, dict)
}

func TestLoadSkipsEmptyLines(t *testing.T) {
	dict, err := Load(writeLemmas(t, "\n\ncats cat\n\n"))
	require.NoError(t, err)
	assert.Len(t, dict, 1)
}

func TestLoadEmptyDictionaryFails(t *testing.T) {
	_, err := Load(writeLemmas(t, ""))
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyDictionary)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	dict := Dict{"cats": "cat", "running": "run"}
	assert.Equal(t, []string{"cat", "and", "run"}, dict.Apply([]string{"cats", "and", "running"}))
	assert.Equal(t, []string{"dog"}, dict.Apply([]string{"dog"}))
}

func TestApplyEmptyDict(t *testing.T) {
	var dict Dict
	tokens := []string{"cats"}
	assert.Equal(t, tokens, dict.Apply(tokens))
}
