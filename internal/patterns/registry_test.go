package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

func TestDefault_CompilesAndCoversCategories(t *testing.T) {
	r := Default()

	assert.Equal(t, DefaultVersion, r.Version())
	assert.Greater(t, r.Len(), 10)

	for _, c := range []Category{
		CategoryArchetype, CategoryMoneyRequest, CategoryInfoHarvest,
		CategoryNonNative, CategoryScript, CategoryManipulation,
		CategorySympathy, CategoryUrgency, CategoryCrisis,
		CategoryLoveBombing, CategoryGrammarError,
	} {
		assert.NotEmpty(t, r.Category(c), "no default patterns for category %s", c)
	}
}

func TestDefault_ArchetypeCoverage(t *testing.T) {
	r := Default()

	for _, at := range []verification.ScammerType{
		verification.ScammerTypeRomance,
		verification.ScammerTypeInvestment,
		verification.ScammerTypeSextortion,
		verification.ScammerTypeCatfish,
	} {
		assert.NotEmpty(t, r.ArchetypePatterns(at), "no patterns for archetype %s", at)
	}
}

func TestPattern_Matching(t *testing.T) {
	r := Default()

	romance := r.ArchetypePatterns(verification.ScammerTypeRomance)
	require.Len(t, romance, 3)

	text := "please send it by western union, it is an emergency"
	assert.Equal(t, 2, CountMatches(romance, text))

	money := r.Category(CategoryMoneyRequest)
	assert.Equal(t, 1, CountMatches(money, text))

	assert.Equal(t, 0, CountMatches(romance, "do you like hiking on weekends?"))
}

func TestPattern_MatchCountCaseInsensitive(t *testing.T) {
	r := Default()
	love := r.Category(CategoryLoveBombing)
	require.NotEmpty(t, love)

	assert.Greater(t, love[0].MatchCount("LOVE you, my soulmate, love forever"), 2)
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New("v1", []Pattern{{ID: "", Pattern: "x", Category: CategoryScript}})
	assert.Error(t, err)

	_, err = New("v1", []Pattern{{ID: "bad-re", Pattern: "([", Category: CategoryScript}})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")

	content := `version: "test-1"
patterns:
  - id: fixture-001
    pattern: "golden retriever"
    weight: 10
    category: script
    severity: low
  - id: fixture-002
    archetype: romance_scammer
    pattern: "wire transfer"
    weight: 40
    category: archetype
    severity: critical
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-1", r.Version())
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Category(CategoryScript)[0].Matches("I have a Golden Retriever"))
	assert.Len(t, r.ArchetypePatterns(verification.ScammerTypeRomance), 1)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("does/not/exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns: []\n"), 0o600))

	_, err = LoadFile(path)
	assert.Error(t, err)
}
