package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	kb := Default()

	attrs, ok := kb.Lookup("BTS")
	require.True(t, ok)
	assert.Equal(t, "HYBE", attrs.Organization)
	assert.Equal(t, []string{"K-Pop", "Hip-Hop", "R&B"}, attrs.Genres)
	assert.Equal(t, []string{"Halsey", "Ed Sheeran", "Steve Aoki"}, attrs.Collaborators)

	assert.Len(t, kb.Entities(), 5)
	assert.Equal(t, "BTS", kb.Entities()[0].Name)
}

func TestBuild_DeclaredMembershipFollowsExplicitMembers(t *testing.T) {
	kb := Default()

	hybe := kb.OrganizationMembers("HYBE")
	assert.Equal(t, []string{"TXT", "ENHYPEN", "LE SSERAFIM", "FROMIS_9", "BTS", "NewJeans"}, hybe)

	edm := kb.GenreMembers("EDM")
	assert.Equal(t, []string{"ITZY", "i-dle", "BLACKPINK"}, edm)
}

func TestLookup_IsCaseAndSpaceInsensitive(t *testing.T) {
	kb := Default()

	_, ok := kb.Lookup("  bts ")
	assert.True(t, ok)

	_, ok = kb.Lookup("B T S")
	assert.False(t, ok)

	entity, ok := kb.Entity("Blackpink")
	require.True(t, ok)
	assert.Equal(t, "BLACKPINK", entity.Name)
	assert.Equal(t, model.EntityID("blackpink"), entity.ID)
}

func TestTrending(t *testing.T) {
	kb := Default()
	assert.Equal(t, []string{"i-dle", "ITZY", "EVERGLOW"}, kb.Trending(model.CategoryConcerts))
	assert.Empty(t, kb.Trending(model.CategoryDigital))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	doc := Document{
		Entities: []EntityDocument{
			{Name: "A", Collaborators: []string{"a"}},
			{Name: "a"},
			{Name: "  "},
		},
		Genres: map[string][]string{
			"G1": {"B", "B"},
		},
		Trending: map[string][]string{
			"vinyl": {"C"},
		},
	}

	err := Validate(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidKnowledge)

	msg := err.Error()
	assert.Contains(t, msg, "lists itself as a collaborator")
	assert.Contains(t, msg, `entity "a" duplicates "A"`)
	assert.Contains(t, msg, "entity at index 2 has no name")
	assert.Contains(t, msg, `genre "G1" lists "B" twice`)
	assert.Contains(t, msg, `unknown purchase category "vinyl"`)
}

func TestValidate_DuplicateTrendingCategory(t *testing.T) {
	err := Validate(Document{Trending: map[string][]string{
		"albums": {"X"},
		"Albums": {"Y"},
	}})
	assert.ErrorIs(t, err, common.ErrInvalidKnowledge)
}

func TestParse_RoundTripsDefaultDocument(t *testing.T) {
	data, err := Marshal(DefaultDocument())
	require.NoError(t, err)

	kb, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().OrganizationMembers("SM Entertainment"), kb.OrganizationMembers("SM Entertainment"))
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("entities:\n  - name: A\n    label: X\n"))
	assert.Error(t, err)
}

func TestParse_EmptyDocument(t *testing.T) {
	kb, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, kb.Entities())
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses built-in data", func(t *testing.T) {
		kb, err := Load("")
		require.NoError(t, err)
		assert.Len(t, kb.Entities(), 5)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kb.yaml")
		content := `
entities:
  - name: A
    genres: [G1]
    organization: X
genres:
  G1: [B, C]
organizations:
  X: [D]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		kb, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "A"}, kb.GenreMembers("G1"))
		assert.Equal(t, []string{"D", "A"}, kb.OrganizationMembers("X"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
