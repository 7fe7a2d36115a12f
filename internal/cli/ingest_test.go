package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danfirsten/Standup/internal/domain/memory"
)

func TestParseExtractionYAML(t *testing.T) {
	ext, err := parseExtraction([]byte(`
themes:
  - label: Imposter syndrome
    description: Doubts before the promotion review
  - label: Visibility
artifacts:
  - type: summary
    content:
      text: Talked through the promotion review.
  - type: goal
    title: Speak up
    content:
      description: Present in the next all-hands
`))
	require.NoError(t, err)
	require.Len(t, ext.Themes, 2)
	require.Equal(t, "Imposter syndrome", ext.Themes[0].Label)
	require.NotNil(t, ext.Themes[0].Description)
	require.Nil(t, ext.Themes[1].Description)
	require.Len(t, ext.Artifacts, 2)
	require.Equal(t, memory.ArtifactGoal, ext.Artifacts[1].Type)
	require.JSONEq(t, `{"description":"Present in the next all-hands"}`, string(ext.Artifacts[1].Content))

	content, err := ext.Artifacts[0].Decode()
	require.NoError(t, err)
	require.Equal(t, memory.ArtifactSummary, content.ArtifactType())
}

func TestParseExtractionJSON(t *testing.T) {
	ext, err := parseExtraction([]byte(`{"themes":[{"label":"Scope creep"}],"artifacts":[]}`))
	require.NoError(t, err)
	require.Len(t, ext.Themes, 1)
	require.Empty(t, ext.Artifacts)
}

func TestParseExtractionRejectsGarbage(t *testing.T) {
	_, err := parseExtraction([]byte(""))
	require.Error(t, err)

	_, err = parseExtraction([]byte("- just\n- a list\n"))
	require.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"serve", "migrate", "audit", "ingest", "mcp"})
}
