package taxonomy

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOrder(t *testing.T) {
	tx := Default()
	assert.Equal(t, []string{
		"email_management",
		"document_handling",
		"meeting_scheduling",
		"data_analysis",
		"project_management",
	}, tx.Names())
	assert.Equal(t, 5, tx.Len())

	meeting, err := tx.Lookup("meeting_scheduling")
	require.NoError(t, err)
	assert.Equal(t, []string{"schedule", "prepare", "follow_up", "reschedule"}, meeting.Actions)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantErr    error
	}{
		{name: "empty", categories: nil, wantErr: ErrEmpty},
		{
			name:       "missing name",
			categories: []Category{{Keywords: []string{"a"}, Actions: []string{"b"}}},
			wantErr:    ErrInvalidCategory,
		},
		{
			name:       "no keywords",
			categories: []Category{{Name: "x", Keywords: []string{" "}, Actions: []string{"b"}}},
			wantErr:    ErrInvalidCategory,
		},
		{
			name:       "multi-word keyword",
			categories: []Category{{Name: "x", Keywords: []string{"follow up"}, Actions: []string{"b"}}},
			wantErr:    ErrInvalidCategory,
		},
		{
			name:       "unit separator in keyword",
			categories: []Category{{Name: "x", Keywords: []string{"data\x1freport"}, Actions: []string{"b"}}},
			wantErr:    ErrInvalidCategory,
		},
		{
			name:       "no actions",
			categories: []Category{{Name: "x", Keywords: []string{"a"}}},
			wantErr:    ErrInvalidCategory,
		},
		{
			name: "duplicate",
			categories: []Category{
				{Name: "x", Keywords: []string{"a"}, Actions: []string{"b"}},
				{Name: "x", Keywords: []string{"c"}, Actions: []string{"d"}},
			},
			wantErr: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.categories)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewLowercasesKeywords(t *testing.T) {
	tx, err := New([]Category{{Name: "x", Keywords: []string{"Email", "EMAIL", "inbox"}, Actions: []string{"Reply"}}})
	require.NoError(t, err)

	c := tx.At(0)
	assert.Equal(t, []string{"email", "inbox"}, c.Keywords)
	assert.Equal(t, []string{"Reply"}, c.Actions)
	assert.True(t, tx.Matches(0, "email"))
	assert.False(t, tx.Matches(0, "Email"))
}

func TestParseRejectsMultiWordKeyword(t *testing.T) {
	_, err := Parse([]byte("categories:\n  - name: a\n    keywords: [\"follow up\"]\n    actions: [call]\n"))
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAccessorsReturnCopies(t *testing.T) {
	tx := Default()

	actions := tx.Actions(0)
	actions[0] = "mutated"
	cats := tx.Categories()
	cats[0].Keywords[0] = "mutated"

	assert.Equal(t, "categorize", tx.Actions(0)[0])
	assert.True(t, tx.Matches(0, "email"))
	assert.Equal(t, "email", tx.At(0).Keywords[0])
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.False(t, Default().Has("nope"))
}

const sampleYAML = `
categories:
  - name: billing
    keywords: [invoice, payment]
    actions: [pay, dispute]
  - name: support
    keywords: [ticket, bug]
    actions: [triage]
`

func TestParse(t *testing.T) {
	tx, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "support"}, tx.Names())

	_, err = Parse([]byte(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte("categories:\n  - name: x\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	tx, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tx.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type stubSource map[string]string

func (s stubSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	body, ok := s[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestLoadFromSource(t *testing.T) {
	src := stubSource{"taxonomy/custom.yaml": sampleYAML}

	tx, err := Load(context.Background(), src, "taxonomy/custom.yaml")
	require.NoError(t, err)
	assert.True(t, tx.Has("support"))

	_, err = Load(context.Background(), src, "taxonomy/other.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
