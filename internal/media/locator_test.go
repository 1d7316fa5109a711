package media

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/stash-folderid/internal/stash"
)

type fakeCatalog struct {
	scenes    []stash.Media
	galleries []stash.Gallery
	images    map[string][]stash.Media
	err       error

	sceneQueries   []string
	galleryQueries []string
}

func (f *fakeCatalog) FindScenesByPath(_ context.Context, pathValue string) ([]stash.Media, error) {
	f.sceneQueries = append(f.sceneQueries, pathValue)
	return f.scenes, f.err
}

func (f *fakeCatalog) FindGalleries(_ context.Context, query string) ([]stash.Gallery, error) {
	f.galleryQueries = append(f.galleryQueries, query)
	return f.galleries, f.err
}

func (f *fakeCatalog) FindImagesInGallery(_ context.Context, galleryID string) ([]stash.Media, error) {
	return f.images[galleryID], f.err
}

type recordingLog struct {
	lines []string
}

func (r *recordingLog) Logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func record(id string, performerIDs ...string) stash.Media {
	m := stash.Media{ID: id}
	for _, p := range performerIDs {
		m.Performers = append(m.Performers, stash.PerformerRef{ID: p})
	}

	return m
}

func gallery(id, path string) stash.Gallery {
	return stash.Gallery{ID: id, Folder: &stash.GalleryFolder{Path: path}}
}

func TestFindUnlinkedScenes(t *testing.T) {
	cat := &fakeCatalog{scenes: []stash.Media{
		record("3"),
		record("2", "501"),
		record("1", "9"),
		record("0", "9", "501"),
	}}

	ids, err := NewLocator(cat, &recordingLog{}, nil).FindUnlinkedScenes(context.Background(), "Jane Doe", "501")
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "1"}, ids)
	assert.Equal(t, []string{"jane_doe"}, cat.sceneQueries)
}

func TestFindUnlinkedScenes_AllLinkedYieldsEmpty(t *testing.T) {
	cat := &fakeCatalog{scenes: []stash.Media{record("1", "501"), record("2", "501")}}

	ids, err := NewLocator(cat, &recordingLog{}, nil).FindUnlinkedScenes(context.Background(), "Jane_Doe", "501")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFindUnlinkedScenes_Error(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("boom")}

	_, err := NewLocator(cat, &recordingLog{}, nil).FindUnlinkedScenes(context.Background(), "x", "1")
	require.Error(t, err)
}

func TestFindGallery(t *testing.T) {
	tests := []struct {
		name      string
		galleries []stash.Gallery
		term      string
		wantID    string
		wantOK    bool
		wantLog   string
	}{
		{
			name:      "exact basename among fuzzy results",
			galleries: []stash.Gallery{gallery("10", "/lib/Jane_Doe"), gallery("11", "/lib/Jane_Doe_2")},
			term:      "jane_doe",
			wantID:    "10",
			wantOK:    true,
		},
		{
			name:      "windows path",
			galleries: []stash.Gallery{gallery("12", `J:\VM\Jane_Doe`)},
			term:      "Jane_Doe",
			wantID:    "12",
			wantOK:    true,
		},
		{
			name:      "no exact match",
			galleries: []stash.Gallery{gallery("11", "/lib/Jane_Doe_2"), gallery("13", "/other/Jane_Doe_Extra")},
			term:      "jane_doe",
			wantLog:   "No gallery found for search term 'jane_doe'.",
		},
		{
			name:      "several exact matches are ambiguous",
			galleries: []stash.Gallery{gallery("10", "/a/Jane_Doe"), gallery("14", "/b/JANE_DOE")},
			term:      "Jane_Doe",
			wantLog:   "Multiple galleries found for search term 'Jane_Doe'.",
		},
		{
			name:      "gallery without folder ignored",
			galleries: []stash.Gallery{{ID: "15"}, gallery("16", "/lib/JD/")},
			term:      "JD",
			wantID:    "16",
			wantOK:    true,
		},
		{
			name:    "nothing returned",
			term:    "Janey",
			wantLog: "No gallery found for search term 'Janey'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{galleries: tt.galleries}
			log := &recordingLog{}

			g, err := NewLocator(cat, log, nil).FindGallery(context.Background(), tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, g != nil)

			if tt.wantOK {
				assert.Equal(t, tt.wantID, g.ID)
			}

			if tt.wantLog == "" {
				assert.Empty(t, log.lines)
			} else {
				assert.Equal(t, []string{tt.wantLog}, log.lines)
			}
		})
	}
}

func TestFindGallery_FuzzyQueryIsLowerCased(t *testing.T) {
	cat := &fakeCatalog{}

	_, err := NewLocator(cat, &recordingLog{}, nil).FindGallery(context.Background(), "Jane_Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"jane_doe"}, cat.galleryQueries)
}

func TestFindUnlinkedImages(t *testing.T) {
	cat := &fakeCatalog{images: map[string][]stash.Media{
		"10": {record("100", "3"), record("101", "501"), record("102")},
	}}

	ids, err := NewLocator(cat, &recordingLog{}, nil).FindUnlinkedImages(context.Background(), "10", "501")
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "102"}, ids)
}

func TestSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"Jane_Doe", "JD", "Janey"}, SearchTerms("Jane_Doe", []string{"JD", "Janey"}))
	assert.Equal(t, []string{"Jane_Doe-2", "JD"}, SearchTerms("Jane_Doe-2", []string{"JD", "Jane_Doe-2", "JD", ""}))
	assert.Equal(t, []string{"Jane_Doe"}, SearchTerms("Jane_Doe", nil))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "Jane_Doe", basename("/lib/Jane_Doe"))
	assert.Equal(t, "Jane_Doe", basename(`C:\lib\Jane_Doe\`))
	assert.Equal(t, "Jane_Doe", basename("Jane_Doe"))
	assert.Equal(t, "", basename(""))
}
