package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConceptOverlaps(t *testing.T) {
	schemaPage := PageSummary{
		Title:       "Database Schema",
		Fingerprint: "the posts table stores blog entries with id, title and content columns",
	}

	tests := []struct {
		name    string
		concept string
		page    PageSummary
		want    bool
	}{
		{"whole concept in title", "database schema", schemaPage, true},
		{"token match in fingerprint", "posts table", schemaPage, true},
		{"case insensitive", "POSTS table", schemaPage, true},
		{"no overlap", "user_preferences table", schemaPage, false},
		{"generic tokens alone do not match", "table schema", schemaPage, false},
		{"short tokens ignored", "id fk", schemaPage, false},
		{"empty concept", "", schemaPage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConceptOverlaps(tt.concept, tt.page))
		})
	}
}

func TestOverlappingPages(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	inv := NewWikiInventory([]PageSummary{
		{Title: "Database Schema", Fingerprint: "posts table columns", LastModified: early},
		{Title: "API Reference", Fingerprint: "GET /posts endpoint returns posts", LastModified: late},
		{Title: "Deployment", Fingerprint: "kubernetes manifests"},
	})

	pages := OverlappingPages([]string{"posts table"}, inv)

	assert.Len(t, pages, 2)
	assert.Equal(t, "API Reference", pages[0].Title, "freshest overlapping page first")
	assert.Equal(t, "Database Schema", pages[1].Title)
}

func TestOverlappingPagesEmptyInventory(t *testing.T) {
	pages := OverlappingPages([]string{"user_preferences table"}, WikiInventory{})
	assert.Empty(t, pages)
}
