package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsValidTableStatus(t *testing.T) {
	for _, s := range ValidTableStatuses {
		if !IsValidTableStatus(s) {
			t.Errorf("IsValidTableStatus(%q) = false, want true", s)
		}
	}
	if IsValidTableStatus("archived") {
		t.Error(`IsValidTableStatus("archived") = true, want false`)
	}
}

func TestColumnIsDirectoryKey(t *testing.T) {
	pk := uuid.New()
	calendar := DatasetSlugDateTimeDirectory
	brasil := "br_bd_diretorios_brasil"

	tests := []struct {
		name     string
		col      Column
		expected bool
	}{
		{
			name:     "no directory reference",
			col:      Column{Name: "valor"},
			expected: false,
		},
		{
			name:     "directory reference",
			col:      Column{Name: "id_municipio", DirectoryPrimaryKeyID: &pk, DirectoryDatasetSlug: &brasil},
			expected: true,
		},
		{
			name:     "calendar directory is excluded",
			col:      Column{Name: "ano", DirectoryPrimaryKeyID: &pk, DirectoryDatasetSlug: &calendar},
			expected: false,
		},
		{
			name:     "unresolved dataset slug still counts",
			col:      Column{Name: "sigla_uf", DirectoryPrimaryKeyID: &pk},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.IsDirectoryKey(); got != tt.expected {
				t.Errorf("IsDirectoryKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}
