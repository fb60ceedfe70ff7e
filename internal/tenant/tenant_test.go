package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTenantID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid simple", "acme", false},
		{"valid with hyphen", "acme-press", false},
		{"valid with underscore", "acme_press", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"path traversal", "../other", true},
		{"spaces", "acme press", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenantID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassifyOrigin(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		fields map[string]any
		want   Origin
	}{
		{
			name:   "explicit tenant origin",
			id:     "c1",
			fields: map[string]any{"origin": "tenant"},
			want:   OriginTenant,
		},
		{
			name:   "explicit curated origin",
			id:     "c1",
			fields: map[string]any{"origin": "curated"},
			want:   OriginCurated,
		},
		{
			name:   "legacy isReference flag",
			id:     "c1",
			fields: map[string]any{"isReference": true},
			want:   OriginCurated,
		},
		{
			name:   "legacy flag false",
			id:     "c1",
			fields: map[string]any{"isReference": false},
			want:   OriginTenant,
		},
		{
			name:   "legacy curated id prefix without flag",
			id:     CuratedIDPrefix + "abc123",
			fields: map[string]any{},
			want:   OriginCurated,
		},
		{
			name:   "explicit origin wins over prefix",
			id:     CuratedIDPrefix + "abc123",
			fields: map[string]any{"origin": "tenant"},
			want:   OriginTenant,
		},
		{
			name:   "plain record defaults to tenant",
			id:     "c1",
			fields: map[string]any{"name": "Spiegel Verlag"},
			want:   OriginTenant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOrigin(tt.id, tt.fields))
		})
	}
}
