package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeightResolver(t *testing.T) {
	hr := HeightResolver{FloorHeight: 3.0, DefaultHeight: 20.0}

	tests := []struct {
		name string
		tags map[string]string
		want float64
	}{
		{
			name: "explicit height wins",
			tags: map[string]string{"height": "42.5", "building:levels": "10"},
			want: 42.5,
		},
		{
			name: "levels times floor height",
			tags: map[string]string{"building:levels": "5"},
			want: 15.0,
		},
		{
			name: "default when untagged",
			tags: map[string]string{"building": "yes"},
			want: 20.0,
		},
		{
			name: "unparsable height falls through to levels",
			tags: map[string]string{"height": "12 m", "building:levels": "4"},
			want: 12.0,
		},
		{
			name: "non-positive height falls through",
			tags: map[string]string{"height": "-3", "building:levels": "2"},
			want: 6.0,
		},
		{
			name: "zero levels falls through to default",
			tags: map[string]string{"building:levels": "0"},
			want: 20.0,
		},
		{
			name: "unparsable levels falls through to default",
			tags: map[string]string{"building:levels": "many"},
			want: 20.0,
		},
		{
			name: "fractional levels",
			tags: map[string]string{"building:levels": "2.5"},
			want: 7.5,
		},
		{
			name: "nil tags",
			tags: nil,
			want: 20.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hr.Resolve(tt.tags))
		})
	}
}
