package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "context record",
			serviceName: ContextService,
			objectType:  "course",
			identifier:  "course_01hx",
			expectedKey: "tuteai:context:course:course_01hx",
		},
		{
			name:        "with empty paramsKey",
			serviceName: GenerationService,
			objectType:  "quiz",
			identifier:  "abc123",
			paramsKey:   []string{},
			expectedKey: "tuteai:generation:quiz:abc123",
		},
		{
			name:        "with one paramsKey",
			serviceName: GenerationService,
			objectType:  "lesson",
			identifier:  "abc",
			paramsKey:   []string{"v2"},
			expectedKey: "tuteai:generation:lesson:abc:v2",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "order",
			objectType:  "item",
			identifier:  "xyz",
			paramsKey:   []string{"param1", "param2", "param3"},
			expectedKey: "tuteai:order:item:xyz:param1_param2_param3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}
