package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "nested structure",
			key:      "charge",
			body:     `{"charge": {"type": "Challan", "amount": 500}}`,
			expected: bindTarget{Type: "Challan", Amount: 500},
		},
		{
			name:     "flat structure",
			key:      "charge",
			body:     `{"type": "Fuel", "amount": 120}`,
			expected: bindTarget{Type: "Fuel", Amount: 120},
		},
		{
			name:     "missing key falls back to flat",
			key:      "charge",
			body:     `{"other": "value", "type": "Helmet", "amount": 150}`,
			expected: bindTarget{Type: "Helmet", Amount: 150},
		},
		{
			name:        "invalid json",
			key:         "charge",
			body:        `{"charge": `,
			expectError: true,
		},
		{
			name:        "nested value of wrong shape",
			key:         "charge",
			body:        `{"charge": "not an object"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))

			var target bindTarget
			err := BindNestedOrFlat(c, tt.key, &target)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}
