package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-notify/internal/model"
)

func TestRegistryCoversEveryKind(t *testing.T) {
	registry := NewRegistry()

	for _, kind := range model.Kinds() {
		tmpl, ok := registry.Lookup(kind)
		require.True(t, ok, "missing template for kind %s", kind)
		assert.NotEmpty(t, tmpl.SMSText, "empty SMS text for %s", kind)
		assert.NotEmpty(t, tmpl.EmailSubject, "empty email subject for %s", kind)
		assert.NotEmpty(t, tmpl.EmailBody, "empty email body for %s", kind)
	}
}

func TestRegistryUnknownKind(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Lookup(model.NotificationKind("carrier_pigeon"))
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]string
		want string
	}{
		{
			name: "replaces known tokens",
			tmpl: "Hi {{name}}, your appointment is on {{date}}.",
			data: map[string]string{"name": "Asha", "date": "2025-01-10"},
			want: "Hi Asha, your appointment is on 2025-01-10.",
		},
		{
			name: "unknown tokens stay verbatim",
			tmpl: "Hi {{x}}",
			data: map[string]string{},
			want: "Hi {{x}}",
		},
		{
			name: "nil data leaves template untouched",
			tmpl: "Token: {{tokenNumber}}",
			data: nil,
			want: "Token: {{tokenNumber}}",
		},
		{
			name: "repeated token replaced everywhere",
			tmpl: "{{name}} and {{name}}",
			data: map[string]string{"name": "Rao"},
			want: "Rao and Rao",
		},
		{
			name: "mixed known and unknown",
			tmpl: "{{known}} {{unknown}}",
			data: map[string]string{"known": "yes"},
			want: "yes {{unknown}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.tmpl, tt.data))
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	data := map[string]string{"doctorName": "Rao", "date": "2025-01-10", "time": "10:00"}
	tmpl := "Dr. {{doctorName}} on {{date}} at {{time}}"

	once := Render(tmpl, data)
	twice := Render(once, data)
	assert.Equal(t, once, twice)
}
