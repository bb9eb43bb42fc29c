package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;i&gt;c&lt;/i&gt;", EscapeHTML("a & b <i>c</i>"))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my file (1).png", "my-file-1-.png"},
		{"../../etc/passwd", "..-..-etc-passwd"},
		{"", "file"},
		{"///", "file"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SafeFileName(tc.in), tc.in)
	}
}
