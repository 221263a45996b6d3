package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

func TestDomainComputedCorrectly(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		domain string
	}{
		{"tld", "http://thema.ai", "thema.ai"},
		{"long domain", "http://foo.bar.thema.ai", "thema.ai"},
		{"path", "http://thema.ai/foo/bar.html", "thema.ai"},
		{"query params", "http://thema.ai/?foo=bar&bar=baz", "thema.ai"},
		{"all", "http://foo.bar.thema.ai/foobar?foo=bar&bar=baz", "thema.ai"},
		{"long tld", "http://local.nhs.uk", "local.nhs.uk"},
		{"long", "http://mirrors.tuna.tsinghua.edu.cn", "tsinghua.edu.cn"},
		{"trailing dot", "http://thema.ai.", "thema.ai"},
		{"mixed case", "http://Foo.THEMA.AI", "thema.ai"},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			assert.NoError(t, err)

			d, err := extractor.Domain(u)
			assert.NoError(t, err)
			assert.Equal(t, tt.domain, d.String())
		})
	}
}

func TestImpossibleDomainRejected(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
	}{
		{"ipv4", "http://192.168.1.1"},
		{"ipv6", "http://[::1]/"},
		{"localhost", "http://localhost"},
		{"bare suffix", "http://co.uk"},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			assert.NoError(t, err)

			_, err = extractor.Domain(u)
			assert.ErrorIs(t, err, types.ErrNoRegisteredDomain)
		})
	}
}

func TestNoHostRejected(t *testing.T) {
	for _, raw := range []string{"mailto:someone@thema.ai", "/relative/path"} {
		u, err := url.Parse(raw)
		assert.NoError(t, err)

		_, err = NewExtractor().Domain(u)
		assert.ErrorIs(t, err, types.ErrNoHost)
	}
}

func TestExtractorMemoizes(t *testing.T) {
	extractor := NewExtractor()
	u, err := url.Parse("http://foo.bar.thema.ai")
	assert.NoError(t, err)

	first, err := extractor.Domain(u)
	assert.NoError(t, err)
	second, err := extractor.Domain(u)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
