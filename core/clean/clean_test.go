package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDedupe(t *testing.T) {
	in := []*string{nil, ptr("<p>a</p>"), ptr("<p>b</p>"), nil, ptr("<p>a</p>"), ptr("<p>c</p>"), ptr("<p>b</p>")}
	assert.Equal(t, []string{"<p>a</p>", "<p>b</p>", "<p>c</p>"}, Dedupe(in))
}

func TestDedupe_NoDuplicatesInOutput(t *testing.T) {
	in := []*string{ptr("x"), ptr("y"), ptr("x"), ptr("z"), ptr("y"), ptr("x")}
	out := Dedupe(in)

	seen := map[string]bool{}
	for _, s := range out {
		assert.False(t, seen[s], "duplicate %q", s)
		seen[s] = true
	}
	assert.Equal(t, []string{"x", "y", "z"}, out)
}

func TestDedupe_StripsImages(t *testing.T) {
	in := []*string{
		ptr(`<p>a<img src="cid:1"></p>`),
		ptr(`<p>a<IMG src="cid:2"/></p>`),
		ptr(`<img src="x.png"></img>`),
		ptr(""),
	}
	// Keys are taken before stripping, so the first two both survive and
	// become identical.
	assert.Equal(t, []string{"<p>a</p>", "<p>a</p>"}, Dedupe(in))
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
	assert.Empty(t, Dedupe([]*string{nil, nil}))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"template delimiters", "{{name}}", "{{{name}}}"},
		{"comments", "a<!-- one -->b<!--\nmulti\nline\n-->c", "abc"},
		{"pardot region", `<div pardot-region="body">x</div>`, "<div>x</div>"},
		{"office spacer", "<p>x<o:p></o:p></p><p><o:p>y</p>", "<p>x</p><p>y</p>"},
		{"untouched", "<p>plain</p>", "<p>plain</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_NoCommentsRemain(t *testing.T) {
	out := Sanitize("<!--[if mso]><table><![endif]-->Hi {{name}}<!-- x -->")
	assert.NotContains(t, out, "<!--")
	assert.Equal(t, "Hi {{{name}}}", out)
}

func TestSanitizeAll(t *testing.T) {
	out := SanitizeAll([]string{"{{a}}", "<!--c-->b"})
	require.Len(t, out, 2)
	assert.Equal(t, "{{{a}}}", out[0])
	assert.Equal(t, "b", out[1])
}

func TestSanitizeAll_DropsBlank(t *testing.T) {
	out := SanitizeAll([]string{"<!-- only a comment -->", "a", " <o:p></o:p> ", "b"})
	assert.Equal(t, []string{"a", "b"}, out)
}
