package sanitizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerPolicies(t *testing.T) {
	testCases := []struct {
		name     string
		policy   PolicyPreset
		input    string
		expected string
	}{
		{"raw passes through", PolicyRaw, "hello\x00world", "hello\x00world"},
		{"txt hex encodes null", PolicyTxt, "test\x00data", "test<00>data"},
		{"txt hex encodes bell", PolicyTxt, "bell\x07", "bell<07>"},
		{"txt keeps line breaks", PolicyTxt, "a\nb\tc", "a\nb\tc"},
		{"txt keeps utf8", PolicyTxt, "Hello 世界 ✓", "Hello 世界 ✓"},
		{"txt multi-byte control", PolicyTxt, "x\u0085y", "x<c285>y"},
		{"filename replaces separators", PolicyFilename, "a/b\\c:d", "a_b_c_d"},
		{"filename replaces wildcards", PolicyFilename, "what?*", "what__"},
		{"filename keeps dashes and dots", PolicyFilename, "my-app.v2", "my-app.v2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
		})
	}
}

func TestSanitizerRuleOrder(t *testing.T) {
	// First matching rule wins
	s := New().
		Rule(FilterWhitespace, TransformStrip).
		Rule(FilterControl, TransformHexEncode)

	assert.Equal(t, "ab", s.Sanitize("a b"))
	assert.Equal(t, "a<07>b", s.Sanitize("a\x07b"))
	// Newline is both whitespace and control, whitespace rule comes first
	assert.Equal(t, "ab", s.Sanitize("a\nb"))
}

func TestSanitizerImmutable(t *testing.T) {
	base := New().Policy(PolicyTxt)
	derived := base.Rule(FilterWhitespace, TransformUnderscore)

	assert.Equal(t, "a b", base.Sanitize("a b"))
	assert.Equal(t, "a_b", derived.Sanitize("a b"))
}

func TestSanitizerConcurrent(t *testing.T) {
	s := New().Policy(PolicyTxt)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "x<00>y", s.Sanitize("x\x00y"))
			}
		}()
	}
	wg.Wait()
}

func TestNilSanitizer(t *testing.T) {
	var s *Sanitizer
	assert.Equal(t, "abc\x00", s.Sanitize("abc\x00"))
}
