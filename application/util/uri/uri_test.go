package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnhex(t *testing.T) {
	assert.Equal(t, byte(0xFF), unhex([2]byte{'F', 'F'}))
	assert.Equal(t, byte(0xFF), unhex([2]byte{'f', 'f'}))
	assert.Equal(t, byte(0x31), unhex([2]byte{'3', '1'}))
}

func TestUnescape(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected string
		wantErr  bool
	}{
		{desc: "nothing to decode", input: "/index.html", expected: "/index.html"},
		{desc: "space", input: "/my%20file.txt", expected: "/my file.txt"},
		{desc: "lowercase hex", input: "/%e2%82%ac", expected: "/€"},
		{desc: "encoded percent", input: "/100%25", expected: "/100%"},
		{desc: "truncated", input: "/a%2", wantErr: true},
		{desc: "not hex", input: "/a%zz", wantErr: true},
		{desc: "trailing percent", input: "/a%", wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Unescape(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadEscape)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSplitTarget(t *testing.T) {
	testcases := []struct {
		input string
		path  string
		query string
	}{
		{input: "/a/b", path: "/a/b"},
		{input: "/a?x=1", path: "/a", query: "x=1"},
		{input: "/a?x=1#top", path: "/a", query: "x=1"},
		{input: "/a#top?x=1", path: "/a"},
		{input: "?x", path: "", query: "x"},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			path, query := SplitTarget(tc.input)
			assert.Equal(t, tc.path, path)
			assert.Equal(t, tc.query, query)
		})
	}
}

func TestDecodePath(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected string
		wantErr  bool
	}{
		{desc: "plain", input: "/docs/index.html", expected: "/docs/index.html"},
		{desc: "query dropped", input: "/search%20me?q=%zz", expected: "/search me"},
		{desc: "encoded dots stay dots", input: "/%2e%2e/etc", expected: "/../etc"},
		{desc: "bad escape", input: "/%g0", wantErr: true},
		{desc: "nul", input: "/a%00.txt", wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := DecodePath(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadPath)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
