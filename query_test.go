package schemadex_test

import (
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		mode schemadex.Mode
		term string
	}{
		{"", schemadex.ModeAll, ""},
		{"   ", schemadex.ModeAll, ""},
		{"m_iHealth", schemadex.ModeAll, "m_ihealth"},
		{"class:Foo", schemadex.ModeClass, "foo"},
		{"  Class: Foo ", schemadex.ModeClass, "foo"},
		{"offset:OFS1", schemadex.ModeOffset, "ofs1"},
		{"enum:Team", schemadex.ModeEnum, "team"},
		{"enum:", schemadex.ModeEnum, ""},
		{"classes:foo", schemadex.ModeAll, "classes:foo"},
		{"xclass:foo", schemadex.ModeAll, "xclass:foo"},
		{"class:offset:foo", schemadex.ModeClass, "offset:foo"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			q := schemadex.ParseQuery(tt.raw)

			assert.Equal(t, tt.mode, q.Mode)
			assert.Equal(t, tt.term, q.Term)
		})
	}
}

func TestQuery_Key(t *testing.T) {
	t.Parallel()

	assert.Equal(t, schemadex.ParseQuery("Class: Foo").Key(), schemadex.ParseQuery("class:foo").Key())
	assert.NotEqual(t, schemadex.ParseQuery("class:foo").Key(), schemadex.ParseQuery("foo").Key())
	assert.Equal(t, "all:", schemadex.ParseQuery("").Key())
}
