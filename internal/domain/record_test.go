package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_GroupsAndTitle(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantGroups []string
		wantTitle  string
	}{
		{"root entry", "test1", []string{}, "test1"},
		{"one group", "docs/test3", []string{"docs"}, "test3"},
		{"nested groups", "web/emails/test4", []string{"web", "emails"}, "test4"},
		{"three levels", "a/b/c", []string{"a", "b"}, "c"},
		{"leading separator", "/web/test2", []string{"web"}, "test2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord(tt.identifier)
			assert.Equal(t, tt.wantGroups, r.Groups)
			assert.Equal(t, tt.wantTitle, r.Title)
			assert.Equal(t, append(append([]string{}, tt.wantGroups...), tt.wantTitle), r.Identifier)
		})
	}
}

func TestNewRecord_GroupsDoNotAliasIdentifier(t *testing.T) {
	r := NewRecord("web/emails/test4")
	r.Groups[0] = "changed"
	assert.Equal(t, "web", r.Identifier[0])
}

func TestNewRecord_CustomFieldsArePerInstance(t *testing.T) {
	a := NewRecord("a")
	b := NewRecord("b")
	a.CustomFields["k"] = "v"
	assert.Empty(t, b.CustomFields)
}

func TestParseRecord_AllFields(t *testing.T) {
	r := ParseRecord("web/test", "P\n---\nurl: U\nuser: X\nnotes: N\nfoo: bar\n")

	assert.Equal(t, "P", r.Secret)
	assert.Equal(t, "U", r.URL)
	assert.Equal(t, "X", r.Username)
	assert.Equal(t, "N", r.Notes)
	assert.Equal(t, map[string]string{"foo": "bar"}, r.CustomFields)
}

func TestParseRecord_StoreFixture(t *testing.T) {
	text := "somepassword\n---\nurl: someurl.com\nuser: myusername\n" +
		"notes: some notes something interesting\ncell_number: 00000000\n"
	r := ParseRecord("test1", text)

	assert.Equal(t, "somepassword", r.Secret)
	assert.Equal(t, "someurl.com", r.URL)
	assert.Equal(t, "myusername", r.Username)
	assert.Equal(t, "some notes something interesting", r.Notes)
	assert.Equal(t, "00000000", r.CustomFields["cell_number"])
}

func TestParseRecord_FirstLineIsAlwaysSecret(t *testing.T) {
	r := ParseRecord("x", "url: looks-like-a-field\nurl: real")
	assert.Equal(t, "url: looks-like-a-field", r.Secret)
	assert.Equal(t, "real", r.URL)
}

func TestParseRecord_SecretIsNotTrimmed(t *testing.T) {
	r := ParseRecord("x", "  spaced secret  \n")
	assert.Equal(t, "  spaced secret  ", r.Secret)
}

func TestParseRecord_EmptyText(t *testing.T) {
	r := ParseRecord("x", "")
	assert.Equal(t, "", r.Secret)
	assert.Equal(t, "", r.URL)
	assert.Equal(t, "", r.Username)
	assert.Equal(t, "", r.Notes)
	assert.Empty(t, r.CustomFields)
}

func TestParseRecord_SecretOnly(t *testing.T) {
	r := ParseRecord("x", "hunter2")
	assert.Equal(t, "hunter2", r.Secret)
	assert.Empty(t, r.CustomFields)
}

func TestParseRecord_BlankFirstLine(t *testing.T) {
	r := ParseRecord("x", "\nuser: me")
	assert.Equal(t, "", r.Secret)
	assert.Equal(t, "me", r.Username)
}

func TestParseRecord_InvalidLinesDropped(t *testing.T) {
	r := ParseRecord("x", "s\nsome NOT valid line\n:value\n---\n\nsome: valid line")
	assert.Equal(t, map[string]string{"some": "valid line"}, r.CustomFields)
}

func TestParseRecord_BlankKeyDropped(t *testing.T) {
	r := ParseRecord("x", "s\n : v\n\t:tab\nok: 1")
	assert.Equal(t, map[string]string{"ok": "1"}, r.CustomFields)
	assert.Empty(t, r.URL)
}

func TestParseRecord_SplitsOnFirstColonOnly(t *testing.T) {
	r := ParseRecord("x", "s\na: b: c\nurl: https://example.com:8443/login")
	assert.Equal(t, "b: c", r.CustomFields["a"])
	assert.Equal(t, "https://example.com:8443/login", r.URL)
}

func TestParseRecord_LoginAndUserShareField(t *testing.T) {
	r := ParseRecord("x", "s\nuser: first\nlogin: second")
	assert.Equal(t, "second", r.Username)
	assert.NotContains(t, r.CustomFields, "login")
	assert.NotContains(t, r.CustomFields, "user")

	r = ParseRecord("x", "s\nlogin: first\nuser: second")
	assert.Equal(t, "second", r.Username)
}

func TestParseRecord_KeysAreCaseSensitive(t *testing.T) {
	r := ParseRecord("x", "s\nURL: upper\nUser: upper")
	assert.Equal(t, "", r.URL)
	assert.Equal(t, "", r.Username)
	assert.Equal(t, map[string]string{"URL": "upper", "User": "upper"}, r.CustomFields)
}

func TestParseRecord_DuplicateCustomKeyLastWins(t *testing.T) {
	r := ParseRecord("x", "s\npin: 1111\npin: 2222")
	assert.Equal(t, "2222", r.CustomFields["pin"])
}

func TestParseRecord_CRLF(t *testing.T) {
	r := ParseRecord("x", "secret\r\n---\r\nuser: me\r\n")
	assert.Equal(t, "secret", r.Secret)
	assert.Equal(t, "me", r.Username)
}

func TestIsValidLine(t *testing.T) {
	assert.True(t, IsValidLine("some: valid line"))
	assert.True(t, IsValidLine("k:"))
	assert.False(t, IsValidLine("some NOT valid line"))
	assert.False(t, IsValidLine(":value"))
	assert.False(t, IsValidLine(""))
}

func TestParseLine(t *testing.T) {
	key, value := ParseLine("some: valid line")
	assert.Equal(t, "some", key)
	assert.Equal(t, "valid line", value)

	key, value = ParseLine("  spaced key  :   spaced value  ")
	assert.Equal(t, "spaced key", key)
	assert.Equal(t, "spaced value", value)
}

func TestRecord_Path(t *testing.T) {
	assert.Equal(t, "web/emails/test4", NewRecord("web/emails/test4").Path())
	assert.Equal(t, "test1", NewRecord("/test1").Path())
}

func TestRecord_Clone(t *testing.T) {
	r := ParseRecord("web/test", "p\nfoo: bar")
	c := r.Clone()
	require.Equal(t, r, c)

	c.CustomFields["foo"] = "changed"
	c.Groups[0] = "changed"
	assert.Equal(t, "bar", r.CustomFields["foo"])
	assert.Equal(t, "web", r.Groups[0])
}
