package scrape

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerPath(t *testing.T) {
	asrt := assert.New(t)

	path, ok := ContainerPath("_", `css:" .list " xpath:"//li"`, CSS)
	asrt.True(ok)
	asrt.Equal(".list", path)

	path, ok = ContainerPath("_", `css:".list" xpath:"//li"`, XPath)
	asrt.True(ok)
	asrt.Equal("//li", path)

	_, ok = ContainerPath("_", `css:"-"`, CSS)
	asrt.False(ok)
	_, ok = ContainerPath("_", `xpath:"//li"`, CSS)
	asrt.False(ok)
	_, ok = ContainerPath("Items", `css:".list"`, CSS)
	asrt.False(ok)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		tag  reflect.StructTag
		ok   bool
		want FieldSpec
	}{
		{
			name: "path and mode",
			tag:  `css:" a.title " extract:"attr=href" default:"/"`,
			ok:   true,
			want: FieldSpec{Name: "F", Path: "a.title", Mode: Attr("href"), HasMode: true, Default: "/", HasDefault: true},
		},
		{
			name: "default kept verbatim",
			tag:  `css:"a" default:" padded "`,
			ok:   true,
			want: FieldSpec{Name: "F", Path: "a", Default: " padded ", HasDefault: true},
		},
		{
			name: "extract only inherits the element",
			tag:  `extract:"name"`,
			ok:   true,
			want: FieldSpec{Name: "F", Mode: Name(), HasMode: true},
		},
		{
			name: "empty path inherits the element",
			tag:  `css:""`,
			ok:   true,
			want: FieldSpec{Name: "F"},
		},
		{name: "ignored", tag: `css:"-" extract:"text"`},
		{name: "other flavor only", tag: `xpath:"//a" extract:"text"`},
		{name: "untagged", tag: `json:"f"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok, err := ParseField("T", "F", tt.tag, CSS)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, spec)
			}
		})
	}
}

func TestParseFieldContainerMarker(t *testing.T) {
	_, ok, err := ParseField("T", "_", `css:".list"`, CSS)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestParseFieldMultipleModes(t *testing.T) {
	_, _, err := ParseField("T", "F", `css:"a" extract:"text,html"`, CSS)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, multipleModes, ce.Reason)
}

func TestFieldSpecValidate(t *testing.T) {
	failing := func(path string) error {
		if path == "bad" {
			return errBadPath
		}
		return nil
	}

	tests := []struct {
		name   string
		spec   FieldSpec
		reason string
	}{
		{"scalar with default", FieldSpec{Path: "a", HasDefault: true}, ""},
		{"scalar guaranteed mode on element", FieldSpec{Mode: Text(), HasMode: true}, ""},
		{"scalar needs default", FieldSpec{Path: "a", Mode: Text(), HasMode: true}, missingDefault},
		{"scalar attr on element needs default", FieldSpec{Mode: Attr("href"), HasMode: true}, missingDefault},
		{"optional without default", FieldSpec{Path: "a", Shape: Optional}, ""},
		{"optional with default", FieldSpec{Path: "a", Shape: Optional, HasDefault: true}, defaultNotAllowed},
		{"collection without path", FieldSpec{Shape: Collection}, collectionNeedsPath},
		{"collection with default", FieldSpec{Path: "a", Shape: Collection, HasDefault: true}, defaultNotAllowed},
		{"struct with mode", FieldSpec{Path: "a", Target: StructTarget, Mode: Text(), HasMode: true}, modeNotAllowed},
		{"struct with default", FieldSpec{Path: "a", Target: StructTarget, HasDefault: true}, defaultNotAllowed},
		{"nodes", FieldSpec{Path: "a", Shape: Collection, Target: NodesTarget}, ""},
		{"invalid path", FieldSpec{Path: "bad", HasDefault: true}, invalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Name = "F"
			err := tt.spec.Validate("T", failing)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "%v", err)
			assert.Equal(t, tt.reason, ce.Reason)
			assert.Equal(t, "F", ce.Field)
		})
	}
}

func TestValidatePathWrapsCause(t *testing.T) {
	err := ValidatePath("T", "", "!", func(string) error { return errBadPath })
	assert.ErrorIs(t, err, errBadPath)

	assert.NoError(t, ValidatePath("T", "", "", func(string) error { return errBadPath }))
	assert.NoError(t, ValidatePath("T", "", "x", nil))
}
