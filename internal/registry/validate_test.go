package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	doc := `
administer nodes:
  title: 'Administer content'
  description: 'Promote, change ownership, edit revisions.'
  restrict access: true
access content:
  title: 'View published content'
post comments:
`
	result := Validate([]byte(doc))
	require.True(t, result.IsValid(), "unexpected errors: %v", result.Errors)
}

func TestValidate_Empty(t *testing.T) {
	require.True(t, Validate(nil).IsValid())
}

func TestValidate_NotAMapping(t *testing.T) {
	result := Validate([]byte("- access content\n- post comments\n"))
	require.False(t, result.IsValid())
	require.Contains(t, result.Errors[0].Message, "mapping of permission names")
}

func TestValidate_InvalidYAML(t *testing.T) {
	result := Validate([]byte("access content: [unclosed"))
	require.Len(t, result.Errors, 1)
	require.True(t, strings.HasPrefix(result.Errors[0].Message, "invalid YAML"))
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	doc := `access content:
  title: ''
post, comments:
  title: 'Post comments'
administer nodes:
  title: 'Administer content'
  restrict access: 'yes please'
  weight: 3
delete nodes: 'Delete content'
`
	result := Validate([]byte(doc))
	require.False(t, result.IsValid())

	var got []string
	for _, e := range result.Errors {
		got = append(got, e.Error())
	}
	require.Equal(t, []string{
		"line 2: access content.title: must not be empty",
		"line 3: post, comments: permission name must not contain a comma",
		"line 7: administer nodes.restrict access: must be true or false",
		"line 8: administer nodes.weight: unknown field",
		"line 9: delete nodes: must be a mapping",
	}, got)
}

func TestValidationError_Error(t *testing.T) {
	require.Equal(t, "broken", ValidationError{Message: "broken"}.Error())
	require.Equal(t, "a: broken", ValidationError{Path: "a", Message: "broken"}.Error())
	require.Equal(t, "line 4: a: broken", ValidationError{Path: "a", Line: 4, Message: "broken"}.Error())
}
