package orgpolicy

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildEmpty(t *testing.T) {
	assert.Nil(t, Build(zap.NewExample(), nil))
	assert.Nil(t, Build(zap.NewExample(), []string{}))
}

func TestBuild(t *testing.T) {
	orgIDs := []string{"o-aaaa1111", "o-bbbb2222"}
	doc := Build(zap.NewExample(), orgIDs)
	require.NotNil(t, doc)

	assert.Equal(t, DocumentVersion, doc.Version)
	require.Len(t, doc.Statement, 1)

	sv := doc.Statement[0]
	assert.Equal(t, "Allow", sv.Effect)
	assert.Equal(t, "*", sv.Principal)
	assert.Equal(t, ActionInvoke, sv.Action)
	assert.Equal(t, "execute-api:/*", sv.Resource)
	assert.ElementsMatch(t, orgIDs, sv.Condition[ConditionOperator][ConditionKeyPrincipalOrgID])
	assert.ElementsMatch(t, orgIDs, doc.OrgIDs())
}

func TestRoundTrip(t *testing.T) {
	doc := Build(zap.NewExample(), []string{"o-aaaa1111", "o-bbbb2222"})
	require.NotNil(t, doc)

	txt, err := doc.JSON()
	require.NoError(t, err)

	parsed, err := Parse(zap.NewExample(), txt)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestParseEscapedEcho(t *testing.T) {
	doc := Build(zap.NewExample(), []string{"o-aaaa1111"})
	require.NotNil(t, doc)

	txt, err := doc.JSON()
	require.NoError(t, err)

	// the gateway API echoes the policy back as escaped JSON
	echoed := strconv.Quote(txt)
	echoed = echoed[1 : len(echoed)-1]

	parsed, err := Parse(zap.NewExample(), echoed)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(zap.NewExample(), "not json at all {")
	assert.Error(t, err)
}

func TestJSONShape(t *testing.T) {
	doc := Build(zap.NewExample(), []string{"o-aaaa1111"})
	require.NotNil(t, doc)

	txt, err := doc.JSON()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(txt), &raw))
	assert.Equal(t, "2012-10-17", raw["Version"])

	stmts, ok := raw["Statement"].([]interface{})
	require.True(t, ok)
	require.Len(t, stmts, 1)
}
