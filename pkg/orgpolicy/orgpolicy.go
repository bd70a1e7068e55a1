// Package orgpolicy builds the organization-scoped resource policy
// for an API Gateway REST API. The policy allows "execute-api:Invoke"
// only for callers whose account belongs to one of the allow-listed
// AWS Organizations.
package orgpolicy

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

const (
	// DocumentVersion is the IAM policy language version.
	DocumentVersion = "2012-10-17"
	// StatementSID labels the one statement this package produces.
	StatementSID = "AllowInvokeFromAllowedOrgs"
	// ActionInvoke is the capability the policy grants.
	ActionInvoke = "execute-api:Invoke"
	// ConditionOperator matches when any value in the condition set equals
	// the caller's organization ID.
	ConditionOperator = "StringEquals"
	// ConditionKeyPrincipalOrgID is the organization identity attribute
	// evaluated by the gateway's trust layer.
	ConditionKeyPrincipalOrgID = "aws:PrincipalOrgID"
)

// Document is the gateway resource policy document.
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is the entry in the policy document "Statement" field.
type Statement struct {
	Sid       string                         `json:"Sid,omitempty"`
	Effect    string                         `json:"Effect"`
	Principal string                         `json:"Principal"`
	Action    string                         `json:"Action"`
	Resource  string                         `json:"Resource"`
	Condition map[string]map[string][]string `json:"Condition,omitempty"`
}

// Build produces the resource policy document for the allow-list.
// An empty allow-list returns nil; absence of an allow-list means
// "do not restrict by organization", not an error.
func Build(lg *zap.Logger, orgIDs []string) *Document {
	if len(orgIDs) == 0 {
		lg.Info("no allowed organization IDs; skipping resource policy")
		return nil
	}
	lg.Info("building resource policy", zap.Strings("org-ids", orgIDs))
	return &Document{
		Version: DocumentVersion,
		Statement: []Statement{
			{
				Sid:       StatementSID,
				Effect:    "Allow",
				Principal: "*",
				Action:    ActionInvoke,
				Resource:  "execute-api:/*",
				Condition: map[string]map[string][]string{
					ConditionOperator: {
						ConditionKeyPrincipalOrgID: orgIDs,
					},
				},
			},
		},
	}
}

// OrgIDs returns the organization IDs bound in the document condition.
func (doc *Document) OrgIDs() (ids []string) {
	for _, sv := range doc.Statement {
		ids = append(ids, sv.Condition[ConditionOperator][ConditionKeyPrincipalOrgID]...)
	}
	return ids
}

// JSON serializes the document for the gateway resource policy field.
func (doc *Document) JSON() (string, error) {
	d, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// Parse parses a resource policy document. The gateway API echoes the
// attached policy back as escaped JSON, so on unmarshal failure it
// unquotes the body and retries.
func Parse(lg *zap.Logger, txt string) (*Document, error) {
	doc := new(Document)
	if err := json.Unmarshal([]byte(txt), doc); err != nil {
		lg.Warn("retrying unmarshal", zap.String("body", txt), zap.Error(err))
		unquoted, uerr := strconv.Unquote(`"` + txt + `"`)
		if uerr != nil {
			return nil, fmt.Errorf("failed to unquote resource policy:\n%s\n\n(%v)", txt, uerr)
		}
		doc = new(Document)
		if err = json.Unmarshal([]byte(unquoted), doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resource policy:\n%s\n\n(%v)", txt, err)
		}
	}
	return doc, nil
}
