// Package iam implements IAM components for caller-side invoke grants.
package iam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	aws_v2 "github.com/aws/aws-sdk-go-v2/aws"
	aws_iam_v2 "github.com/aws/aws-sdk-go-v2/service/iam"
	aws_iam_v2_types "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"go.uber.org/zap"
)

// PolicyDocument is the IAM policy document.
type PolicyDocument struct {
	Version   string
	Statement []StatementEntry
}

// StatementEntry is the entry in IAM policy document "Statement" field.
type StatementEntry struct {
	Effect   string   `json:"Effect,omitempty"`
	Action   []string `json:"Action,omitempty"`
	Resource string   `json:"Resource,omitempty"`
}

// API is the subset of the IAM API this package calls.
// *"aws_iam_v2.Client" implements it.
type API interface {
	CreatePolicy(ctx context.Context, in *aws_iam_v2.CreatePolicyInput, optFns ...func(*aws_iam_v2.Options)) (*aws_iam_v2.CreatePolicyOutput, error)
	DeletePolicy(ctx context.Context, in *aws_iam_v2.DeletePolicyInput, optFns ...func(*aws_iam_v2.Options)) (*aws_iam_v2.DeletePolicyOutput, error)
}

// NewInvokeDocument returns the policy document that lets the holder
// invoke the REST API. Attach it to principals inside an allow-listed
// organization; the gateway resource policy still gates by org ID.
func NewInvokeDocument(apiARN string) PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []StatementEntry{
			{
				Effect:   "Allow",
				Action:   []string{"execute-api:Invoke"},
				Resource: apiARN,
			},
		},
	}
}

// CreateInvokePolicy creates the customer managed policy for the API.
func CreateInvokePolicy(
	ctx context.Context,
	lg *zap.Logger,
	iamAPIV2 API,
	policyName string,
	apiARN string,
) (policyARN string, err error) {
	if policyName == "" {
		return "", errors.New("empty policy name")
	}
	if apiARN == "" {
		return "", errors.New("empty API ARN")
	}
	doc := NewInvokeDocument(apiARN)
	d, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal policy document (%v)", err)
	}
	out, err := iamAPIV2.CreatePolicy(
		ctx,
		&aws_iam_v2.CreatePolicyInput{
			PolicyName:     aws_v2.String(policyName),
			PolicyDocument: aws_v2.String(string(d)),
			Description:    aws_v2.String("invoke grant for org-restricted REST API"),
		})
	if err != nil {
		var exists *aws_iam_v2_types.EntityAlreadyExistsException
		if errors.As(err, &exists) {
			lg.Warn("policy already exists", zap.String("policy-name", policyName))
		} else {
			lg.Warn("failed to CreatePolicy", zap.Error(err))
		}
		return "", err
	}
	policyARN = aws_v2.ToString(out.Policy.Arn)
	lg.Info("created invoke policy",
		zap.String("policy-name", policyName),
		zap.String("policy-arn", policyARN),
		zap.String("api-arn", apiARN),
	)
	return policyARN, nil
}

// DeleteInvokePolicy deletes the customer managed policy.
func DeleteInvokePolicy(
	ctx context.Context,
	lg *zap.Logger,
	iamAPIV2 API,
	policyARN string,
) error {
	if policyARN == "" {
		return errors.New("empty policy ARN")
	}
	_, err := iamAPIV2.DeletePolicy(
		ctx,
		&aws_iam_v2.DeletePolicyInput{
			PolicyArn: aws_v2.String(policyARN),
		})
	if err != nil {
		var notFound *aws_iam_v2_types.NoSuchEntityException
		if errors.As(err, &notFound) {
			lg.Info("policy already deleted", zap.String("policy-arn", policyARN))
			return nil
		}
		lg.Warn("failed to DeletePolicy", zap.Error(err))
		return err
	}
	lg.Info("deleted invoke policy", zap.String("policy-arn", policyARN))
	return nil
}
