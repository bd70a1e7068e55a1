package whoami

import (
	"context"

	aws_v2 "github.com/aws/aws-sdk-go-v2/aws"
	aws_middleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	aws_sts_v2 "github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity is the authenticated identity of the transport-level
// caller, as resolved by the identity-verification service.
type CallerIdentity struct {
	AccountID string `json:"accountId"`
	ARN       string `json:"arn"`
	UserID    string `json:"userId"`
	RequestID string `json:"requestId,omitempty"`
}

// Resolver resolves the authenticated identity of the current caller.
// Implementations must be safe for concurrent use; one resolver is
// shared across all requests for the process lifetime.
type Resolver interface {
	Resolve(ctx context.Context) (CallerIdentity, error)
}

type stsResolver struct {
	cli *aws_sts_v2.Client
}

// NewResolver creates an STS-backed resolver. "GetCallerIdentity"
// takes no parameters; STS infers the identity from the channel's
// own signing credentials.
func NewResolver(awsCfg aws_v2.Config) Resolver {
	return &stsResolver{cli: aws_sts_v2.NewFromConfig(awsCfg)}
}

func (r *stsResolver) Resolve(ctx context.Context) (CallerIdentity, error) {
	out, err := r.cli.GetCallerIdentity(ctx, &aws_sts_v2.GetCallerIdentityInput{})
	if err != nil {
		return CallerIdentity{}, err
	}
	reqID, _ := aws_middleware.GetRequestIDMetadata(out.ResultMetadata)
	return CallerIdentity{
		AccountID: aws_v2.ToString(out.Account),
		ARN:       aws_v2.ToString(out.Arn),
		UserID:    aws_v2.ToString(out.UserId),
		RequestID: reqID,
	}, nil
}
