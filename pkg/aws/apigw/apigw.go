// Package apigw implements API Gateway resource policy operations.
package apigw

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/dacarey/apigw-org-access/pkg/orgpolicy"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// AttachPolicy attaches the resource policy document to the REST API.
// A nil document detaches nothing and attaches nothing; the REST API is
// left unrestricted on purpose.
func AttachPolicy(
	lg *zap.Logger,
	svc apigatewayiface.APIGatewayAPI,
	restAPIID string,
	doc *orgpolicy.Document,
) error {
	if restAPIID == "" {
		return errors.New("empty REST API ID")
	}
	if doc == nil {
		lg.Info("no resource policy to attach; leaving REST API unrestricted",
			zap.String("rest-api-id", restAPIID),
		)
		return nil
	}
	txt, err := doc.JSON()
	if err != nil {
		return fmt.Errorf("failed to serialize resource policy (%v)", err)
	}
	_, err = svc.UpdateRestApi(&apigateway.UpdateRestApiInput{
		RestApiId: aws.String(restAPIID),
		PatchOperations: []*apigateway.PatchOperation{
			{
				Op:    aws.String("replace"),
				Path:  aws.String("/policy"),
				Value: aws.String(txt),
			},
		},
	})
	if err != nil {
		lg.Warn("failed to attach resource policy", zap.String("rest-api-id", restAPIID), zap.Error(err))
		return err
	}
	lg.Info("attached resource policy",
		zap.String("rest-api-id", restAPIID),
		zap.String("policy", txt),
	)
	return nil
}

// CurrentPolicy fetches the resource policy currently attached to the
// REST API. Returns nil when no policy is attached.
func CurrentPolicy(
	lg *zap.Logger,
	svc apigatewayiface.APIGatewayAPI,
	restAPIID string,
) (*orgpolicy.Document, error) {
	if restAPIID == "" {
		return nil, errors.New("empty REST API ID")
	}
	out, err := svc.GetRestApi(&apigateway.GetRestApiInput{
		RestApiId: aws.String(restAPIID),
	})
	if err != nil {
		lg.Warn("failed to get REST API", zap.String("rest-api-id", restAPIID), zap.Error(err))
		return nil, err
	}
	lg.Info("found REST API",
		zap.String("rest-api-id", restAPIID),
		zap.String("name", aws.StringValue(out.Name)),
		zap.String("created-at", humanize.Time(aws.TimeValue(out.CreatedDate))),
	)
	txt := aws.StringValue(out.Policy)
	if txt == "" {
		lg.Info("no resource policy attached", zap.String("rest-api-id", restAPIID))
		return nil, nil
	}
	doc, err := orgpolicy.Parse(lg, txt)
	if err != nil {
		return nil, err
	}
	lg.Info("current resource policy",
		zap.String("rest-api-id", restAPIID),
		zap.Strings("org-ids", doc.OrgIDs()),
	)
	return doc, nil
}

// DetachPolicy clears the resource policy from the REST API.
func DetachPolicy(
	lg *zap.Logger,
	svc apigatewayiface.APIGatewayAPI,
	restAPIID string,
) error {
	if restAPIID == "" {
		return errors.New("empty REST API ID")
	}
	_, err := svc.UpdateRestApi(&apigateway.UpdateRestApiInput{
		RestApiId: aws.String(restAPIID),
		PatchOperations: []*apigateway.PatchOperation{
			{
				Op:    aws.String("replace"),
				Path:  aws.String("/policy"),
				Value: aws.String(""),
			},
		},
	})
	if err != nil {
		lg.Warn("failed to detach resource policy", zap.String("rest-api-id", restAPIID), zap.Error(err))
		return err
	}
	lg.Info("detached resource policy", zap.String("rest-api-id", restAPIID))
	return nil
}

// Deploy creates a new deployment for the stage. Resource policy
// changes only take effect on the next deployment of the stage.
func Deploy(
	lg *zap.Logger,
	svc apigatewayiface.APIGatewayAPI,
	restAPIID string,
	stageName string,
) error {
	if restAPIID == "" {
		return errors.New("empty REST API ID")
	}
	if stageName == "" {
		return errors.New("empty stage name")
	}
	out, err := svc.CreateDeployment(&apigateway.CreateDeploymentInput{
		RestApiId:   aws.String(restAPIID),
		StageName:   aws.String(stageName),
		Description: aws.String("redeploy after resource policy update"),
	})
	if err != nil {
		lg.Warn("failed to create deployment",
			zap.String("rest-api-id", restAPIID),
			zap.String("stage-name", stageName),
			zap.Error(err),
		)
		return err
	}
	lg.Info("created deployment",
		zap.String("rest-api-id", restAPIID),
		zap.String("stage-name", stageName),
		zap.String("deployment-id", aws.StringValue(out.Id)),
	)
	return nil
}
