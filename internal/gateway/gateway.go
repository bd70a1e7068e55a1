// Package gateway provisions the organization restriction on an API
// Gateway REST API.
package gateway

import (
	"context"
	"errors"
	"fmt"

	aws_iam_v2 "github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/dacarey/apigw-org-access/gateconfig"
	pkg_aws "github.com/dacarey/apigw-org-access/pkg/aws"
	"github.com/dacarey/apigw-org-access/pkg/aws/apigw"
	pkg_iam "github.com/dacarey/apigw-org-access/pkg/aws/iam"
	"github.com/dacarey/apigw-org-access/pkg/logutil"
	"github.com/dacarey/apigw-org-access/pkg/orgpolicy"
	"go.uber.org/zap"
)

// Deployer provisions and inspects the REST API resource policy.
type Deployer struct {
	cfg *gateconfig.Config
	lg  *zap.Logger

	apigwAPI apigatewayiface.APIGatewayAPI
	iamAPIV2 pkg_iam.API
}

// NewDeployer creates a new deployer for the configuration.
// It verifies the provisioner's caller identity at session creation.
func NewDeployer(cfg *gateconfig.Config) (*Deployer, error) {
	if cfg == nil {
		return nil, errors.New("got empty config")
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	lcfg := logutil.AddOutputPaths(logutil.GetDefaultZapLoggerConfig(), cfg.LogOutputs, cfg.LogOutputs)
	lcfg.Level = zap.NewAtomicLevelAt(logutil.ConvertToZapLevel(cfg.LogLevel))
	lg, err := lcfg.Build()
	if err != nil {
		return nil, err
	}

	awsCfg := &pkg_aws.Config{
		Logger:        lg,
		DebugAPICalls: cfg.LogLevel == "debug",
		Partition:     cfg.Partition,
		Region:        cfg.Region,
	}
	ss, stsOutput, credsPath, err := pkg_aws.New(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session (%v)", err)
	}
	cfg.AWSCredentialPath = credsPath
	if stsOutput != nil {
		cfg.AWSAccountID = aws.StringValue(stsOutput.Account)
		cfg.AWSUserID = aws.StringValue(stsOutput.UserId)
		cfg.AWSIAMRoleARN = aws.StringValue(stsOutput.Arn)
	}
	if err = cfg.Sync(); err != nil {
		return nil, err
	}

	awsCfgV2, err := pkg_aws.NewV2(awsCfg)
	if err != nil {
		return nil, err
	}

	return &Deployer{
		cfg:      cfg,
		lg:       lg,
		apigwAPI: apigateway.New(ss),
		iamAPIV2: aws_iam_v2.NewFromConfig(awsCfgV2),
	}, nil
}

// Attach resolves the allow-list, builds the resource policy, and
// attaches it to the REST API. A malformed allow-list source fails
// closed; an unrestricted REST API must never be the byproduct of a
// swallowed configuration error. An empty allow-list attaches nothing.
func (dp *Deployer) Attach() error {
	orgIDs, err := orgpolicy.LoadAllowList(dp.lg, dp.cfg.AllowedOrgIDsFile, dp.cfg.AllowedOrgIDs)
	if err != nil {
		dp.lg.Error("failed to load allow-list; aborting provisioning", zap.Error(err))
		return err
	}
	doc := orgpolicy.Build(dp.lg, orgIDs)
	if err = apigw.AttachPolicy(dp.lg, dp.apigwAPI, dp.cfg.RestAPIID, doc); err != nil {
		return err
	}
	if doc != nil && dp.cfg.DeployOnAttach {
		if err = apigw.Deploy(dp.lg, dp.apigwAPI, dp.cfg.RestAPIID, dp.cfg.StageName); err != nil {
			return err
		}
	}
	return dp.cfg.Sync()
}

// Current fetches the resource policy currently attached to the REST
// API; nil when none is attached.
func (dp *Deployer) Current() (*orgpolicy.Document, error) {
	return apigw.CurrentPolicy(dp.lg, dp.apigwAPI, dp.cfg.RestAPIID)
}

// Detach clears the resource policy from the REST API.
func (dp *Deployer) Detach() error {
	if err := apigw.DetachPolicy(dp.lg, dp.apigwAPI, dp.cfg.RestAPIID); err != nil {
		return err
	}
	if dp.cfg.DeployOnAttach {
		if err := apigw.Deploy(dp.lg, dp.apigwAPI, dp.cfg.RestAPIID, dp.cfg.StageName); err != nil {
			return err
		}
	}
	return dp.cfg.Sync()
}

// Grant creates the caller-side customer managed IAM policy that lets
// a principal invoke the REST API. The gateway resource policy still
// gates callers by organization ID.
func (dp *Deployer) Grant(ctx context.Context) (policyARN string, err error) {
	policyARN, err = pkg_iam.CreateInvokePolicy(ctx, dp.lg, dp.iamAPIV2, dp.cfg.InvokePolicyName, dp.cfg.APIARN())
	if err != nil {
		return "", err
	}
	dp.cfg.InvokePolicyARN = policyARN
	return policyARN, dp.cfg.Sync()
}

// Revoke deletes the caller-side invoke policy created by Grant.
func (dp *Deployer) Revoke(ctx context.Context) error {
	if dp.cfg.InvokePolicyARN == "" {
		return errors.New("no invoke policy ARN recorded; nothing to revoke")
	}
	if err := pkg_iam.DeleteInvokePolicy(ctx, dp.lg, dp.iamAPIV2, dp.cfg.InvokePolicyARN); err != nil {
		return err
	}
	dp.cfg.InvokePolicyARN = ""
	return dp.cfg.Sync()
}
