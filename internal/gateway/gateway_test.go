package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	aws_v2 "github.com/aws/aws-sdk-go-v2/aws"
	aws_iam_v2 "github.com/aws/aws-sdk-go-v2/service/iam"
	aws_iam_v2_types "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/dacarey/apigw-org-access/gateconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPIGateway struct {
	apigatewayiface.APIGatewayAPI

	policy      string
	deployments int
}

func (f *fakeAPIGateway) GetRestApi(in *apigateway.GetRestApiInput) (*apigateway.RestApi, error) {
	return &apigateway.RestApi{
		Id:     in.RestApiId,
		Name:   aws.String("test-api"),
		Policy: aws.String(f.policy),
	}, nil
}

func (f *fakeAPIGateway) UpdateRestApi(in *apigateway.UpdateRestApiInput) (*apigateway.RestApi, error) {
	f.policy = aws.StringValue(in.PatchOperations[0].Value)
	return &apigateway.RestApi{Id: in.RestApiId}, nil
}

func (f *fakeAPIGateway) CreateDeployment(in *apigateway.CreateDeploymentInput) (*apigateway.Deployment, error) {
	f.deployments++
	return &apigateway.Deployment{Id: aws.String("dep-123")}, nil
}

type fakeIAM struct {
	policies map[string]string
}

func (f *fakeIAM) CreatePolicy(ctx context.Context, in *aws_iam_v2.CreatePolicyInput, optFns ...func(*aws_iam_v2.Options)) (*aws_iam_v2.CreatePolicyOutput, error) {
	name := aws_v2.ToString(in.PolicyName)
	arn := "arn:aws:iam::111111111111:policy/" + name
	if f.policies == nil {
		f.policies = make(map[string]string)
	}
	f.policies[arn] = aws_v2.ToString(in.PolicyDocument)
	return &aws_iam_v2.CreatePolicyOutput{
		Policy: &aws_iam_v2_types.Policy{Arn: aws_v2.String(arn)},
	}, nil
}

func (f *fakeIAM) DeletePolicy(ctx context.Context, in *aws_iam_v2.DeletePolicyInput, optFns ...func(*aws_iam_v2.Options)) (*aws_iam_v2.DeletePolicyOutput, error) {
	arn := aws_v2.ToString(in.PolicyArn)
	if _, ok := f.policies[arn]; !ok {
		return nil, &aws_iam_v2_types.NoSuchEntityException{}
	}
	delete(f.policies, arn)
	return &aws_iam_v2.DeletePolicyOutput{}, nil
}

func newTestDeployer(t *testing.T, cfg *gateconfig.Config) (*Deployer, *fakeAPIGateway) {
	cfg.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.ValidateAndSetDefaults())
	fake := &fakeAPIGateway{}
	return &Deployer{
		cfg:      cfg,
		lg:       zap.NewExample(),
		apigwAPI: fake,
		iamAPIV2: &fakeIAM{},
	}, fake
}

func TestAttach(t *testing.T) {
	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDs = "o-aaaa1111,o-bbbb2222"
	dp, fake := newTestDeployer(t, cfg)

	require.NoError(t, dp.Attach())
	assert.Equal(t, 1, fake.deployments)

	cur, err := dp.Current()
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.ElementsMatch(t, []string{"o-aaaa1111", "o-bbbb2222"}, cur.OrgIDs())
}

func TestAttachEmptyAllowList(t *testing.T) {
	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	dp, fake := newTestDeployer(t, cfg)

	require.NoError(t, dp.Attach())
	assert.Equal(t, "", fake.policy)
	assert.Zero(t, fake.deployments)

	cur, err := dp.Current()
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestAttachFileWinsOverInline(t *testing.T) {
	p := filepath.Join(t.TempDir(), "allow-list.json")
	require.NoError(t, os.WriteFile(p, []byte(`["o-file0001"]`), 0600))

	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDsFile = p
	cfg.AllowedOrgIDs = "o-inline01"
	dp, _ := newTestDeployer(t, cfg)

	require.NoError(t, dp.Attach())

	cur, err := dp.Current()
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, []string{"o-file0001"}, cur.OrgIDs())
}

func TestAttachMalformedFileFailsClosed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "allow-list.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"orgs": ["o-aaaa1111"]}`), 0600))

	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDsFile = p
	dp, fake := newTestDeployer(t, cfg)

	require.Error(t, dp.Attach())
	assert.Equal(t, "", fake.policy)
	assert.Zero(t, fake.deployments)
}

func TestAttachNullFileFailsClosed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "allow-list.json")
	require.NoError(t, os.WriteFile(p, []byte(`null`), 0600))

	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDsFile = p
	dp, fake := newTestDeployer(t, cfg)

	require.Error(t, dp.Attach())
	assert.Equal(t, "", fake.policy)
	assert.Zero(t, fake.deployments)
}

func TestAttachNoDeploy(t *testing.T) {
	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDs = "o-aaaa1111"
	cfg.DeployOnAttach = false
	dp, fake := newTestDeployer(t, cfg)

	require.NoError(t, dp.Attach())
	assert.Zero(t, fake.deployments)
}

func TestDetach(t *testing.T) {
	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDs = "o-aaaa1111"
	dp, fake := newTestDeployer(t, cfg)

	require.NoError(t, dp.Attach())
	require.NotEmpty(t, fake.policy)

	require.NoError(t, dp.Detach())
	assert.Equal(t, "", fake.policy)
	assert.Equal(t, 2, fake.deployments)
}

func TestGrantRevoke(t *testing.T) {
	cfg := gateconfig.NewDefault()
	cfg.RestAPIID = "api-123"
	cfg.AWSAccountID = "111111111111"
	dp, _ := newTestDeployer(t, cfg)

	policyARN, err := dp.Grant(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::111111111111:policy/"+cfg.InvokePolicyName, policyARN)
	assert.Equal(t, policyARN, cfg.InvokePolicyARN)

	loaded, err := gateconfig.Load(cfg.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, policyARN, loaded.InvokePolicyARN)

	require.NoError(t, dp.Revoke(context.Background()))
	assert.Equal(t, "", cfg.InvokePolicyARN)

	// nothing recorded to revoke
	assert.Error(t, dp.Revoke(context.Background()))
}
