package gateconfig

import (
	"os"
	"reflect"
	"testing"
)

func TestEnv(t *testing.T) {
	cfg := NewDefault()

	os.Setenv("APIGW_ORG_ACCESS_REGION", "us-east-1")
	os.Setenv("APIGW_ORG_ACCESS_REST_API_ID", "api-456")
	os.Setenv("APIGW_ORG_ACCESS_STAGE_NAME", "staging")
	os.Setenv("APIGW_ORG_ACCESS_DEPLOY_ON_ATTACH", "false")
	os.Setenv("APIGW_ORG_ACCESS_ALLOWED_ORG_IDS", "o-aaaa1111,o-bbbb2222")
	os.Setenv("APIGW_ORG_ACCESS_ALLOWED_ORG_IDS_FILE", "/tmp/allow-list.json")
	os.Setenv("APIGW_ORG_ACCESS_LOG_LEVEL", "debug")
	os.Setenv("APIGW_ORG_ACCESS_LOG_OUTPUTS", "stderr,apigw.log")

	defer func() {
		os.Unsetenv("APIGW_ORG_ACCESS_REGION")
		os.Unsetenv("APIGW_ORG_ACCESS_REST_API_ID")
		os.Unsetenv("APIGW_ORG_ACCESS_STAGE_NAME")
		os.Unsetenv("APIGW_ORG_ACCESS_DEPLOY_ON_ATTACH")
		os.Unsetenv("APIGW_ORG_ACCESS_ALLOWED_ORG_IDS")
		os.Unsetenv("APIGW_ORG_ACCESS_ALLOWED_ORG_IDS_FILE")
		os.Unsetenv("APIGW_ORG_ACCESS_LOG_LEVEL")
		os.Unsetenv("APIGW_ORG_ACCESS_LOG_OUTPUTS")
	}()

	if err := cfg.UpdateFromEnvs(); err != nil {
		t.Fatal(err)
	}

	if cfg.Region != "us-east-1" {
		t.Fatalf("Region unexpected %q", cfg.Region)
	}
	if cfg.RestAPIID != "api-456" {
		t.Fatalf("RestAPIID unexpected %q", cfg.RestAPIID)
	}
	if cfg.StageName != "staging" {
		t.Fatalf("StageName unexpected %q", cfg.StageName)
	}
	if cfg.DeployOnAttach {
		t.Fatalf("DeployOnAttach unexpected %v", cfg.DeployOnAttach)
	}
	if cfg.AllowedOrgIDs != "o-aaaa1111,o-bbbb2222" {
		t.Fatalf("AllowedOrgIDs unexpected %q", cfg.AllowedOrgIDs)
	}
	if cfg.AllowedOrgIDsFile != "/tmp/allow-list.json" {
		t.Fatalf("AllowedOrgIDsFile unexpected %q", cfg.AllowedOrgIDsFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel unexpected %q", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.LogOutputs, []string{"stderr", "apigw.log"}) {
		t.Fatalf("unexpected LogOutputs, got %v", cfg.LogOutputs)
	}
}
