// Package gateconfig defines the configuration for restricting an API
// Gateway REST API to allow-listed AWS Organizations.
package gateconfig

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dacarey/apigw-org-access/pkg/logutil"
	"github.com/mitchellh/colorstring"
	"sigs.k8s.io/yaml" // must use "sigs.k8s.io/yaml"
)

// EnvPrefix is the environment variable prefix used for "gateconfig".
const EnvPrefix = "APIGW_ORG_ACCESS_"

// Config defines the gateway organization-restriction configuration.
type Config struct {
	// ConfigPath is the configuration file path.
	// Commands are expected to update this file with latest status.
	ConfigPath string `json:"config-path,omitempty"`

	// Partition is the AWS partition for the REST API region.
	// If empty, set default partition "aws".
	Partition string `json:"partition"`
	// Region is the AWS geographic area for the REST API.
	Region string `json:"region"`

	// RestAPIID is the REST API to restrict.
	RestAPIID string `json:"rest-api-id"`
	// StageName is the stage to redeploy after a policy change.
	// Resource policy changes only take effect on the next deployment.
	StageName string `json:"stage-name"`
	// DeployOnAttach is true to create a deployment for the stage
	// right after attaching or detaching the resource policy.
	DeployOnAttach bool `json:"deploy-on-attach"`

	// AllowedOrgIDsFile is the path to a JSON array of allowed AWS
	// Organization IDs. Wins over "AllowedOrgIDs" when both are set.
	AllowedOrgIDsFile string `json:"allowed-org-ids-file,omitempty"`
	// AllowedOrgIDs is a comma-separated list of allowed AWS
	// Organization IDs. Whitespace around each entry is trimmed.
	AllowedOrgIDs string `json:"allowed-org-ids,omitempty"`

	// InvokePolicyName is the name of the customer managed IAM policy
	// created by the "grant" operation.
	InvokePolicyName string `json:"invoke-policy-name,omitempty"`
	// InvokePolicyARN is the ARN of the policy created by "grant".
	// "revoke" deletes this policy.
	InvokePolicyARN string `json:"invoke-policy-arn,omitempty" read-only:"true"`

	// AWSAccountID is the account ID of the provisioner session.
	AWSAccountID string `json:"aws-account-id" read-only:"true"`
	// AWSUserID is the user ID of the provisioner session.
	AWSUserID string `json:"aws-user-id" read-only:"true"`
	// AWSIAMRoleARN is the IAM Role ARN of the provisioner session.
	AWSIAMRoleARN string `json:"aws-iam-role-arn" read-only:"true"`
	// AWSCredentialPath is automatically set via AWS SDK Go.
	AWSCredentialPath string `json:"aws-credential-path" read-only:"true"`

	// LogColor is true to output logs in color.
	LogColor bool `json:"log-color"`
	// LogLevel configures log level. Only supports debug, info, warn, error, panic, or fatal. Default 'info'.
	LogLevel string `json:"log-level"`
	// LogOutputs is a list of log outputs. Valid values are 'default', 'stderr', 'stdout', or file names.
	// Logs are appended to the existing file, if any.
	// Multiple values are accepted. If empty, it sets to 'default', which outputs to stderr.
	// See https://pkg.go.dev/go.uber.org/zap#Open and https://pkg.go.dev/go.uber.org/zap#Config for more details.
	LogOutputs []string `json:"log-outputs,omitempty"`

	// UpdatedAt is the timestamp when the configuration has been updated.
	// Read only to 'Config' struct users.
	UpdatedAt time.Time `json:"updated-at,omitempty"` // read-only to user
}

// NewDefault returns a copy of the default configuration.
func NewDefault() *Config {
	vv := defaultConfig
	return &vv
}

var defaultConfig = Config{
	Partition: "aws",
	Region:    "us-west-2",

	StageName:      "prod",
	DeployOnAttach: true,

	InvokePolicyName: "apigw-org-access-invoke",

	LogColor: true,
	LogLevel: logutil.DefaultLogLevel,
	// default, stderr, stdout, or file name
	LogOutputs: []string{"stderr"},
}

// Load loads configuration from YAML.
//
// Do not set default values in this function.
// "ValidateAndSetDefaults" must be called separately,
// to prevent overwriting previous data when loaded from disks.
func Load(p string) (cfg *Config, err error) {
	var d []byte
	d, err = ioutil.ReadFile(p)
	if err != nil {
		return nil, err
	}
	cfg = new(Config)
	if err = yaml.Unmarshal(d, cfg); err != nil {
		return nil, err
	}

	cfg.ConfigPath, err = filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sync persists current configuration and states to disk.
func (cfg *Config) Sync() (err error) {
	if !filepath.IsAbs(cfg.ConfigPath) {
		cfg.ConfigPath, err = filepath.Abs(cfg.ConfigPath)
		if err != nil {
			return err
		}
	}

	cfg.UpdatedAt = time.Now().UTC()
	var d []byte
	d, err = yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(cfg.ConfigPath, d, 0600)
}

// ValidateAndSetDefaults returns an error for invalid configurations.
// And updates empty fields with default values.
// At the end, it writes populated YAML to the config path.
func (cfg *Config) ValidateAndSetDefaults() error {
	if cfg.Partition == "" {
		cfg.Partition = defaultConfig.Partition
	}
	if cfg.Region == "" {
		return errors.New("Region is empty")
	}
	if cfg.RestAPIID == "" {
		return errors.New("RestAPIID is empty")
	}
	if cfg.DeployOnAttach && cfg.StageName == "" {
		return errors.New("StageName is empty with DeployOnAttach")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = logutil.DefaultLogLevel
	}
	if len(cfg.LogOutputs) == 0 {
		cfg.LogOutputs = []string{"stderr"}
	}

	if cfg.ConfigPath == "" {
		f, err := ioutil.TempFile(os.TempDir(), "apigw-org-access")
		if err != nil {
			return err
		}
		cfg.ConfigPath, _ = filepath.Abs(f.Name())
		f.Close()
		os.RemoveAll(cfg.ConfigPath)
	}

	return cfg.Sync()
}

// APIARN returns the execute-api ARN of the configured REST API,
// scoped to all stages and methods.
func (cfg *Config) APIARN() string {
	return fmt.Sprintf("arn:%s:execute-api:%s:%s:%s/*", cfg.Partition, cfg.Region, cfg.AWSAccountID, cfg.RestAPIID)
}

// UpdateFromEnvs updates fields from environmental variables.
func (cfg *Config) UpdateFromEnvs() error {
	cc := *cfg

	tp, vv := reflect.TypeOf(&cc).Elem(), reflect.ValueOf(&cc).Elem()
	for i := 0; i < tp.NumField(); i++ {
		jv := tp.Field(i).Tag.Get("json")
		if jv == "" {
			continue
		}
		jv = strings.Replace(jv, ",omitempty", "", -1)
		jv = strings.ToUpper(strings.Replace(jv, "-", "_", -1))
		env := EnvPrefix + jv
		if os.Getenv(env) == "" {
			continue
		}
		sv := os.Getenv(env)

		switch vv.Field(i).Type().Kind() {
		case reflect.String:
			vv.Field(i).SetString(sv)

		case reflect.Bool:
			bb, err := strconv.ParseBool(sv)
			if err != nil {
				return fmt.Errorf("failed to parse %q (%q, %v)", sv, env, err)
			}
			vv.Field(i).SetBool(bb)

		case reflect.Slice:
			ss := strings.Split(sv, ",")
			slice := reflect.MakeSlice(reflect.TypeOf([]string{}), len(ss), len(ss))
			for j := range ss {
				slice.Index(j).SetString(ss[j])
			}
			vv.Field(i).Set(slice)

		case reflect.Struct:
			// UpdatedAt is read-only

		default:
			return fmt.Errorf("%q (%v) is not supported as an env", env, vv.Field(i).Type())
		}
	}
	*cfg = cc

	return nil
}

// Colorize prints colorized input, if color output is supported.
func (cfg Config) Colorize(input string) string {
	colorize := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !cfg.LogColor,
		Reset:   true,
	}
	return colorize.Color(input)
}
