// Package awscurl sends SigV4-signed HTTP requests, so operators can
// exercise an IAM-authorized endpoint the way the gateway expects.
package awscurl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	aws_v2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Config defines one signed request.
type Config struct {
	// URI is the full request URI.
	URI string
	// Method is the HTTP method (default GET).
	Method string
	// Region is the signing region.
	Region string
	// Service is the signing name (e.g. "execute-api").
	Service string

	// Credentials overrides the default credential chain.
	// Specify static credentials for tests.
	Credentials aws_v2.CredentialsProvider
}

type client struct {
	cfg         Config
	http1Client *http.Client

	payload []byte
}

// New creates a new signed-request client.
func New(cfg Config) *client {
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	return &client{
		cfg: cfg,
		http1Client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// Do signs and sends the request, returning the response body.
func (c *client) Do() (res string, err error) {
	var req *http.Request
	var resp *http.Response
	var respData []byte

	req, err = c.signRequest()
	if err != nil {
		return "", err
	}
	resp, err = c.http1Client.Do(req)
	if err != nil {
		return "", err
	}
	if resp.Body == nil {
		return "", fmt.Errorf("fail get nil resp Body")
	}
	defer resp.Body.Close()

	respData, err = io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 500 {
		return string(respData), fmt.Errorf("unexpected status %q", resp.Status)
	}

	return string(respData), nil
}

func (c *client) signRequest() (*http.Request, error) {
	req, err := c.makeRequest(c.cfg.Method)
	if err != nil {
		return nil, err
	}
	bodySHA256 := sha256Hash(c.payload)

	creds, err := c.retrieveCredentials()
	if err != nil {
		return nil, err
	}

	signer := v4.NewSigner()
	err = signer.SignHTTP(req.Context(), creds, req, bodySHA256, c.cfg.Service, c.cfg.Region, time.Now())
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (c *client) retrieveCredentials() (aws_v2.Credentials, error) {
	provider := c.cfg.Credentials
	if provider == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(c.cfg.Region))
		if err != nil {
			return aws_v2.Credentials{}, fmt.Errorf("unable to load SDK config, %v", err)
		}
		provider = cfg.Credentials
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	creds, err := provider.Retrieve(ctx)
	cancel()
	if err != nil {
		return aws_v2.Credentials{}, err
	}
	return creds, nil
}

func (c *client) makeRequest(method string) (req *http.Request, err error) {
	body := bytes.NewReader(c.payload)
	req, err = http.NewRequest(method, c.cfg.URI, body)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func sha256Hash(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
