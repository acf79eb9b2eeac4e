// Package config loads driver configuration following the precedence an AWS tool already understands: environment
// variables override the shared INI config/credentials file chain, resolved through the SDK's own session
// machinery rather than a hand-rolled parser (component H's "connect" step, §4.8).
package config

import (
	"context"
	"os"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objcli/objaws"
	"github.com/KhiopsML/khiopsdriver-s3/objcli/objgcp"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

// Config is the resolved set of options needed to initialize an object-store client and the driver facade.
type Config struct {
	Provider objval.Provider
	Bucket   string
	Region   string
	Endpoint string
	LogLevel string

	// AWSSession is populated when Provider is ProviderAWS.
	AWSSession *session.Session

	// GCPCredentials is populated when Provider is ProviderGCP.
	GCPCredentials *google.Credentials
}

// Load resolves configuration from the environment, choosing S3 or GCS based on which bucket variable is set
// (both set is an error, as is neither). Access/secret keys, when present, must both be set or both unset.
func Load(ctx context.Context) (*Config, error) {
	s3Bucket := os.Getenv("S3_BUCKET_NAME")
	gcsBucket := os.Getenv("GCS_BUCKET_NAME")

	switch {
	case s3Bucket != "" && gcsBucket != "":
		return nil, objerr.New(objerr.KindInvalidArgument,
			"S3_BUCKET_NAME and GCS_BUCKET_NAME are mutually exclusive")
	case s3Bucket != "":
		return loadAWS(s3Bucket)
	case gcsBucket != "":
		return loadGCP(ctx, gcsBucket)
	default:
		return nil, objerr.New(objerr.KindInvalidArgument, "one of S3_BUCKET_NAME or GCS_BUCKET_NAME must be set")
	}
}

func loadAWS(bucket string) (*Config, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if (accessKey == "") != (secretKey == "") {
		return nil, objerr.New(objerr.KindInvalidArgument,
			"AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must both be set or both be unset")
	}

	endpoint := firstNonEmpty(os.Getenv("S3_ENDPOINT"), os.Getenv("AWS_ENDPOINT_URL"))

	awsConfig := aws.NewConfig()

	if endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}

	if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		awsConfig = awsConfig.WithRegion(region)
	}

	if accessKey != "" {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(accessKey, secretKey, ""))
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, objerr.Wrap(objerr.KindInvalidArgument, err, "failed to build AWS session")
	}

	return &Config{
		Provider:   objval.ProviderAWS,
		Bucket:     bucket,
		Region:     aws.StringValue(sess.Config.Region),
		Endpoint:   endpoint,
		LogLevel:   logLevel(),
		AWSSession: sess,
	}, nil
}

func loadGCP(ctx context.Context, bucket string) (*Config, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/devstorage.read_write")
	if err != nil {
		return nil, objerr.Wrap(objerr.KindInvalidArgument, err, "failed to resolve GCP application default credentials")
	}

	return &Config{
		Provider:       objval.ProviderGCP,
		Bucket:         bucket,
		Endpoint:       os.Getenv("S3_ENDPOINT"),
		LogLevel:       logLevel(),
		GCPCredentials: creds,
	}, nil
}

func logLevel() string {
	if level := os.Getenv("S3_DRIVER_LOGLEVEL"); level != "" {
		return level
	}

	return "info"
}

// NewClient builds the 'objcli.Client' for the resolved provider, wrapping a freshly constructed concrete SDK
// client ('s3.New' for AWS, 'storage.NewClient' for GCP) around the session/credentials 'Load' resolved.
func (c *Config) NewClient(ctx context.Context) (objcli.Client, error) {
	switch c.Provider {
	case objval.ProviderAWS:
		return objaws.NewClient(s3.New(c.AWSSession)), nil
	case objval.ProviderGCP:
		client, err := storage.NewClient(ctx, option.WithCredentials(c.GCPCredentials))
		if err != nil {
			return nil, objerr.Wrap(objerr.KindStore, err, "failed to build GCS client")
		}

		return objgcp.NewClient(client), nil
	default:
		return nil, objerr.New(objerr.KindInvalidArgument, "unknown provider")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
