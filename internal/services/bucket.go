package services

import (
  "context"
  "fmt"
  "io"
  "os"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
)

type BucketService interface {
  UploadFile(ctx context.Context, key string, r io.Reader) error
  GetPublicURL(key string) string
}

type bucketService struct {
  log        *logger.Logger
  client     *storage.Client
  bucketName string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")

  bucketName := os.Getenv("GCS_BUCKET_NAME")
  if bucketName == "" {
    return nil, fmt.Errorf("Missing GCS_BUCKET_NAME environment variable")
  }

  var opts []option.ClientOption
  if credsFile := os.Getenv("GCS_CREDENTIALS_FILE"); credsFile != "" {
    opts = append(opts, option.WithCredentialsFile(credsFile))
  }
  client, err := storage.NewClient(context.Background(), opts...)
  if err != nil {
    return nil, fmt.Errorf("failed to create GCS client: %w", err)
  }

  return &bucketService{
    log:        serviceLog,
    client:     client,
    bucketName: bucketName,
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, r io.Reader) error {
  wc := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  wc.ContentType = "image/png"
  if _, err := io.Copy(wc, r); err != nil {
    wc.Close()
    bs.log.Warn("Failed to write object to bucket", "error", err, "key", key)
    return fmt.Errorf("failed to write object '%s': %w", key, err)
  }
  if err := wc.Close(); err != nil {
    bs.log.Warn("Failed to finalize object upload", "error", err, "key", key)
    return fmt.Errorf("failed to finalize object '%s': %w", key, err)
  }
  bs.log.Info("Uploaded object to bucket", "key", key)
  return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
