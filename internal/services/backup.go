package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"imob-followup/config"
	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

// S3Backup uploads a JSON snapshot of the contact list after every save.
type S3Backup struct {
	s3Client *s3.S3
	config   config.BackupConfig
	now      func() time.Time
}

func NewS3Backup(cfg config.BackupConfig) (*S3Backup, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket de backup não configurado")
	}

	awsConfig := &aws.Config{
		Region:     aws.String(cfg.Region),
		MaxRetries: aws.Int(0),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar sessão do S3: %v", err)
	}

	return &S3Backup{
		s3Client: s3.New(sess),
		config:   cfg,
		now:      time.Now,
	}, nil
}

func (b *S3Backup) key(at time.Time) string {
	prefix := b.config.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + at.UTC().Format("20060102T150405.000Z") + ".json"
}

func (b *S3Backup) Archive(ctx context.Context, contacts []models.Contact) error {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("erro ao serializar contatos: %v", err)
	}

	key := b.key(b.now())
	_, err = b.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("erro ao fazer upload para S3: %v", err)
	}

	utils.LogDebug("Backup de %d contatos enviado: s3://%s/%s", len(contacts), b.config.Bucket, key)
	return nil
}
