package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

type S3Service struct {
	client     *s3.S3
	bucketName string
	region     string
}

func NewS3Service(region, bucketName, accessKey, secretKey string) *S3Service {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(region),
		Credentials: credentials.NewStaticCredentials(
			accessKey,
			secretKey,
			"",
		),
	}))

	return &S3Service{
		client:     s3.New(sess),
		bucketName: bucketName,
		region:     region,
	}
}

type UploadResult struct {
	Key         string
	URL         string
	FileName    string
	ContentType string
	Size        int64
}

// UploadImage validates and stores one image under a dated uuid key.
func (s *S3Service) UploadImage(file multipart.File, header *multipart.FileHeader, prefix string) (*UploadResult, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}

	if !isValidImageType(contentType) {
		return nil, fmt.Errorf("invalid file type: %s", contentType)
	}

	const maxSize = 10 * 1024 * 1024 // 10MB
	if header.Size > maxSize {
		return nil, fmt.Errorf("file size too large: %d bytes (max: %d bytes)", header.Size, maxSize)
	}

	fileExt := filepath.Ext(header.Filename)
	datePath := time.Now().Format("2006/01/02")
	key := fmt.Sprintf("%s/%s/%s%s", prefix, datePath, uuid.New().String(), fileExt)

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buffer.Bytes()),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)

	return &UploadResult{
		Key:         key,
		URL:         url,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

func (s *S3Service) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Service) DeleteMultipleImages(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	var objects []*s3.ObjectIdentifier
	for _, key := range keys {
		if key != "" {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}
	}

	if len(objects) == 0 {
		return nil
	}

	_, err := s.client.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	for _, validType := range validTypes {
		if strings.EqualFold(contentType, validType) {
			return true
		}
	}
	return false
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
