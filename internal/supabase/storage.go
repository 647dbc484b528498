package supabase

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadRowImage stores one generated image under the batch/row namespace and
// returns the storage path and public URL.
func (s *StorageClient) UploadRowImage(batchID uuid.UUID, rowNumber int, filename string, data []byte, contentType string) (string, string, error) {
	storagePath := fmt.Sprintf("batches/%s/rows/%d/%s", batchID.String(), rowNumber, filename)
	return s.upload(storagePath, data, contentType)
}

// UploadLibraryImage stores a manually or editor generated image under the
// owning user's namespace.
func (s *StorageClient) UploadLibraryImage(userID, imageID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	storagePath := fmt.Sprintf("users/%s/images/%s/%s", userID.String(), imageID.String(), filename)
	return s.upload(storagePath, data, contentType)
}

// UploadBatchSource archives the submitted CSV alongside the batch.
func (s *StorageClient) UploadBatchSource(batchID uuid.UUID, data []byte) (string, string, error) {
	storagePath := fmt.Sprintf("batches/%s/source.csv", batchID.String())
	return s.upload(storagePath, data, "text/csv")
}

func (s *StorageClient) upload(storagePath string, data []byte, contentType string) (string, string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DownloadFile(storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return data, nil
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteBatchFiles removes everything stored under a batch prefix.
func (s *StorageClient) DeleteBatchFiles(batchID uuid.UUID) error {
	prefix := fmt.Sprintf("batches/%s/", batchID.String())

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		_, err = s.client.RemoveFile(s.bucket, filePaths)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}
