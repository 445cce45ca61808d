package storage

import (
	"bytes"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
)

// Bucket de dados de estudo no blob store
const studyDataBucket = "study-data"

var defaultCacheControl = "3600"

// Client adapta o cliente storage-go ao contrato de blob store dos casos de
// uso. A política de tipo/tamanho é aplicada antes de chegar aqui e é apenas
// consultiva: o serviço remoto não a garante.
type Client struct {
	storage *storage_go.Client
	bucket  string
}

// New cria um Client sobre o bucket padrão
func New(storage *storage_go.Client) *Client {
	return &Client{storage: storage, bucket: studyDataBucket}
}

// Upload sobe o conteúdo no caminho dado, sem sobrescrever
func (c *Client) Upload(path string, data []byte, contentType string) error {
	_, err := c.storage.UploadFile(c.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &defaultCacheControl,
	})
	if err != nil {
		return fmt.Errorf("erro ao subir arquivo: %w", err)
	}
	return nil
}

// Download baixa o conteúdo do caminho dado
func (c *Client) Download(path string) ([]byte, error) {
	data, err := c.storage.DownloadFile(c.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar arquivo: %w", err)
	}
	return data, nil
}

// Remove apaga o objeto do caminho dado
func (c *Client) Remove(path string) error {
	if _, err := c.storage.RemoveFile(c.bucket, []string{path}); err != nil {
		return fmt.Errorf("erro ao remover arquivo: %w", err)
	}
	return nil
}
