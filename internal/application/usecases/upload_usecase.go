package usecases

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
)

// Política de upload aplicada do lado do cliente do blob store; o servidor
// remoto não garante reforçá-la
const MaxUploadSize = 10 * 1024 * 1024

var (
	ErrNotCSV       = errors.New("only CSV files are allowed")
	ErrFileTooLarge = errors.New("file size must be less than 10MB")
)

// UploadStore é o contrato de persistência dos metadados de upload
type UploadStore interface {
	Create(upload *entities.StudyDataUpload) error
	GetByID(id, researcherID string) (*entities.StudyDataUpload, error)
	ListByStudy(studyID string) ([]entities.StudyDataUpload, error)
	Delete(id, researcherID string) error
}

// BlobStore é a fronteira com o serviço de armazenamento de objetos
type BlobStore interface {
	Upload(path string, data []byte, contentType string) error
	Download(path string) ([]byte, error)
	Remove(path string) error
}

// UploadUseCase sobe arquivos de dados de estudo e mantém seus metadados
type UploadUseCase struct {
	uploads UploadStore
	blobs   BlobStore
	now     func() time.Time
}

// NewUploadUseCase cria uma nova instância de UploadUseCase
func NewUploadUseCase(uploads UploadStore, blobs BlobStore) *UploadUseCase {
	return &UploadUseCase{
		uploads: uploads,
		blobs:   blobs,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upload valida a política (CSV, até 10MB), sobe o arquivo num caminho
// unicizado por timestamp e grava a linha de metadados com a contagem de
// linhas de dados
func (uc *UploadUseCase) Upload(studyID, researcherID, fileName string, content []byte, description *string) (*entities.StudyDataUpload, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, ErrNotCSV
	}
	if int64(len(content)) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	path := fmt.Sprintf("%s/%d-%s", studyID, uc.now().UnixMilli(), fileName)
	if err := uc.blobs.Upload(path, content, "text/csv"); err != nil {
		return nil, err
	}

	upload := &entities.StudyDataUpload{
		StudyID:      studyID,
		ResearcherID: researcherID,
		FileName:     fileName,
		FilePath:     path,
		FileSize:     int64(len(content)),
		RowCount:     countDataRows(content),
		Description:  description,
	}
	if err := uc.uploads.Create(upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// ListByStudy retorna os uploads de um estudo
func (uc *UploadUseCase) ListByStudy(studyID string) ([]entities.StudyDataUpload, error) {
	return uc.uploads.ListByStudy(studyID)
}

// Download devolve o conteúdo do arquivo e seus metadados
func (uc *UploadUseCase) Download(id, researcherID string) (*entities.StudyDataUpload, []byte, error) {
	upload, err := uc.uploads.GetByID(id, researcherID)
	if err != nil {
		return nil, nil, err
	}
	content, err := uc.blobs.Download(upload.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return upload, content, nil
}

// Delete remove o arquivo do blob store e depois a linha de metadados
func (uc *UploadUseCase) Delete(id, researcherID string) error {
	upload, err := uc.uploads.GetByID(id, researcherID)
	if err != nil {
		return err
	}
	if err := uc.blobs.Remove(upload.FilePath); err != nil {
		return err
	}
	return uc.uploads.Delete(id, researcherID)
}

// countDataRows conta linhas não vazias descontando o cabeçalho
func countDataRows(content []byte) int {
	rows := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			rows++
		}
	}
	if rows > 0 {
		rows--
	}
	return rows
}
