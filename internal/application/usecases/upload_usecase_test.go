package usecases

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

type stubUploadStore struct {
	uploads map[string]entities.StudyDataUpload
	nextID  int
}

func newStubUploadStore() *stubUploadStore {
	return &stubUploadStore{uploads: map[string]entities.StudyDataUpload{}}
}

func (s *stubUploadStore) Create(upload *entities.StudyDataUpload) error {
	s.nextID++
	upload.ID = fmt.Sprintf("upload-%d", s.nextID)
	s.uploads[upload.ID] = *upload
	return nil
}

func (s *stubUploadStore) GetByID(id, researcherID string) (*entities.StudyDataUpload, error) {
	upload, ok := s.uploads[id]
	if !ok || upload.ResearcherID != researcherID {
		return nil, gorm.ErrRecordNotFound
	}
	return &upload, nil
}

func (s *stubUploadStore) ListByStudy(studyID string) ([]entities.StudyDataUpload, error) {
	var result []entities.StudyDataUpload
	for _, upload := range s.uploads {
		if upload.StudyID == studyID {
			result = append(result, upload)
		}
	}
	return result, nil
}

func (s *stubUploadStore) Delete(id, researcherID string) error {
	if _, err := s.GetByID(id, researcherID); err != nil {
		return err
	}
	delete(s.uploads, id)
	return nil
}

type stubBlobStore struct {
	blobs   map[string][]byte
	removed []string
	failing bool
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{blobs: map[string][]byte{}}
}

func (s *stubBlobStore) Upload(path string, data []byte, contentType string) error {
	if s.failing {
		return errors.New("storage unavailable")
	}
	s.blobs[path] = data
	return nil
}

func (s *stubBlobStore) Download(path string) ([]byte, error) {
	data, ok := s.blobs[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *stubBlobStore) Remove(path string) error {
	if s.failing {
		return errors.New("storage unavailable")
	}
	delete(s.blobs, path)
	s.removed = append(s.removed, path)
	return nil
}

func newUploadUseCase() (*UploadUseCase, *stubUploadStore, *stubBlobStore) {
	store := newStubUploadStore()
	blobs := newStubBlobStore()
	uc := NewUploadUseCase(store, blobs)
	uc.now = func() time.Time {
		return time.UnixMilli(1756382400000).UTC()
	}
	return uc, store, blobs
}

func TestUploadRejectsNonCSV(t *testing.T) {
	uc, _, blobs := newUploadUseCase()

	for _, name := range []string{"data.xlsx", "data.txt", "data", "data.csv.zip"} {
		if _, err := uc.Upload("study-1", "researcher-1", name, []byte("a,b\n1,2\n"), nil); !errors.Is(err, ErrNotCSV) {
			t.Errorf("%q: expected ErrNotCSV, got %v", name, err)
		}
	}
	if len(blobs.blobs) != 0 {
		t.Error("rejected files must not reach the blob store")
	}

	// a extensão é comparada sem diferenciar maiúsculas
	if _, err := uc.Upload("study-1", "researcher-1", "DATA.CSV", []byte("a,b\n1,2\n"), nil); err != nil {
		t.Errorf("uppercase extension rejected: %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	uc, _, _ := newUploadUseCase()

	content := bytes.Repeat([]byte("x"), MaxUploadSize+1)
	if _, err := uc.Upload("study-1", "researcher-1", "big.csv", content, nil); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	uc, store, blobs := newUploadUseCase()
	content := []byte("name,age\nAlice,31\nBob,44\n\n")
	description := "wave 1"

	upload, err := uc.Upload("study-1", "researcher-1", "wave1.csv", content, &description)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	wantPath := "study-1/1756382400000-wave1.csv"
	if upload.FilePath != wantPath {
		t.Errorf("got path %q, want %q", upload.FilePath, wantPath)
	}
	if _, ok := blobs.blobs[wantPath]; !ok {
		t.Error("blob not stored under the expected path")
	}
	if upload.FileSize != int64(len(content)) {
		t.Errorf("got size %d, want %d", upload.FileSize, len(content))
	}
	// linhas em branco não contam; o cabeçalho é descontado
	if upload.RowCount != 2 {
		t.Errorf("got row count %d, want 2", upload.RowCount)
	}
	if stored := store.uploads[upload.ID]; stored.Description == nil || *stored.Description != "wave 1" {
		t.Error("description not persisted")
	}
}

func TestUploadBlobFailureSkipsMetadata(t *testing.T) {
	uc, store, blobs := newUploadUseCase()
	blobs.failing = true

	if _, err := uc.Upload("study-1", "researcher-1", "wave1.csv", []byte("a\n1\n"), nil); err == nil {
		t.Fatal("expected blob store error")
	}
	if len(store.uploads) != 0 {
		t.Error("metadata row written despite failed upload")
	}
}

func TestDownloadReturnsContentAndMetadata(t *testing.T) {
	uc, _, _ := newUploadUseCase()
	content := []byte("a,b\n1,2\n")
	upload, err := uc.Upload("study-1", "researcher-1", "wave1.csv", content, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	meta, got, err := uc.Download(upload.ID, "researcher-1")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if meta.FileName != "wave1.csv" || !bytes.Equal(got, content) {
		t.Errorf("unexpected download: %+v, %q", meta, got)
	}

	if _, _, err := uc.Download(upload.ID, "researcher-2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected owner scoping, got %v", err)
	}
}

func TestDeleteRemovesBlobBeforeMetadata(t *testing.T) {
	uc, store, blobs := newUploadUseCase()
	upload, err := uc.Upload("study-1", "researcher-1", "wave1.csv", []byte("a\n1\n"), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := uc.Delete(upload.ID, "researcher-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.removed) != 1 || !strings.HasPrefix(blobs.removed[0], "study-1/") {
		t.Errorf("blob not removed: %v", blobs.removed)
	}
	if _, ok := store.uploads[upload.ID]; ok {
		t.Error("metadata row not deleted")
	}
}

func TestDeleteKeepsMetadataOnBlobFailure(t *testing.T) {
	uc, store, blobs := newUploadUseCase()
	upload, err := uc.Upload("study-1", "researcher-1", "wave1.csv", []byte("a\n1\n"), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	blobs.failing = true
	if err := uc.Delete(upload.ID, "researcher-1"); err == nil {
		t.Fatal("expected blob removal error")
	}
	if _, ok := store.uploads[upload.ID]; !ok {
		t.Error("metadata must survive a failed blob removal")
	}
}
