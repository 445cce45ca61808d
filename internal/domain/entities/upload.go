package entities

import "time"

// StudyDataUpload guarda metadados de arquivos CSV enviados ao blob store
type StudyDataUpload struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	StudyID      string    `json:"study_id" gorm:"column:study_id;type:uuid;index"`
	ResearcherID string    `json:"researcher_id" gorm:"column:researcher_id;type:uuid"`
	FileName     string    `json:"file_name" gorm:"column:file_name"`
	FilePath     string    `json:"file_path" gorm:"column:file_path"`
	FileSize     int64     `json:"file_size" gorm:"column:file_size"`
	RowCount     int       `json:"row_count" gorm:"column:row_count"`
	Description  *string   `json:"description" gorm:"column:description"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (StudyDataUpload) TableName() string {
	return "study_data_uploads"
}
