package usecases

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/utils"
)

var ErrNoResponses = errors.New("no responses found for this study")

// Colunas fixas que precedem as chaves dinâmicas de response_data
var exportBaseHeaders = []string{
	"Response ID",
	"Participant Name",
	"Participant Email",
	"Submitted At",
}

// ExportUseCase monta o CSV de respostas de um estudo
type ExportUseCase struct {
	responses ResponseStore
	now       func() time.Time
}

// NewExportUseCase cria uma nova instância de ExportUseCase
func NewExportUseCase(responses ResponseStore) *ExportUseCase {
	return &ExportUseCase{
		responses: responses,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ExportCSV exporta as respostas em ordem cronológica. O cabeçalho é a união
// das colunas fixas com toda chave de response_data vista em qualquer
// resposta, na ordem de primeira aparição.
func (uc *ExportUseCase) ExportCSV(studyID, studyTitle string) ([]byte, string, error) {
	responses, err := uc.responses.ListByStudy(studyID)
	if err != nil {
		return nil, "", err
	}
	if len(responses) == 0 {
		return nil, "", ErrNoResponses
	}

	headers := append([]string{}, exportBaseHeaders...)
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[h] = true
	}
	for _, response := range responses {
		keys := make([]string, 0, len(response.ResponseData))
		for key := range response.ResponseData {
			keys = append(keys, key)
		}
		// ordena por resposta para que o cabeçalho seja determinístico
		sort.Strings(keys)
		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, "", fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for _, response := range responses {
		row := make([]string, 0, len(headers))
		for _, header := range headers {
			row = append(row, exportCell(response, header))
		}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("erro ao escrever linha: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("erro ao finalizar CSV: %w", err)
	}

	filename := fmt.Sprintf("%s_responses_%s.csv",
		utils.SanitizeFileTitle(studyTitle), utils.DateStamp(uc.now()))
	return buf.Bytes(), filename, nil
}

func exportCell(response entities.FormResponse, header string) string {
	switch header {
	case "Response ID":
		return response.ID
	case "Participant Name":
		if response.ParticipantName != nil {
			return *response.ParticipantName
		}
		return ""
	case "Participant Email":
		return response.ParticipantEmail
	case "Submitted At":
		return utils.FormatSubmittedAt(response.SubmittedAt)
	default:
		if value, ok := response.ResponseData[header]; ok && value != nil {
			return fmt.Sprint(value)
		}
		return ""
	}
}
