package usecases

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// stubStudyRepo guarda estudos em memória, chaveados por identidade
type stubStudyRepo struct {
	studies map[string]entities.Study
	nextID  int
	failing bool
}

func newStubStudyRepo() *stubStudyRepo {
	return &stubStudyRepo{studies: map[string]entities.Study{}}
}

func (r *stubStudyRepo) Create(study *entities.Study) error {
	if r.failing {
		return errors.New("store unavailable")
	}
	r.nextID++
	study.ID = fmt.Sprintf("study-%d", r.nextID)
	r.studies[study.ID] = *study
	return nil
}

func (r *stubStudyRepo) GetByID(id, researcherID string) (*entities.Study, error) {
	study, ok := r.studies[id]
	if !ok || study.ResearcherID != researcherID {
		return nil, gorm.ErrRecordNotFound
	}
	return &study, nil
}

func (r *stubStudyRepo) Upsert(study *entities.Study) error {
	if r.failing {
		return errors.New("store unavailable")
	}
	if study.ID == "" {
		return r.Create(study)
	}
	if _, ok := r.studies[study.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.studies[study.ID] = *study
	return nil
}

// stubSessionStore ignora TTL; expiração é coberta pelos testes do pacote
// session
type stubSessionStore struct {
	items map[string]interface{}
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{items: map[string]interface{}{}}
}

func (s *stubSessionStore) Get(key string) (interface{}, bool) {
	value, ok := s.items[key]
	return value, ok
}

func (s *stubSessionStore) Set(key string, value interface{}, _ time.Duration) {
	s.items[key] = value
}

func (s *stubSessionStore) Delete(key string) {
	delete(s.items, key)
}

type stubScreeningGenerator struct {
	questions []entities.ScreeningQuestion
	err       error
	calls     int
}

func (g *stubScreeningGenerator) GenerateScreeningQuestions(description, category string, requirements []string) ([]entities.ScreeningQuestion, error) {
	g.calls++
	return g.questions, g.err
}

func newWizard(t *testing.T) (*WizardUseCase, *stubStudyRepo, *stubSessionStore, *stubScreeningGenerator) {
	t.Helper()
	repo := newStubStudyRepo()
	sessions := newStubSessionStore()
	generator := &stubScreeningGenerator{}
	uc := NewWizardUseCase(repo, sessions, generator)
	n := 0
	uc.newID = func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
	return uc, repo, sessions, generator
}

func startSession(t *testing.T, uc *WizardUseCase) *WizardSession {
	t.Helper()
	session, err := uc.Start("researcher-1", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return session
}

func fillBasicInfo(session *WizardSession) {
	session.Study.Title = "Coffee Habits"
	session.Study.Description = "How people brew coffee at home"
	session.Study.Category = "Market Research"
	session.Study.Duration = 30
	session.Study.ParticipantsNeeded = 50
	session.Study.Deadline = "2026-10-01"
}

func TestStartCreatesPersistedDraft(t *testing.T) {
	uc, repo, _, _ := newWizard(t)

	session := startSession(t, uc)

	if session.Study.ID == "" {
		t.Fatal("expected draft to be persisted with an identity on first visit")
	}
	if session.CurrentStep != StepTypeSelection {
		t.Errorf("expected step %d, got %d", StepTypeSelection, session.CurrentStep)
	}
	if session.Study.Title != "Untitled Study" {
		t.Errorf("expected placeholder title, got %q", session.Study.Title)
	}
	stored, ok := repo.studies[session.Study.ID]
	if !ok {
		t.Fatal("draft not found in store")
	}
	if stored.Status != entities.StudyStatusDraft {
		t.Errorf("expected status draft, got %q", stored.Status)
	}
}

func TestStartResumesExistingStudy(t *testing.T) {
	uc, repo, sessions, _ := newWizard(t)

	repo.studies["study-9"] = entities.Study{
		ID:           "study-9",
		ResearcherID: "researcher-1",
		Title:        "Sleep Diary",
		Compensation: 25,
		Status:       entities.StudyStatusDraft,
	}

	session, err := uc.Start("researcher-1", "study-9")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.Track != entities.StudyTypePaid {
		t.Errorf("expected paid track derived from compensation, got %q", session.Track)
	}
	if session.CurrentStep != StepBasicInfo {
		t.Errorf("expected resume at step %d, got %d", StepBasicInfo, session.CurrentStep)
	}

	// a segunda visita reusa a sessão em cache, não o banco
	session.Study.Title = "Sleep Diary v2"
	again, err := uc.Get("researcher-1", "study-9")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Study.Title != "Sleep Diary v2" {
		t.Errorf("expected cached session, got title %q", again.Study.Title)
	}
	if _, ok := sessions.Get("wizard:study-9"); !ok {
		t.Error("expected session stored under wizard key")
	}
}

func TestStartRejectsForeignStudy(t *testing.T) {
	uc, repo, _, _ := newWizard(t)

	repo.studies["study-9"] = entities.Study{
		ID:           "study-9",
		ResearcherID: "researcher-2",
	}

	// estudo de outro pesquisador não é retomável; um rascunho novo é criado
	session, err := uc.Start("researcher-1", "study-9")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.Study.ID == "study-9" {
		t.Fatal("expected a fresh draft, not another researcher's study")
	}
}

func TestChooseTypeFreeZeroesPaidFields(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)

	schedule := entities.PaymentImmediate
	session.Study.Compensation = 50
	session.Study.ScreeningQuestions = entities.ScreeningQuestionList{{ID: "q-old", Question: "Old"}}
	session.Study.PaymentSchedule = &schedule

	if err := uc.ChooseType(session, entities.StudyTypeFree); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}

	if session.Study.Compensation != 0 {
		t.Errorf("expected compensation zeroed, got %v", session.Study.Compensation)
	}
	if len(session.Study.ScreeningQuestions) != 0 {
		t.Errorf("expected screening questions emptied, got %d", len(session.Study.ScreeningQuestions))
	}
	if session.Study.PaymentSchedule != nil {
		t.Error("expected payment schedule cleared")
	}
	if session.CurrentStep != StepBasicInfo {
		t.Errorf("expected advance to step %d, got %d", StepBasicInfo, session.CurrentStep)
	}
}

func TestChooseTypeIsSticky(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)

	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	if err := uc.ChooseType(session, entities.StudyTypeFree); !errors.Is(err, ErrTypeAlreadyChosen) {
		t.Fatalf("expected ErrTypeAlreadyChosen, got %v", err)
	}
	// reescolher o mesmo tipo é inofensivo
	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("re-choosing same type: %v", err)
	}
	if err := uc.ChooseType(session, "sponsored"); err == nil {
		t.Fatal("expected error for unknown study type")
	}
}

func TestScreeningSeedIsIdempotent(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)

	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	if len(session.Study.ScreeningQuestions) != 1 {
		t.Fatalf("expected exactly one seeded question, got %d", len(session.Study.ScreeningQuestions))
	}
	seeded := session.Study.ScreeningQuestions[0]
	if seeded.Question != "Untitled question" || seeded.Type != entities.ScreeningText {
		t.Errorf("unexpected seed: %+v", seeded)
	}

	// entrar de novo no passo de triagem não sobrescreve a lista
	edited := "Do you drink coffee daily?"
	if err := uc.UpdateScreeningQuestion(session, seeded.ID, ScreeningQuestionPatch{Question: &edited}); err != nil {
		t.Fatalf("UpdateScreeningQuestion: %v", err)
	}
	fillBasicInfo(session)
	session.Study.Compensation = 20
	session.CurrentStep = StepBasicInfo
	if errs := uc.Next(session); len(errs) > 0 {
		t.Fatalf("Next: %v", errs)
	}
	if session.CurrentStep != StepScreening {
		t.Fatalf("expected step %d, got %d", StepScreening, session.CurrentStep)
	}
	if len(session.Study.ScreeningQuestions) != 1 || session.Study.ScreeningQuestions[0].Question != edited {
		t.Errorf("seed overwrote existing list: %+v", session.Study.ScreeningQuestions)
	}
}

func TestValidateStepBasicInfo(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)
	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	session.Study.Title = "   "

	errs := uc.ValidateStep(session, StepBasicInfo)

	want := map[string]string{
		"title":               "Study title is required",
		"description":         "Study description is required",
		"category":            "Category is required",
		"compensation":        "Valid compensation amount is required",
		"duration":            "Valid duration is required",
		"participants_needed": "Valid number of participants is required",
		"deadline":            "Application deadline is required",
	}
	for field, message := range want {
		if errs[field] != message {
			t.Errorf("field %q: got %q, want %q", field, errs[field], message)
		}
	}

	fillBasicInfo(session)
	session.Study.Compensation = 15.5
	if errs := uc.ValidateStep(session, StepBasicInfo); len(errs) > 0 {
		t.Errorf("expected valid step, got %v", errs)
	}
}

func TestValidateStepCompensationFreeTrack(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)
	if err := uc.ChooseType(session, entities.StudyTypeFree); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	fillBasicInfo(session)

	// compensação zero é válida na trilha gratuita
	if errs := uc.ValidateStep(session, StepBasicInfo); len(errs) > 0 {
		t.Errorf("expected valid step for free track, got %v", errs)
	}
}

func TestNextBlocksOnValidationErrors(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)

	if errs := uc.Next(session); errs["study_type"] == "" {
		t.Fatal("expected study_type error before a track is chosen")
	}

	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	errs := uc.Next(session)
	if len(errs) == 0 {
		t.Fatal("expected validation errors on empty basic info")
	}
	if session.CurrentStep != StepBasicInfo {
		t.Errorf("step advanced despite errors: %d", session.CurrentStep)
	}
	if len(session.Errors) == 0 {
		t.Error("expected errors kept on session for redisplay")
	}
}

func TestPreviousFloorsAtBasicInfo(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)
	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	session.CurrentStep = StepScreening

	uc.Previous(session)
	if session.CurrentStep != StepBasicInfo {
		t.Fatalf("expected step %d, got %d", StepBasicInfo, session.CurrentStep)
	}
	// o passo de escolha de tipo não é revisitável
	uc.Previous(session)
	if session.CurrentStep != StepBasicInfo {
		t.Fatalf("expected floor at step %d, got %d", StepBasicInfo, session.CurrentStep)
	}
}

func TestSaveDraftDefaultsTitleAndAdoptsIdentity(t *testing.T) {
	uc, repo, _, _ := newWizard(t)
	session := startSession(t, uc)
	session.Study.Title = ""
	session.Draft = DraftUnsaved

	if err := uc.SaveDraft(session); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if session.Study.Title != "Untitled Study" {
		t.Errorf("expected placeholder title, got %q", session.Study.Title)
	}
	if session.Draft != DraftSaved {
		t.Errorf("expected draft state saved, got %q", session.Draft)
	}
	if repo.studies[session.Study.ID].Status != entities.StudyStatusDraft {
		t.Error("save must not change status")
	}
}

func TestSaveDraftKeepsMemoryOnFailure(t *testing.T) {
	uc, repo, _, _ := newWizard(t)
	session := startSession(t, uc)
	session.Study.Title = "Interrupted"
	session.Draft = DraftUnsaved

	repo.failing = true
	if err := uc.SaveDraft(session); err == nil {
		t.Fatal("expected error from failing store")
	}
	if session.Study.Title != "Interrupted" {
		t.Errorf("in-memory draft lost on failure: %q", session.Study.Title)
	}
	if session.Draft != DraftUnsaved {
		t.Errorf("draft state must stay unsaved, got %q", session.Draft)
	}
}

func TestPublishFreeStudyEndToEnd(t *testing.T) {
	uc, repo, sessions, _ := newWizard(t)
	session := startSession(t, uc)

	if err := uc.ChooseType(session, entities.StudyTypeFree); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	fillBasicInfo(session)
	if errs := uc.Next(session); len(errs) > 0 {
		t.Fatalf("Next: %v", errs)
	}
	if session.CurrentStep != session.MaxStep() {
		t.Fatalf("expected review step %d, got %d", session.MaxStep(), session.CurrentStep)
	}

	step, errs, err := uc.Publish(session)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors at step %d: %v", step, errs)
	}

	published := repo.studies[session.Study.ID]
	if published.Status != entities.StudyStatusActive {
		t.Errorf("expected active status, got %q", published.Status)
	}
	if published.Compensation != 0 {
		t.Errorf("expected zero compensation, got %v", published.Compensation)
	}
	if len(published.ScreeningQuestions) != 0 {
		t.Errorf("expected no screening questions, got %d", len(published.ScreeningQuestions))
	}
	if published.PaymentSchedule != nil {
		t.Error("expected nil payment schedule")
	}
	if _, ok := sessions.Get("wizard:" + session.Study.ID); ok {
		t.Error("expected session deleted after publish")
	}
}

func TestPublishPaidRequiresCompensation(t *testing.T) {
	uc, repo, _, _ := newWizard(t)
	session := startSession(t, uc)

	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	fillBasicInfo(session)

	step, errs, err := uc.Publish(session)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if step != StepBasicInfo {
		t.Errorf("expected failure at step %d, got %d", StepBasicInfo, step)
	}
	if errs["compensation"] != "Valid compensation amount is required" {
		t.Errorf("expected compensation error, got %v", errs)
	}
	if repo.studies[session.Study.ID].Status != entities.StudyStatusDraft {
		t.Error("failed publish must leave the study as draft")
	}
}

func TestScreeningQuestionOperations(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)
	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}

	added := uc.AddScreeningQuestion(session)
	if len(session.Study.ScreeningQuestions) != 2 {
		t.Fatalf("expected seed + added, got %d", len(session.Study.ScreeningQuestions))
	}

	question := "Which devices do you own?"
	qType := entities.ScreeningCheckbox
	options := []string{"Phone", "Laptop", "Tablet"}
	err := uc.UpdateScreeningQuestion(session, added.ID, ScreeningQuestionPatch{
		Question: &question,
		Type:     &qType,
		Options:  &options,
	})
	if err != nil {
		t.Fatalf("UpdateScreeningQuestion: %v", err)
	}
	updated := session.Study.ScreeningQuestions[1]
	if updated.Question != question || updated.Type != qType || len(updated.Options) != 3 {
		t.Errorf("patch not applied: %+v", updated)
	}

	duplicate, err := uc.DuplicateScreeningQuestion(session, added.ID)
	if err != nil {
		t.Fatalf("DuplicateScreeningQuestion: %v", err)
	}
	if duplicate.ID == added.ID {
		t.Error("duplicate must get a fresh identity")
	}
	if duplicate.Question != question+" (Copy)" {
		t.Errorf("expected suffixed text, got %q", duplicate.Question)
	}
	duplicate.Options[0] = "Desktop"
	if session.Study.ScreeningQuestions[1].Options[0] != "Phone" {
		t.Error("duplicate shares options slice with original")
	}

	if err := uc.DeleteScreeningQuestion(session, added.ID); err != nil {
		t.Fatalf("DeleteScreeningQuestion: %v", err)
	}
	for _, q := range session.Study.ScreeningQuestions {
		if q.ID == added.ID {
			t.Error("deleted question still present")
		}
	}
	if err := uc.DeleteScreeningQuestion(session, "missing"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestRequirements(t *testing.T) {
	uc, _, _, _ := newWizard(t)
	session := startSession(t, uc)

	uc.AddRequirement(session, "  Age 18+  ")
	uc.AddRequirement(session, "")
	uc.AddRequirement(session, "Fluent in English")

	if len(session.Study.Requirements) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(session.Study.Requirements))
	}
	if session.Study.Requirements[0] != "Age 18+" {
		t.Errorf("expected trimmed text, got %q", session.Study.Requirements[0])
	}

	if err := uc.RemoveRequirement(session, 5); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
	if err := uc.RemoveRequirement(session, 0); err != nil {
		t.Fatalf("RemoveRequirement: %v", err)
	}
	if len(session.Study.Requirements) != 1 || session.Study.Requirements[0] != "Fluent in English" {
		t.Errorf("unexpected requirements after removal: %v", session.Study.Requirements)
	}
}

func TestGenerateScreeningQuestionsReplacesList(t *testing.T) {
	uc, _, _, generator := newWizard(t)
	session := startSession(t, uc)
	if err := uc.ChooseType(session, entities.StudyTypePaid); err != nil {
		t.Fatalf("ChooseType: %v", err)
	}
	before := session.Study.ScreeningQuestions

	generator.err = errors.New("AI generation failed: function error")
	if _, err := uc.GenerateScreeningQuestions(session); err == nil {
		t.Fatal("expected generator error to propagate")
	}
	if len(session.Study.ScreeningQuestions) != len(before) {
		t.Error("failed generation must not touch the list")
	}

	generator.err = nil
	generator.questions = nil
	if _, err := uc.GenerateScreeningQuestions(session); err == nil {
		t.Fatal("expected error on empty generation result")
	}

	generator.questions = []entities.ScreeningQuestion{
		{Question: "Do you drink coffee?", Type: entities.ScreeningYesNo},
		{ID: "ai-2", Question: "How many cups per day?", Type: entities.ScreeningNumber},
	}
	generated, err := uc.GenerateScreeningQuestions(session)
	if err != nil {
		t.Fatalf("GenerateScreeningQuestions: %v", err)
	}
	if len(session.Study.ScreeningQuestions) != 2 {
		t.Fatalf("expected wholesale replacement, got %d questions", len(session.Study.ScreeningQuestions))
	}
	if generated[0].ID == "" {
		t.Error("expected missing identities filled in")
	}
	if generated[1].ID != "ai-2" {
		t.Errorf("expected provided identity kept, got %q", generated[1].ID)
	}
}

func TestMaxStepPerTrack(t *testing.T) {
	paid := &WizardSession{Track: entities.StudyTypePaid}
	free := &WizardSession{Track: entities.StudyTypeFree}
	if paid.MaxStep() != 4 {
		t.Errorf("paid track: got %d, want 4", paid.MaxStep())
	}
	if free.MaxStep() != 2 {
		t.Errorf("free track: got %d, want 2", free.MaxStep())
	}
	if len(paid.Steps()) != 4 || len(free.Steps()) != 2 {
		t.Errorf("steps: paid %d, free %d", len(paid.Steps()), len(free.Steps()))
	}
}
