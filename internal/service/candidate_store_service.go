package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/repository/contract"
	"talentscout-be/internal/repository/unitofwork"
	"talentscout-be/pkg/audit"
	"talentscout-be/pkg/security"

	"github.com/google/uuid"
)

const DefaultRetention = 365 * 24 * time.Hour

type ICandidateStoreService interface {
	Upsert(ctx context.Context, candidateId string, candidate *entity.Candidate) error
	Get(ctx context.Context, candidateId string) (*entity.Candidate, error)
	Delete(ctx context.Context, candidateId string) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	Export(ctx context.Context, candidateId string, format string) (string, error)

	ListCandidates(ctx context.Context, page, limit int) (*dto.ListCandidatesResponse, error)
	ListCandidateIds(ctx context.Context) ([]string, error)
	AuditTrail(ctx context.Context, candidateId string, page, limit int) ([]*dto.AuditEventResponse, error)

	StoreConversationMessage(ctx context.Context, message *entity.ConversationMessage) error
	ConversationHistory(ctx context.Context, candidateId string, limit int) ([]*entity.ConversationMessage, error)
	SearchConversation(ctx context.Context, candidateId string, embedding []float32, k int) ([]*entity.ConversationMatch, error)
	AttachEvaluations(ctx context.Context, candidateId string, evaluations []string) error
}

type CandidateStoreService struct {
	uowFactory unitofwork.RepositoryFactory
	cipher     *security.CipherBox
	auditLog   *audit.Log
	logger     logger.ILogger
	retention  time.Duration
	now        func() time.Time
}

func NewCandidateStoreService(
	uowFactory unitofwork.RepositoryFactory,
	cipher *security.CipherBox,
	auditLog *audit.Log,
	log logger.ILogger,
	retention time.Duration,
) *CandidateStoreService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &CandidateStoreService{
		uowFactory: uowFactory,
		cipher:     cipher,
		auditLog:   auditLog,
		logger:     log,
		retention:  retention,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the wall clock used for created_at and retention.
func (s *CandidateStoreService) WithClock(now func() time.Time) *CandidateStoreService {
	s.now = now
	return s
}

// Upsert creates the record on first sight and updates it afterwards. The
// lifecycle fields (created_at, retention_until, consent) are only ever set
// on creation.
func (s *CandidateStoreService) Upsert(ctx context.Context, candidateId string, candidate *entity.Candidate) error {
	if candidate == nil {
		return fmt.Errorf("upsert candidate %s: nil record", candidateId)
	}
	row, err := s.seal(candidate)
	if err != nil {
		return &PersistenceError{Op: "seal", CandidateId: candidateId, Err: err}
	}
	row.CandidateId = candidateId

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return &PersistenceError{Op: "upsert", CandidateId: candidateId, Err: err}
	}
	defer uow.Rollback()

	repo := uow.CandidateRepository()
	existing, err := repo.FindForUpdate(ctx, candidateId)
	if err != nil {
		return &PersistenceError{Op: "upsert", CandidateId: candidateId, Err: err}
	}

	created := false
	if existing == nil {
		if created, err = s.createRow(ctx, repo, row); err != nil {
			return err
		}
	}
	if !created {
		// Either the row existed or a concurrent writer created it first.
		updated, err := repo.Update(ctx, row)
		if err != nil {
			return &PersistenceError{Op: "update", CandidateId: candidateId, Err: err}
		}
		if !updated {
			// Erased between the lookup and the write.
			if created, err = s.createRow(ctx, repo, row); err != nil {
				return err
			}
			if !created {
				return &PersistenceError{Op: "update", CandidateId: candidateId, Err: errConcurrentWrite}
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return &PersistenceError{Op: "commit", CandidateId: candidateId, Err: err}
	}

	if created {
		s.auditLog.Record(ctx, audit.DataCreated, candidateId, "Candidate profile created")
	} else {
		s.auditLog.Record(ctx, audit.DataUpdated, candidateId, "Candidate profile updated")
	}
	return nil
}

// createRow stamps the lifecycle columns of a new row and inserts it.
func (s *CandidateStoreService) createRow(ctx context.Context, repo contract.CandidateRepository, row *entity.Candidate) (bool, error) {
	if !row.ConsentGiven {
		return false, ErrConsentRequired
	}
	now := s.now()
	row.CreatedAt = now
	row.RetentionUntil = now.Add(s.retention)
	if row.ConsentTimestamp == nil {
		row.ConsentTimestamp = &now
	}
	created, err := repo.CreateIfAbsent(ctx, row)
	if err != nil {
		return false, &PersistenceError{Op: "create", CandidateId: row.CandidateId, Err: err}
	}
	return created, nil
}

// Get returns nil, nil when there is no record. A record that cannot be
// opened returns *security.DecryptionError.
func (s *CandidateStoreService) Get(ctx context.Context, candidateId string) (*entity.Candidate, error) {
	c, err := s.read(ctx, candidateId)
	if err != nil || c == nil {
		return nil, err
	}
	s.auditLog.Record(ctx, audit.DataAccessed, candidateId, "Data retrieved")
	return c, nil
}

func (s *CandidateStoreService) read(ctx context.Context, candidateId string) (*entity.Candidate, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.CandidateRepository().FindByCandidateId(ctx, candidateId)
	if err != nil {
		return nil, &PersistenceError{Op: "get", CandidateId: candidateId, Err: err}
	}
	if row == nil {
		return nil, nil
	}
	return s.open(row)
}

// Delete erases the record and its transcript together.
func (s *CandidateStoreService) Delete(ctx context.Context, candidateId string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, &PersistenceError{Op: "delete", CandidateId: candidateId, Err: err}
	}
	defer uow.Rollback()

	if err := uow.ConversationMessageRepository().DeleteByCandidateId(ctx, candidateId); err != nil {
		return false, &PersistenceError{Op: "delete", CandidateId: candidateId, Err: err}
	}
	removed, err := uow.CandidateRepository().DeleteByCandidateId(ctx, candidateId)
	if err != nil {
		return false, &PersistenceError{Op: "delete", CandidateId: candidateId, Err: err}
	}
	if err := uow.Commit(); err != nil {
		return false, &PersistenceError{Op: "commit", CandidateId: candidateId, Err: err}
	}

	if removed {
		s.auditLog.Record(ctx, audit.DataDeleted, candidateId, "Data permanently deleted")
		s.logger.Info("CANDIDATE_STORE", "Candidate erased", map[string]interface{}{
			"candidate_id": candidateId,
		})
	}
	return removed, nil
}

// SweepExpired removes every record whose retention_until is before now.
// Running it again with the same now removes nothing.
func (s *CandidateStoreService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, &PersistenceError{Op: "sweep", CandidateId: audit.SystemActor, Err: err}
	}
	defer uow.Rollback()

	ids, err := uow.CandidateRepository().DeleteRetentionExpired(ctx, now)
	if err != nil {
		return 0, &PersistenceError{Op: "sweep", CandidateId: audit.SystemActor, Err: err}
	}
	if len(ids) > 0 {
		if err := uow.ConversationMessageRepository().DeleteByCandidateIds(ctx, ids); err != nil {
			return 0, &PersistenceError{Op: "sweep", CandidateId: audit.SystemActor, Err: err}
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, &PersistenceError{Op: "commit", CandidateId: audit.SystemActor, Err: err}
	}

	count := len(ids)
	if count > 0 {
		s.auditLog.Record(ctx, audit.BatchDeletion, audit.SystemActor,
			fmt.Sprintf("Deleted %d expired records", count))
	}
	s.logger.Info("CANDIDATE_STORE", "Retention sweep finished", map[string]interface{}{
		"deleted": count,
		"cutoff":  now.Format(time.RFC3339),
	})
	return count, nil
}

// Export renders the decrypted record as indented JSON or as a CSV header
// plus one row.
func (s *CandidateStoreService) Export(ctx context.Context, candidateId string, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
	}

	c, err := s.Get(ctx, candidateId)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", ErrCandidateNotFound
	}

	doc := ToRecordDocument(c)
	var out string
	switch format {
	case "json":
		out, err = exportJSON(doc)
	case "csv":
		out, err = exportCSV(doc)
	}
	if err != nil {
		return "", fmt.Errorf("export candidate %s: %w", candidateId, err)
	}

	s.auditLog.Record(ctx, audit.DataExported, candidateId,
		fmt.Sprintf("Exported in %s format", strings.ToUpper(format)))
	return out, nil
}

func exportJSON(doc *dto.CandidateRecordDocument) (string, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var csvHeader = []string{
	"candidate_id", "full_name", "email", "phone", "years_experience",
	"desired_position", "current_location", "tech_stack", "technical_questions",
	"answers", "created_at", "retention_until", "consent_given", "consent_timestamp",
}

func exportCSV(doc *dto.CandidateRecordDocument) (string, error) {
	nested := func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	stack, err := nested(doc.TechStack)
	if err != nil {
		return "", err
	}
	questions, err := nested(doc.TechnicalQuestions)
	if err != nil {
		return "", err
	}
	answers, err := nested(doc.Answers)
	if err != nil {
		return "", err
	}
	consentAt := ""
	if doc.ConsentTimestamp != nil {
		consentAt = doc.ConsentTimestamp.Format(time.RFC3339Nano)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	if err := w.Write([]string{
		doc.CandidateId,
		doc.FullName,
		doc.Email,
		doc.Phone,
		doc.YearsExperience,
		doc.DesiredPosition,
		doc.CurrentLocation,
		stack,
		questions,
		answers,
		doc.CreatedAt.Format(time.RFC3339Nano),
		doc.RetentionUntil.Format(time.RFC3339Nano),
		strconv.FormatBool(doc.ConsentGiven),
		consentAt,
	}); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToRecordDocument expects an already decrypted candidate.
func ToRecordDocument(c *entity.Candidate) *dto.CandidateRecordDocument {
	answers := make([]dto.CandidateAnswerDocument, 0, len(c.Answers))
	for _, a := range c.Answers {
		answers = append(answers, dto.CandidateAnswerDocument{
			Question:   a.Question,
			Answer:     a.Answer,
			Evaluation: a.Evaluation,
		})
	}
	stack := c.TechStack
	if stack == nil {
		stack = []string{}
	}
	questions := c.TechnicalQuestions
	if questions == nil {
		questions = []string{}
	}
	return &dto.CandidateRecordDocument{
		CandidateId:        c.CandidateId,
		FullName:           c.FullName,
		Email:              c.Email,
		Phone:              c.Phone,
		YearsExperience:    c.YearsExperience,
		DesiredPosition:    c.DesiredPosition,
		CurrentLocation:    c.CurrentLocation,
		TechStack:          stack,
		TechnicalQuestions: questions,
		Answers:            answers,
		CreatedAt:          c.CreatedAt,
		RetentionUntil:     c.RetentionUntil,
		ConsentGiven:       c.ConsentGiven,
		ConsentTimestamp:   c.ConsentTimestamp,
	}
}

// ListCandidates pages through records without opening any sealed field.
func (s *CandidateStoreService) ListCandidates(ctx context.Context, page, limit int) (*dto.ListCandidatesResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.CandidateRepository()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	rows, err := repo.FindAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	res := &dto.ListCandidatesResponse{
		Candidates: make([]*dto.CandidateSummaryResponse, 0, len(rows)),
		Total:      total,
		Page:       page,
		Limit:      limit,
	}
	for _, c := range rows {
		res.Candidates = append(res.Candidates, &dto.CandidateSummaryResponse{
			CandidateId:     c.CandidateId,
			YearsExperience: c.YearsExperience,
			DesiredPosition: c.DesiredPosition,
			TechStack:       c.TechStack,
			QuestionCount:   len(c.TechnicalQuestions),
			AnswerCount:     len(c.Answers),
			CreatedAt:       c.CreatedAt,
			RetentionUntil:  c.RetentionUntil,
			UpdatedAt:       c.UpdatedAt,
		})
	}
	return res, nil
}

func (s *CandidateStoreService) ListCandidateIds(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ids, err := uow.CandidateRepository().ListIds(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return ids, nil
}

// AuditTrail is the admin view of the audit log; an empty candidateId
// returns every event.
func (s *CandidateStoreService) AuditTrail(ctx context.Context, candidateId string, page, limit int) ([]*dto.AuditEventResponse, error) {
	offset := 0
	if limit > 0 && page > 1 {
		offset = (page - 1) * limit
	}
	events, err := s.auditLog.QueryPage(ctx, candidateId, limit, offset)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.AuditEventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, &dto.AuditEventResponse{
			Id:          e.Id,
			Timestamp:   e.Timestamp,
			EventType:   e.EventType,
			CandidateId: e.CandidateId,
			Details:     e.Details,
		})
	}
	return res, nil
}

// StoreConversationMessage appends one transcript line with its content
// sealed.
func (s *CandidateStoreService) StoreConversationMessage(ctx context.Context, message *entity.ConversationMessage) error {
	sealed, err := s.cipher.Encrypt(message.Content)
	if err != nil {
		return &PersistenceError{Op: "seal message", CandidateId: message.CandidateId, Err: err}
	}
	row := *message
	row.Content = sealed
	if row.Id == uuid.Nil {
		row.Id = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationMessageRepository().Create(ctx, &row); err != nil {
		return &PersistenceError{Op: "store message", CandidateId: message.CandidateId, Err: err}
	}
	message.Id = row.Id
	message.CreatedAt = row.CreatedAt
	return nil
}

// ConversationHistory returns the transcript oldest first with content
// opened. limit <= 0 returns everything.
func (s *CandidateStoreService) ConversationHistory(ctx context.Context, candidateId string, limit int) ([]*entity.ConversationMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ConversationMessageRepository().FindByCandidateId(ctx, candidateId, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "history", CandidateId: candidateId, Err: err}
	}
	for _, m := range rows {
		if m.Content, err = s.cipher.Decrypt(m.Content); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (s *CandidateStoreService) SearchConversation(ctx context.Context, candidateId string, embedding []float32, k int) ([]*entity.ConversationMatch, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.ConversationMessageRepository().SearchSimilar(ctx, candidateId, embedding, k)
	if err != nil {
		return nil, &PersistenceError{Op: "search", CandidateId: candidateId, Err: err}
	}
	for _, m := range matches {
		if m.Message.Content, err = s.cipher.Decrypt(m.Message.Content); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// AttachEvaluations writes evaluations onto answers by position. Extra
// evaluations are ignored and missing ones leave the answer untouched.
func (s *CandidateStoreService) AttachEvaluations(ctx context.Context, candidateId string, evaluations []string) error {
	c, err := s.read(ctx, candidateId)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCandidateNotFound
	}
	for i := range c.Answers {
		if i < len(evaluations) && strings.TrimSpace(evaluations[i]) != "" {
			c.Answers[i].Evaluation = strings.TrimSpace(evaluations[i])
		}
	}
	return s.Upsert(ctx, candidateId, c)
}

func (s *CandidateStoreService) seal(c *entity.Candidate) (*entity.Candidate, error) {
	row := c.Clone()
	var err error
	if row.FullName, err = s.cipher.Encrypt(c.FullName); err != nil {
		return nil, err
	}
	if row.Email, err = s.cipher.Encrypt(c.Email); err != nil {
		return nil, err
	}
	if row.Phone, err = s.cipher.Encrypt(c.Phone); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *CandidateStoreService) open(row *entity.Candidate) (*entity.Candidate, error) {
	c := row.Clone()
	var err error
	if c.FullName, err = s.cipher.Decrypt(row.FullName); err != nil {
		return nil, err
	}
	if c.Email, err = s.cipher.Decrypt(row.Email); err != nil {
		return nil, err
	}
	if c.Phone, err = s.cipher.Decrypt(row.Phone); err != nil {
		return nil, err
	}
	return c, nil
}
