package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/models"
)

// memoryDocumentRepository backs the resume pool when no database is configured.
// Contents are lost on restart.
type memoryDocumentRepository struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]models.Document
	order []uuid.UUID
	now   func() time.Time
}

func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{
		docs: make(map[uuid.UUID]models.Document),
		now:  time.Now,
	}
}

// Create implements DocumentRepository.
func (m *memoryDocumentRepository) Create(document *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	if _, exists := m.docs[document.ID]; exists {
		return fmt.Errorf("failed to create document: duplicate id %s", document.ID)
	}

	now := m.now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	document.UpdatedAt = now

	m.docs[document.ID] = *document
	m.order = append(m.order, document.ID)

	return nil
}

// FindByID implements DocumentRepository.
func (m *memoryDocumentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDocumentNotFound, id)
	}

	return &doc, nil
}

// FindByIDs implements DocumentRepository.
func (m *memoryDocumentRepository) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := m.docs[id]; ok {
			docs = append(docs, doc)
		}
	}

	return orderByIDs(ids, docs)
}

// List implements DocumentRepository.
func (m *memoryDocumentRepository) List() ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]models.Document, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, m.docs[id])
	}

	return docs, nil
}

// Delete implements DocumentRepository.
func (m *memoryDocumentRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDocumentNotFound, id)
	}

	delete(m.docs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}
