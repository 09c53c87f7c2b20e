package repositories

import (
	"sync"

	"imob-followup/internal/models"
)

// MemoryContactRepository holds the session's contact list. It is authoritative
// only between sync points; the remote service owns the list across sessions.
type MemoryContactRepository struct {
	mutex    sync.RWMutex
	contacts []models.Contact
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{}
}

func (r *MemoryContactRepository) ReplaceAll(contacts []models.Contact) {
	cp := make([]models.Contact, len(contacts))
	copy(cp, contacts)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.contacts = cp
}

func (r *MemoryContactRepository) GetAll() []models.Contact {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	cp := make([]models.Contact, len(r.contacts))
	copy(cp, r.contacts)
	return cp
}

func (r *MemoryContactRepository) GetByID(id string) (models.Contact, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, c := range r.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contact{}, false
}
