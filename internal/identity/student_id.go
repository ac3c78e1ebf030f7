package identity

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey is the key the student identifier is stored under.
const StorageKey = "app_student_id"

const idPrefix = "student-"

// Provider hands out a stable student identifier for one storage scope.
type Provider struct {
	store  Store
	logger *zap.Logger
}

// NewProvider returns a Provider backed by store. A nil store means no
// persistent storage: every call then yields a fresh identifier.
func NewProvider(store Store, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{store: store, logger: logger}
}

// GetOrCreateStudentID returns the stored identifier, creating and persisting
// one on first use. It never fails.
func (p *Provider) GetOrCreateStudentID() string {
	if p.store == nil || !p.store.Available() {
		return newStudentID()
	}

	existing, err := p.store.Get(StorageKey)
	if err != nil {
		p.logger.Warn("student id read failed; using unpersisted id", zap.Error(err))
		return newStudentID()
	}
	if existing != "" {
		return existing
	}

	id := newStudentID()
	if err := p.store.Set(StorageKey, id); err != nil {
		p.logger.Warn("student id write failed; id will not be stable", zap.Error(err))
	}
	return id
}

func newStudentID() string {
	if u, err := uuid.NewRandom(); err == nil {
		return idPrefix + u.String()
	}
	// Best effort when the random source is unavailable.
	suffix := strconv.FormatInt(rand.Int63(), 36)
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return idPrefix + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + suffix
}
