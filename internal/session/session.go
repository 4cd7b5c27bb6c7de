// Package session owns the live link store. Every mutation runs under one
// lock on a copy of the store, is saved in full, and only then becomes
// visible to readers.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/MASHINC1/LinkMan/internal/checksum"
	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/storage"
)

// Change reasons passed to OnChange.
const (
	ReasonLinkAdded     = "link.added"
	ReasonLinkUpdated   = "link.updated"
	ReasonLinkDeleted   = "link.deleted"
	ReasonLinkMoved     = "link.moved"
	ReasonGroupMoved    = "group.moved"
	ReasonGroupRenamed  = "group.renamed"
	ReasonGroupDeleted  = "group.deleted"
	ReasonCategoryAdded = "category.added"
	ReasonImported      = "import"
	ReasonReloaded      = "reload"
)

// Params configures a Session.
type Params struct {
	Storage storage.Storage
	Logger  *slog.Logger
	// OnChange, if set, is called after each committed change with the new
	// snapshot checksum.
	OnChange func(checksum, reason string)
}

// Session serializes access to a model.Store and persists it.
type Session struct {
	mu       sync.Mutex
	store    *model.Store
	checksum string

	storage  storage.Storage
	logger   *slog.Logger
	onChange func(checksum, reason string)
}

// Open loads the snapshot from p.Storage and returns a Session around it.
func Open(p Params) (*Session, error) {
	if p.Storage == nil {
		return nil, fmt.Errorf("session: storage is required")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := p.Storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	sum, err := snapshotSum(store)
	if err != nil {
		return nil, err
	}

	return &Session{
		store:    store,
		checksum: sum,
		storage:  p.Storage,
		logger:   logger,
		onChange: p.OnChange,
	}, nil
}

func snapshotSum(store *model.Store) (string, error) {
	data, err := storage.EncodeSnapshot(store)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return checksum.Sum(data), nil
}

// Snapshot returns a copy of the current store.
func (s *Session) Snapshot() *model.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// Checksum identifies the current snapshot content.
func (s *Session) Checksum() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checksum
}

// mutate applies fn to a copy of the store. When fn reports a change the copy
// is saved and replaces the live store; on any error nothing changes.
func (s *Session) mutate(reason string, fn func(*model.Store) (bool, error)) error {
	s.mu.Lock()

	next := s.store.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}

	if err := s.storage.Save(next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save snapshot: %w", err)
	}
	sum, err := snapshotSum(next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.store = next
	s.checksum = sum
	s.mu.Unlock()

	s.logger.Debug("snapshot saved", slog.String("reason", reason), slog.String("checksum", sum))
	s.notify(sum, reason)
	return nil
}

func (s *Session) notify(sum, reason string) {
	if s.onChange != nil {
		s.onChange(sum, reason)
	}
}

// AddLink creates a link at the head of the list.
func (s *Session) AddLink(params model.NewLinkParams) (model.Link, error) {
	var link model.Link
	err := s.mutate(ReasonLinkAdded, func(st *model.Store) (bool, error) {
		var err error
		link, err = st.AddLink(params)
		return err == nil, err
	})
	return link, err
}

// UpdateLink merges update into the link with the given id.
func (s *Session) UpdateLink(id string, update model.LinkUpdate) (model.Link, error) {
	var link model.Link
	err := s.mutate(ReasonLinkUpdated, func(st *model.Store) (bool, error) {
		var err error
		link, err = st.UpdateLink(id, update)
		return err == nil, err
	})
	return link, err
}

// DeleteLink removes a link. Unknown ids are not an error.
func (s *Session) DeleteLink(id string) (bool, error) {
	var removed bool
	err := s.mutate(ReasonLinkDeleted, func(st *model.Store) (bool, error) {
		removed = st.DeleteLink(id)
		return removed, nil
	})
	return removed, err
}

// MoveLink moves a link into targetGroup before beforeID, or to the end of
// the group when beforeID is empty or unknown.
func (s *Session) MoveLink(id, targetGroup, beforeID string) (bool, error) {
	var moved bool
	err := s.mutate(ReasonLinkMoved, func(st *model.Store) (bool, error) {
		moved = st.MoveLink(id, targetGroup, beforeID)
		return moved, nil
	})
	return moved, err
}

// MoveGroup places dragged before or after target.
func (s *Session) MoveGroup(dragged, target string, insertAfter bool) (bool, error) {
	var moved bool
	err := s.mutate(ReasonGroupMoved, func(st *model.Store) (bool, error) {
		moved = st.MoveGroup(dragged, target, insertAfter)
		return moved, nil
	})
	return moved, err
}

// MoveGroupToEnd moves dragged to the end of the group order.
func (s *Session) MoveGroupToEnd(dragged string) (bool, error) {
	var moved bool
	err := s.mutate(ReasonGroupMoved, func(st *model.Store) (bool, error) {
		moved = st.MoveGroupToEnd(dragged)
		return moved, nil
	})
	return moved, err
}

// RenameGroup renames a group, merging into newName if it already exists.
func (s *Session) RenameGroup(oldName, newName string) (bool, error) {
	var renamed bool
	err := s.mutate(ReasonGroupRenamed, func(st *model.Store) (bool, error) {
		renamed = st.RenameGroup(oldName, newName)
		return renamed, nil
	})
	return renamed, err
}

// DeleteGroup removes a group with all its links and categories.
func (s *Session) DeleteGroup(group string) (int, error) {
	var removed int
	err := s.mutate(ReasonGroupDeleted, func(st *model.Store) (bool, error) {
		before := len(st.GroupOrder) + len(st.Categories)
		removed = st.DeleteGroup(group)
		return removed > 0 || len(st.GroupOrder)+len(st.Categories) != before, nil
	})
	return removed, err
}

// AddCategory registers a category and returns its canonical form.
func (s *Session) AddCategory(category string) (string, error) {
	var canonical string
	err := s.mutate(ReasonCategoryAdded, func(st *model.Store) (bool, error) {
		n := len(st.Categories)
		canonical = st.AddCategory(category)
		st.SyncGroupOrder()
		return len(st.Categories) != n, nil
	})
	return canonical, err
}

// Import adds a bulk import batch.
func (s *Session) Import(batch model.ImportBatch) (model.ImportResult, error) {
	var result model.ImportResult
	err := s.mutate(ReasonImported, func(st *model.Store) (bool, error) {
		result = st.ImportBatch(batch)
		return result.Created > 0, nil
	})
	return result, err
}

// Reload re-reads the snapshot from storage, for edits made outside this
// process. It reports whether the content differed from the live store; the
// session's own saves are recognised by checksum and ignored.
func (s *Session) Reload() (bool, error) {
	store, err := s.storage.Load()
	if err != nil {
		return false, fmt.Errorf("reload snapshot: %w", err)
	}
	sum, err := snapshotSum(store)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if sum == s.checksum {
		s.mu.Unlock()
		return false, nil
	}
	s.store = store
	s.checksum = sum
	s.mu.Unlock()

	s.logger.Info("snapshot reloaded from disk", slog.String("path", s.storage.Path()))
	s.notify(sum, ReasonReloaded)
	return true, nil
}
