// Package memory implementa los repositorios en memoria. Se usa en tests y como respaldo
// cuando no hay DATABASE_URL configurado. Respeta el compare-and-swap por Version y la
// atomicidad del TxRunner igual que el adaptador de PostgreSQL.
package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// Store contiene todas las colecciones. Los valores se clonan al entrar y al salir:
// ningún caller comparte punteros con el store.
type Store struct {
	mu        sync.RWMutex
	products  *collection[*entity.Product]
	branches  *collection[*entity.Branch]
	orders    *collection[*entity.Order]
	requests  *collection[*entity.StockRequest]
	movements *collection[*entity.StockMovement]
	users     *collection[*entity.User]
	tags      *collection[*entity.CatalogTag]

	movementErr error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products: newCollection(
			func(p *entity.Product) string { return p.ID },
			func(p *entity.Product) *int64 { return &p.Version },
			(*entity.Product).Clone,
		),
		branches: newCollection(
			func(b *entity.Branch) string { return b.ID },
			func(b *entity.Branch) *int64 { return &b.Version },
			(*entity.Branch).Clone,
		),
		orders: newCollection(
			func(o *entity.Order) string { return o.ID },
			func(o *entity.Order) *int64 { return &o.Version },
			(*entity.Order).Clone,
		),
		requests: newCollection(
			func(r *entity.StockRequest) string { return r.ID },
			func(r *entity.StockRequest) *int64 { return &r.Version },
			(*entity.StockRequest).Clone,
		),
		movements: newCollection(
			func(m *entity.StockMovement) string { return m.ID },
			nil,
			func(m *entity.StockMovement) *entity.StockMovement { c := *m; return &c },
		),
		users: newCollection(
			func(u *entity.User) string { return u.ID },
			nil,
			func(u *entity.User) *entity.User { c := *u; return &c },
		),
		tags: newCollection(
			func(t *entity.CatalogTag) string { return t.Kind + ":" + t.ID },
			nil,
			func(t *entity.CatalogTag) *entity.CatalogTag { c := *t; return &c },
		),
	}
}

// FailMovements hace que el registro de movimientos falle con err (nil lo restablece).
// Permite probar que la auditoría es best-effort.
func (s *Store) FailMovements(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movementErr = err
}

// ──────────────────────────────────────────────────────────────────────────────
// Colección genérica con versionado
// ──────────────────────────────────────────────────────────────────────────────

type collection[T any] struct {
	rows    map[string]T
	id      func(T) string
	version func(T) *int64 // nil si la entidad no se versiona
	clone   func(T) T
}

func newCollection[T any](id func(T) string, version func(T) *int64, clone func(T) T) *collection[T] {
	return &collection[T]{rows: make(map[string]T), id: id, version: version, clone: clone}
}

func (c *collection[T]) versionOf(v T) int64 {
	if c.version == nil {
		return 0
	}
	return *c.version(v)
}

func (c *collection[T]) bump(v T) {
	if c.version != nil {
		*c.version(v)++
	}
}

// rowSource es lo que necesitan los repositorios; lo implementan el acceso directo y la tx.
type rowSource[T any] interface {
	get(id string) (T, bool)
	insert(v T) error
	update(v T) error
	remove(id string)
	list() []T
}

// direct accede a la colección bajo el lock del store; cada llamada es atómica.
type direct[T any] struct {
	mu *sync.RWMutex
	c  *collection[T]
}

func (d direct[T]) get(id string) (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.c.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return d.c.clone(v), true
}

func (d direct[T]) insert(v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.c.id(v)
	if _, ok := d.c.rows[id]; ok {
		return domain.ErrDuplicate
	}
	d.c.rows[id] = d.c.clone(v)
	return nil
}

func (d direct[T]) update(v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.c.id(v)
	cur, ok := d.c.rows[id]
	if !ok || d.c.versionOf(cur) != d.c.versionOf(v) {
		return domain.ErrWriteConflict
	}
	d.c.bump(v)
	d.c.rows[id] = d.c.clone(v)
	return nil
}

func (d direct[T]) remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.c.rows, id)
}

func (d direct[T]) list() []T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]T, 0, len(d.c.rows))
	for _, v := range d.c.rows {
		out = append(out, d.c.clone(v))
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras diferidas de una transacción
// ──────────────────────────────────────────────────────────────────────────────

type stagedRow[T any] struct {
	value   T
	base    int64 // versión leída del store al primer cambio
	created bool
	deleted bool
}

type staged[T any] struct {
	mu     *sync.RWMutex
	c      *collection[T]
	writes map[string]*stagedRow[T]
}

func newStaged[T any](mu *sync.RWMutex, c *collection[T]) *staged[T] {
	return &staged[T]{mu: mu, c: c, writes: make(map[string]*stagedRow[T])}
}

func (s *staged[T]) committed(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.c.rows[id]
	return v, ok
}

func (s *staged[T]) get(id string) (T, bool) {
	if w, ok := s.writes[id]; ok {
		if w.deleted {
			var zero T
			return zero, false
		}
		return s.c.clone(w.value), true
	}
	v, ok := s.committed(id)
	if !ok {
		return v, false
	}
	return s.c.clone(v), true
}

func (s *staged[T]) insert(v T) error {
	id := s.c.id(v)
	if _, ok := s.get(id); ok {
		return domain.ErrDuplicate
	}
	s.writes[id] = &stagedRow[T]{value: s.c.clone(v), created: true}
	return nil
}

func (s *staged[T]) update(v T) error {
	id := s.c.id(v)
	w, ok := s.writes[id]
	if !ok {
		cur, exists := s.committed(id)
		if !exists {
			return domain.ErrWriteConflict
		}
		w = &stagedRow[T]{value: cur, base: s.c.versionOf(cur)}
	}
	if w.deleted || s.c.versionOf(w.value) != s.c.versionOf(v) {
		return domain.ErrWriteConflict
	}
	s.c.bump(v)
	w.value = s.c.clone(v)
	s.writes[id] = w
	return nil
}

func (s *staged[T]) remove(id string) {
	if w, ok := s.writes[id]; ok {
		w.deleted = true
		return
	}
	if cur, ok := s.committed(id); ok {
		s.writes[id] = &stagedRow[T]{value: cur, base: s.c.versionOf(cur), deleted: true}
	}
}

func (s *staged[T]) list() []T {
	s.mu.RLock()
	out := make([]T, 0, len(s.c.rows)+len(s.writes))
	for id, v := range s.c.rows {
		if _, ok := s.writes[id]; ok {
			continue
		}
		out = append(out, s.c.clone(v))
	}
	s.mu.RUnlock()
	for _, w := range s.writes {
		if !w.deleted {
			out = append(out, s.c.clone(w.value))
		}
	}
	return out
}

// validate se llama con el lock de escritura tomado.
func (s *staged[T]) validate() error {
	for id, w := range s.writes {
		cur, exists := s.c.rows[id]
		if w.created {
			if exists {
				return domain.ErrWriteConflict
			}
			continue
		}
		if !exists || s.c.versionOf(cur) != w.base {
			return domain.ErrWriteConflict
		}
	}
	return nil
}

// apply se llama con el lock de escritura tomado y después de validate.
func (s *staged[T]) apply() {
	for id, w := range s.writes {
		if w.deleted {
			delete(s.c.rows, id)
			continue
		}
		s.c.rows[id] = w.value
	}
}

func sortedBy[T any](list []T, less func(a, b T) bool) []T {
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}
