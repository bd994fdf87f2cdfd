package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
)

// BaseTime anchors the CreatedAt of records built by Club.
var BaseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Club builds an approved entity whose CreatedAt grows with id, so lower IDs
// are older.
func Club(id int64, name, location string) entity.Entity {
	created := BaseTime.Add(time.Duration(id) * time.Minute)
	return entity.Entity{
		ID:        id,
		Name:      name,
		Location:  location,
		Status:    entity.StatusApproved,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Repository is an in-memory entity.Repository for tests. Deletes of
// referenced IDs fail with entity.ErrReferentialIntegrity, mirroring the
// bookings foreign key of the SQL store.
type Repository struct {
	mu         sync.Mutex
	clubs      []entity.Entity
	nextID     int64
	referenced map[int64]struct{}
	deleteErr  map[int64]error
	updateErr  map[int64]error
	writes     int
}

// NewRepository seeds a repository with clubs.
func NewRepository(clubs ...entity.Entity) *Repository {
	r := &Repository{
		referenced: make(map[int64]struct{}),
		deleteErr:  make(map[int64]error),
		updateErr:  make(map[int64]error),
	}
	for _, c := range clubs {
		r.clubs = append(r.clubs, c)
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

// Reference marks ids as having dependent records.
func (r *Repository) Reference(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.referenced[id] = struct{}{}
	}
}

// FailDelete makes Delete(id) return err.
func (r *Repository) FailDelete(id int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteErr[id] = err
}

// FailUpdate makes Update(id) return err.
func (r *Repository) FailUpdate(id int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateErr[id] = err
}

// Writes returns the number of successful Create, Update, and Delete calls.
func (r *Repository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// All returns a copy of the stored clubs in insertion order.
func (r *Repository) All() []entity.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return entity.Clone(r.clubs)
}

// Get returns the stored club with id.
func (r *Repository) Get(id int64) (entity.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.clubs[i], true
	}
	return entity.Entity{}, false
}

func (r *Repository) Find(_ context.Context, filter entity.Filter) ([]entity.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Entity
	for _, c := range r.clubs {
		if filter.Name != "" && !strings.EqualFold(strings.TrimSpace(filter.Name), c.Name) {
			continue
		}
		if filter.Status != "" && filter.Status != c.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) Create(_ context.Context, data entity.NewEntity) (*entity.Entity, error) {
	data, err := entity.ValidateNew(data)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := BaseTime.Add(time.Duration(r.nextID) * time.Minute)
	club := entity.Entity{
		ID:        r.nextID,
		Name:      data.Name,
		Location:  data.Location,
		AssetRef:  data.AssetRef,
		Status:    data.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.clubs = append(r.clubs, club)
	r.writes++
	return &club, nil
}

func (r *Repository) Update(_ context.Context, id int64, data entity.Update) (*entity.Entity, error) {
	data, err := entity.ValidateUpdate(data)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("update club %d: %w", id, entity.ErrNotFound)
	}
	club := &r.clubs[i]
	if data.Name != nil {
		club.Name = *data.Name
	}
	if data.Location != nil {
		club.Location = *data.Location
	}
	if data.AssetRef != nil {
		club.AssetRef = *data.AssetRef
	}
	if data.Status != nil {
		club.Status = *data.Status
	}
	club.UpdatedAt = club.UpdatedAt.Add(time.Second)
	r.writes++
	updated := *club
	return &updated, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete club %d: %w", id, entity.ErrNotFound)
	}
	if _, ok := r.referenced[id]; ok {
		return fmt.Errorf("delete club %d: %w", id, entity.ErrReferentialIntegrity)
	}
	r.clubs = append(r.clubs[:i], r.clubs[i+1:]...)
	r.writes++
	return nil
}

func (r *Repository) indexOf(id int64) int {
	for i, c := range r.clubs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// FileStore is an in-memory entity.FileStore.
type FileStore struct {
	mu      sync.Mutex
	files   map[string]string
	copies  int
	copyErr error
	prefix  string
}

// NewFileStore returns an empty store whose references start with prefix.
func NewFileStore(prefix string, existing ...string) *FileStore {
	fs := &FileStore{files: make(map[string]string), prefix: prefix}
	for _, name := range existing {
		fs.files[name] = "preexisting"
	}
	return fs
}

// FailCopy makes every Copy return err.
func (f *FileStore) FailCopy(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copyErr = err
}

// Copies returns the number of successful Copy calls.
func (f *FileStore) Copies() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies
}

// Source returns the path a stored file was copied from.
func (f *FileStore) Source(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.files[name]
	return src, ok
}

func (f *FileStore) Exists(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[name]
	return ok, nil
}

func (f *FileStore) Copy(source, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return f.copyErr
	}
	f.files[name] = source
	f.copies++
	return nil
}

func (f *FileStore) Ref(name string) string {
	return f.prefix + name
}
