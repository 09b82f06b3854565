package session

import (
	"sort"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

// MainList names the paginated result list owned by the fetch coordinator.
const MainList = "feed"

// Projection is one rendered position of an entity.
type Projection struct {
	List  string
	Index int
}

type projectionList struct {
	view View
	keys []string
}

// Store maps entity keys to their single source of truth. Lists hold keys
// only, so every projection of a key reads the same flags.
type Store struct {
	entities map[string]*feedapi.Video
	lists    map[string]*projectionList
	// pins counts holders that keep an entity alive while no list
	// references it, so a refetch cannot replace its flags.
	pins map[string]int
}

func NewStore() *Store {
	return &Store{
		entities: make(map[string]*feedapi.Video),
		lists:    make(map[string]*projectionList),
		pins:     make(map[string]int),
	}
}

// Eligible reports whether v may be shown in a list filtered by view.
func Eligible(view View, v feedapi.Video) bool {
	switch view {
	case ViewUnwatched:
		return !v.Watched
	case ViewWatched:
		return v.Watched
	case ViewBookmarked:
		return v.Bookmarked
	case ViewStarred:
		return v.Starred
	default:
		return true
	}
}

func (s *Store) Get(key string) (feedapi.Video, bool) {
	v, ok := s.entities[key]
	if !ok {
		return feedapi.Video{}, false
	}
	return *v, true
}

func (s *Store) list(name string) *projectionList {
	l, ok := s.lists[name]
	if !ok {
		l = &projectionList{view: ViewAll}
		s.lists[name] = l
	}
	return l
}

// SetView changes the filter of a list without touching its keys.
func (s *Store) SetView(name string, view View) {
	s.list(name).view = view
}

// Merge appends videos to a list. A key already known keeps its stored
// flags; the incoming copy may be older than a local optimistic change.
// Items the stored flags make ineligible for the list are not appended.
func (s *Store) Merge(name string, videos []feedapi.Video) int {
	l := s.list(name)
	present := make(map[string]struct{}, len(l.keys))
	for _, key := range l.keys {
		present[key] = struct{}{}
	}

	added := 0
	for _, incoming := range videos {
		key := incoming.Key()
		if key == "" {
			continue
		}
		entity, ok := s.entities[key]
		if !ok {
			copied := incoming
			entity = &copied
			s.entities[key] = entity
		}
		if _, dup := present[key]; dup {
			continue
		}
		if !Eligible(l.view, *entity) {
			continue
		}
		l.keys = append(l.keys, key)
		present[key] = struct{}{}
		added++
	}
	s.gc()
	return added
}

// Replace swaps the whole content of a list.
func (s *Store) Replace(name string, view View, videos []feedapi.Video) int {
	l := s.list(name)
	l.view = view
	l.keys = nil
	return s.Merge(name, videos)
}

func (s *Store) Clear(name string) {
	if l, ok := s.lists[name]; ok {
		l.keys = nil
	}
	s.gc()
}

func (s *Store) Len(name string) int {
	if l, ok := s.lists[name]; ok {
		return len(l.keys)
	}
	return 0
}

func (s *Store) Keys(name string) []string {
	l, ok := s.lists[name]
	if !ok {
		return nil
	}
	return append([]string(nil), l.keys...)
}

// Videos returns copies in list order.
func (s *Store) Videos(name string) []feedapi.Video {
	l, ok := s.lists[name]
	if !ok {
		return nil
	}
	out := make([]feedapi.Video, 0, len(l.keys))
	for _, key := range l.keys {
		out = append(out, *s.entities[key])
	}
	return out
}

// Projections lists every position of key, ordered by list name.
func (s *Store) Projections(key string) []Projection {
	names := make([]string, 0, len(s.lists))
	for name := range s.lists {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Projection
	for _, name := range names {
		for i, k := range s.lists[name].keys {
			if k == key {
				out = append(out, Projection{List: name, Index: i})
			}
		}
	}
	return out
}

// Update mutates the stored entity in place.
func (s *Store) Update(key string, fn func(*feedapi.Video)) bool {
	v, ok := s.entities[key]
	if !ok {
		return false
	}
	fn(v)
	return true
}

// Prune drops key from every list whose filter it no longer passes and
// returns the positions it held.
func (s *Store) Prune(key string) []Projection {
	v, ok := s.entities[key]
	if !ok {
		return nil
	}
	var removed []Projection
	for _, p := range s.Projections(key) {
		if Eligible(s.lists[p.List].view, *v) {
			continue
		}
		removed = append(removed, p)
	}
	// Remove from the back so earlier indices stay valid.
	for i := len(removed) - 1; i >= 0; i-- {
		l := s.lists[removed[i].List]
		l.keys = append(l.keys[:removed[i].Index], l.keys[removed[i].Index+1:]...)
	}
	s.gc()
	return removed
}

// Pin keeps key stored even when every list drops it.
func (s *Store) Pin(key string) {
	if _, ok := s.entities[key]; ok {
		s.pins[key]++
	}
}

// Unpin releases one Pin and collects the entity if nothing else holds it.
func (s *Store) Unpin(key string) {
	if s.pins[key] <= 1 {
		delete(s.pins, key)
	} else {
		s.pins[key]--
	}
	s.gc()
}

func (s *Store) gc() {
	referenced := make(map[string]struct{}, len(s.entities))
	for _, l := range s.lists {
		for _, key := range l.keys {
			referenced[key] = struct{}{}
		}
	}
	for key := range s.entities {
		if s.pins[key] > 0 {
			continue
		}
		if _, ok := referenced[key]; !ok {
			delete(s.entities, key)
		}
	}
}
